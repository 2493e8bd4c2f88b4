package service

import (
	"fmt"

	"plate-service/internal/platecore"
)

// PlateValidation is a rule result plus the display form of the plate.
type PlateValidation struct {
	platecore.PlateValidationResult
	DisplayPlate string `json:"display_plate"`
}

type PlateService struct {
	registry *platecore.Registry
}

func NewPlateService(registry *platecore.Registry) *PlateService {
	return &PlateService{registry: registry}
}

// Validate checks plate against the rule for code. Unknown codes are an
// error; there is no fallback rule.
func (s *PlateService) Validate(code, plate string) (*PlateValidation, error) {
	rule, ok := s.registry.GetRule(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJurisdiction, code)
	}
	result := rule.Validate(plate)
	return &PlateValidation{
		PlateValidationResult: result,
		DisplayPlate:          platecore.FormatPlate(result.NormalizedPlate),
	}, nil
}

func (s *PlateService) Jurisdictions() []string {
	return s.registry.ListStates()
}

func (s *PlateService) Detect(plate string) []string {
	return s.registry.Detect(plate)
}

// Identity computes the vehicle id. At least one of vin and plate must
// survive normalization.
func (s *PlateService) Identity(vin, plate string) (*platecore.NormalizedIDResult, error) {
	result := platecore.GenerateVehicleID(platecore.VehicleIDInput{VIN: vin, Plate: plate})
	if result.NormalizedVIN == "" && result.NormalizedPlate == "" {
		return nil, ErrInvalidInput
	}
	return &result, nil
}

func (s *PlateService) Normalize(plate string) string {
	return platecore.NormalizePlate(plate)
}
