package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"plate-service/internal/model"
	"plate-service/internal/platecore"
	"plate-service/internal/repository"
)

// VehicleStore is the persistence the vehicle service needs.
type VehicleStore interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	GetByKey(ctx context.Context, key string) (*model.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error)
	List(ctx context.Context, filter repository.VehicleListFilter) ([]model.Vehicle, error)
}

type VehicleService struct {
	vehicleRepo  VehicleStore
	plateService *PlateService
}

func NewVehicleService(vehicleRepo VehicleStore, plateService *PlateService) *VehicleService {
	return &VehicleService{
		vehicleRepo:  vehicleRepo,
		plateService: plateService,
	}
}

type RegisterVehicleInput struct {
	VIN              string
	Plate            string
	JurisdictionCode string
}

type RegisterVehicleResult struct {
	Vehicle  *model.Vehicle                `json:"vehicle"`
	Warnings []platecore.ValidationMessage `json:"warnings"`
}

func (s *VehicleService) Register(ctx context.Context, principal model.Principal, input RegisterVehicleInput) (*RegisterVehicleResult, error) {
	if !principal.CanRegisterVehicles() {
		return nil, ErrPermissionDenied
	}

	validation, err := s.plateService.Validate(strings.TrimSpace(input.JurisdictionCode), input.Plate)
	if err != nil {
		return nil, err
	}
	if !validation.IsValid {
		return nil, &ValidationError{Result: validation.PlateValidationResult}
	}

	identity := platecore.GenerateVehicleID(platecore.VehicleIDInput{VIN: input.VIN, Plate: input.Plate})
	if identity.NormalizedVIN == "" {
		return nil, ErrInvalidInput
	}
	if len(identity.NormalizedVIN) > model.MaxVINLength || len(identity.NormalizedPlate) > model.MaxPlateLength {
		return nil, ErrInvalidInput
	}

	existing, err := s.vehicleRepo.GetByKey(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	vehicle := &model.Vehicle{
		VehicleKey:       identity.ID,
		VIN:              identity.NormalizedVIN,
		PlateNumber:      identity.NormalizedPlate,
		JurisdictionCode: validation.JurisdictionCode,
		CreatedByOrgID:   principal.OrgID,
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return &RegisterVehicleResult{
		Vehicle:  vehicle,
		Warnings: validation.Warnings,
	}, nil
}

func (s *VehicleService) Get(ctx context.Context, principal model.Principal, id string) (*model.Vehicle, error) {
	if principal.UserID == uuid.Nil {
		return nil, ErrPermissionDenied
	}

	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidInput
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrNotFound
	}
	return vehicle, nil
}

func (s *VehicleService) GetByKey(ctx context.Context, principal model.Principal, key string) (*model.Vehicle, error) {
	if principal.UserID == uuid.Nil {
		return nil, ErrPermissionDenied
	}
	if _, err := platecore.ParseVehicleID(key); err != nil {
		return nil, ErrInvalidInput
	}

	vehicle, err := s.vehicleRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrNotFound
	}
	return vehicle, nil
}

// GetByPlate returns the latest vehicle registered with the normalized form
// of plate.
func (s *VehicleService) GetByPlate(ctx context.Context, principal model.Principal, plate string) (*model.Vehicle, error) {
	if principal.UserID == uuid.Nil {
		return nil, ErrPermissionDenied
	}

	normalized := platecore.NormalizePlate(plate)
	if normalized == "" {
		return nil, ErrInvalidInput
	}

	vehicle, err := s.vehicleRepo.GetByPlate(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrNotFound
	}
	return vehicle, nil
}

// Lookup recomputes the vehicle id from raw vin and plate and finds the
// registered vehicle with that id.
func (s *VehicleService) Lookup(ctx context.Context, principal model.Principal, vin, plate string) (*model.Vehicle, error) {
	identity, err := s.plateService.Identity(vin, plate)
	if err != nil {
		return nil, err
	}
	return s.GetByKey(ctx, principal, identity.ID)
}

type ListVehiclesInput struct {
	JurisdictionCode string
	Plate            string
	OnlyMyOrg        bool
}

func (s *VehicleService) List(ctx context.Context, principal model.Principal, input ListVehiclesInput) ([]model.Vehicle, error) {
	if principal.UserID == uuid.Nil {
		return nil, ErrPermissionDenied
	}

	filter := repository.VehicleListFilter{}
	if code := strings.TrimSpace(input.JurisdictionCode); code != "" {
		filter.JurisdictionCode = &code
	}
	if plate := platecore.NormalizePlate(input.Plate); plate != "" {
		filter.PlateNumber = &plate
	}
	// Non-admins only ever see their own organization.
	if input.OnlyMyOrg || !principal.IsAdmin() {
		orgID := principal.OrgID
		filter.CreatedByOrgID = &orgID
	}

	return s.vehicleRepo.List(ctx, filter)
}
