package platecore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// VehicleIDPrefix names the hash algorithm of a vehicle id.
const VehicleIDPrefix = "sha256:"

var ErrInvalidVehicleID = errors.New("invalid vehicle id")

type VehicleIDInput struct {
	VIN   string `json:"vin"`
	Plate string `json:"plate"`
}

type NormalizedIDResult struct {
	ID              string `json:"id"`
	NormalizedVIN   string `json:"normalized_vin"`
	NormalizedPlate string `json:"normalized_plate"`
}

// GenerateVehicleID hashes "<vin>:<plate>" after normalizing both parts.
// Inputs that normalize the same always produce the same id.
func GenerateVehicleID(in VehicleIDInput) NormalizedIDResult {
	vin := NormalizeVIN(in.VIN)
	plate := NormalizePlate(in.Plate)
	sum := sha256.Sum256([]byte(vin + ":" + plate))
	return NormalizedIDResult{
		ID:              VehicleIDPrefix + hex.EncodeToString(sum[:]),
		NormalizedVIN:   vin,
		NormalizedPlate: plate,
	}
}

// ParseVehicleID checks that id is "sha256:" followed by 64 lowercase hex
// characters and returns the digest part.
func ParseVehicleID(id string) (string, error) {
	digest, ok := strings.CutPrefix(id, VehicleIDPrefix)
	if !ok || len(digest) != sha256.Size*2 {
		return "", ErrInvalidVehicleID
	}
	for i := 0; i < len(digest); i++ {
		c := digest[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", ErrInvalidVehicleID
		}
	}
	return digest, nil
}
