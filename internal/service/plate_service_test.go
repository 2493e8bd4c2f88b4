package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plate-service/internal/platecore"
)

func TestPlateService_Validate(t *testing.T) {
	svc := NewPlateService(platecore.NewRegistry(nil))

	got, err := svc.Validate(platecore.JurisdictionMexicoCity, "abc123")
	require.NoError(t, err)
	assert.True(t, got.IsValid)
	assert.Equal(t, "ABC123", got.NormalizedPlate)
	assert.Equal(t, "ABC-123", got.DisplayPlate)
	assert.Empty(t, got.Reasons)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, platecore.CodeNormalized, got.Warnings[0].Code)

	_, err = svc.Validate("mx-cmx", "abc123")
	assert.ErrorIs(t, err, ErrUnknownJurisdiction)
}

func TestPlateService_Identity(t *testing.T) {
	svc := NewPlateService(platecore.NewRegistry(nil))

	a, err := svc.Identity("1HGCM82633A123456", "ABC-123")
	require.NoError(t, err)
	b, err := svc.Identity(" 1hgcm82633a123456", "abc 123")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	_, err = svc.Identity("  ", "--")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlateService_JurisdictionsAndDetect(t *testing.T) {
	reg := platecore.NewRegistry(nil)
	svc := NewPlateService(reg)

	assert.Equal(t, []string{"LATAM-GENERIC", "MX-CMX", "US-GENERIC"}, svc.Jurisdictions())
	assert.Equal(t, []string{"US-GENERIC"}, svc.Detect("a1"))

	reg.RegisterRule(platecore.BuildValidator("AA", platecore.DefaultRules()["US-GENERIC"].Pattern()))
	assert.Equal(t, []string{"AA", "LATAM-GENERIC", "MX-CMX", "US-GENERIC"}, svc.Jurisdictions())
}
