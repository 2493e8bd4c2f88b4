package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"plate-service/internal/model"
)

var ErrDuplicateKey = errors.New("duplicate vehicle key")

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	err := r.db.WithContext(ctx).Create(vehicle).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *VehicleRepository) GetByKey(ctx context.Context, key string) (*model.Vehicle, error) {
	if key == "" {
		return nil, nil
	}
	return r.first(ctx, "vehicle_key = ?", key)
}

// GetByPlate returns the most recently registered vehicle with plate.
func (r *VehicleRepository) GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	if plate == "" {
		return nil, nil
	}
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).
		Where("plate_number = ?", plate).
		Order("created_at DESC").
		First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vehicle, nil
}

type VehicleListFilter struct {
	JurisdictionCode *string
	CreatedByOrgID   *uuid.UUID
	PlateNumber      *string
}

func (r *VehicleRepository) List(ctx context.Context, filter VehicleListFilter) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	query := r.db.WithContext(ctx).Model(&model.Vehicle{})

	if filter.JurisdictionCode != nil {
		query = query.Where("jurisdiction_code = ?", *filter.JurisdictionCode)
	}
	if filter.CreatedByOrgID != nil {
		query = query.Where("created_by_org_id = ?", *filter.CreatedByOrgID)
	}
	if filter.PlateNumber != nil {
		query = query.Where("plate_number = ?", *filter.PlateNumber)
	}

	if err := query.Order("created_at DESC").Find(&vehicles).Error; err != nil {
		return nil, err
	}

	return vehicles, nil
}

func (r *VehicleRepository) first(ctx context.Context, cond string, arg interface{}) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).Where(cond, arg).First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vehicle, nil
}
