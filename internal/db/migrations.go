package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		vehicle_key VARCHAR(71) NOT NULL,
		vin VARCHAR(32) NOT NULL,
		plate_number VARCHAR(32) NOT NULL,
		jurisdiction_code VARCHAR(64) NOT NULL,
		created_by_org_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT vehicles_vehicle_key_format CHECK (vehicle_key ~ '^sha256:[0-9a-f]{64}$')
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_vehicles_vehicle_key ON vehicles (vehicle_key);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_vin ON vehicles (vin);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_plate_number ON vehicles (plate_number);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_jurisdiction_code ON vehicles (jurisdiction_code);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_created_by_org_id ON vehicles (created_by_org_id);`,
	`CREATE OR REPLACE FUNCTION set_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_vehicles_updated_at') THEN
			CREATE TRIGGER trg_vehicles_updated_at
				BEFORE UPDATE ON vehicles
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
