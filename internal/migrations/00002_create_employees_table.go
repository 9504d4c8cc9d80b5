package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateEmployeesTable, downCreateEmployeesTable)
}

func upCreateEmployeesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE IF NOT EXISTS employees (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		employee_id TEXT UNIQUE NOT NULL,
		full_name TEXT NOT NULL,
		gender TEXT NOT NULL DEFAULT '',
		dob DATE,
		state TEXT NOT NULL DEFAULT '',
		profile_image TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_employees_created_at ON employees(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_employees_gender ON employees(gender);
	CREATE INDEX IF NOT EXISTS idx_employees_is_active ON employees(is_active);

	CREATE OR REPLACE FUNCTION update_updated_at_column()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ language 'plpgsql';

	DROP TRIGGER IF EXISTS set_employees_updated_at ON employees;
	CREATE TRIGGER set_employees_updated_at
	BEFORE UPDATE ON employees
	FOR EACH ROW
	EXECUTE FUNCTION update_updated_at_column();
	`
	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateEmployeesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	DROP TABLE IF EXISTS employees;
	DROP FUNCTION IF EXISTS update_updated_at_column();
	`
	_, err := tx.ExecContext(ctx, query)
	return err
}
