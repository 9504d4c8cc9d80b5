package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"employee_manager/internal/model"

	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, employee_id, full_name, gender, dob, state, profile_image, is_active, created_at, updated_at`

// EmployeeRepository defines operations for employee data
type EmployeeRepository interface {
	Create(ctx context.Context, e *model.Employee) error
	FindByID(ctx context.Context, id string) (*model.Employee, error)
	List(ctx context.Context, filters model.EmployeeFilters) ([]model.Employee, int64, error)
	Update(ctx context.Context, e *model.Employee) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (*model.DashboardSummary, error)
}

type employeeRepository struct {
	db DBTX
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db DBTX) EmployeeRepository {
	return &employeeRepository{db: db}
}

func scanEmployee(row pgx.Row, e *model.Employee) error {
	return row.Scan(
		&e.ID, &e.EmployeeID, &e.FullName, &e.Gender, &e.DOB, &e.State,
		&e.ProfileImage, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
}

// Create inserts a new employee and fills in the generated columns
func (r *employeeRepository) Create(ctx context.Context, e *model.Employee) error {
	sql := `INSERT INTO employees (employee_id, full_name, gender, dob, state, profile_image, is_active)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, e.EmployeeID, e.FullName, e.Gender, e.DOB, e.State, e.ProfileImage, e.IsActive).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create employee: %w", ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// FindByID retrieves an employee by its record ID; (nil, nil) when absent
func (r *employeeRepository) FindByID(ctx context.Context, id string) (*model.Employee, error) {
	e := &model.Employee{}
	sql := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	if err := scanEmployee(r.db.QueryRow(ctx, sql, id), e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find employee by ID: %w", err)
	}
	return e, nil
}

// escapeLike makes search match literally inside an ILIKE pattern
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns one page of employees, newest first, plus the total matching count
func (r *employeeRepository) List(ctx context.Context, filters model.EmployeeFilters) ([]model.Employee, int64, error) {
	args := []interface{}{}
	argCount := 1
	var conditions []string

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("full_name ILIKE $%d", argCount))
		args = append(args, "%"+escapeLike(filters.Search)+"%")
		argCount++
	}
	if filters.Gender != "" {
		conditions = append(conditions, fmt.Sprintf("gender = $%d", argCount))
		args = append(args, filters.Gender)
		argCount++
	}
	if filters.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argCount))
		args = append(args, *filters.IsActive)
		argCount++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM employees"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + employeeColumns + " FROM employees")
	queryBuilder.WriteString(whereClause)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1))
	pageArgs := append(args, filters.Limit, filters.Offset())

	rows, err := r.db.Query(ctx, queryBuilder.String(), pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []model.Employee{}
	for rows.Next() {
		var e model.Employee
		if err := scanEmployee(rows, &e); err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee row: %w", err)
		}
		employees = append(employees, e)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating employee rows: %w", err)
	}
	return employees, total, nil
}

// Update overwrites the mutable columns of an existing employee
func (r *employeeRepository) Update(ctx context.Context, e *model.Employee) error {
	sql := `UPDATE employees
            SET full_name = $1, gender = $2, dob = $3, state = $4, profile_image = $5, is_active = $6
            WHERE id = $7 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, e.FullName, e.Gender, e.DOB, e.State, e.ProfileImage, e.IsActive, e.ID).
		Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return nil
}

// Delete removes an employee permanently
func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus counts all employees and the active ones in a single scan
func (r *employeeRepository) CountByStatus(ctx context.Context) (*model.DashboardSummary, error) {
	var total, active int64
	sql := `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM employees`
	if err := r.db.QueryRow(ctx, sql).Scan(&total, &active); err != nil {
		return nil, fmt.Errorf("failed to count employees by status: %w", err)
	}
	return &model.DashboardSummary{
		TotalEmployees:         total,
		TotalActiveEmployees:   active,
		TotalInActiveEmployees: total - active,
	}, nil
}
