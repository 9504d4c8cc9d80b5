package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"employee_manager/internal/model"
	"employee_manager/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit within range for any limit up to MaxLimit
	MaxPage = math.MaxInt32
)

// EmployeeService defines operations for employee records
type EmployeeService interface {
	Create(ctx context.Context, in model.EmployeeInput, profileImage *string) (*model.Employee, error)
	List(ctx context.Context, filters model.EmployeeFilters) (*model.EmployeeList, error)
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	Update(ctx context.Context, id string, in model.EmployeeInput, profileImage *string) (*model.Employee, error)
	Delete(ctx context.Context, id string) error
	DashboardSummary(ctx context.Context) (*model.DashboardSummary, error)
}

type employeeService struct {
	repo     repository.EmployeeRepository
	validate *validator.Validate
	newID    func() string
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(repo repository.EmployeeRepository) EmployeeService {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("gender", validGender)
	return &employeeService{repo: repo, validate: v, newID: NewEmployeeID}
}

// NewEmployeeID returns a human-readable identifier backed by a random UUID
func NewEmployeeID() string {
	return "EMP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func validGender(fl validator.FieldLevel) bool {
	return slices.Contains(model.Genders, fl.Field().String())
}

// ParseStatus maps the status query value to an active flag; "" means no filter
func ParseStatus(status string) (*bool, error) {
	var active bool
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "":
		return nil, nil
	case "active":
		active = true
	case "inactive":
		active = false
	default:
		return nil, ErrInvalidStatus
	}
	return &active, nil
}

func parseRecordID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", ErrInvalidEmployeeID
	}
	return parsed.String(), nil
}

// apply merges the supplied fields into e; nil fields are left untouched
func apply(e *model.Employee, in model.EmployeeInput) {
	if in.FullName != nil {
		e.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Gender != nil {
		e.Gender = strings.ToLower(strings.TrimSpace(*in.Gender))
	}
	if in.DOB != nil {
		dob := *in.DOB
		e.DOB = &dob
	}
	if in.State != nil {
		e.State = strings.TrimSpace(*in.State)
	}
	if in.IsActive != nil {
		e.IsActive = *in.IsActive
	}
}

func (s *employeeService) check(e *model.Employee) error {
	if err := s.validate.Struct(e); err != nil {
		return newValidationError(err)
	}
	return nil
}

func (s *employeeService) Create(ctx context.Context, in model.EmployeeInput, profileImage *string) (*model.Employee, error) {
	employee := &model.Employee{
		EmployeeID:   s.newID(),
		IsActive:     true,
		ProfileImage: profileImage,
	}
	apply(employee, in)

	if err := s.check(employee); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee in repo: %w", err)
	}
	return employee, nil
}

func (s *employeeService) List(ctx context.Context, filters model.EmployeeFilters) (*model.EmployeeList, error) {
	if filters.Page < 1 {
		filters.Page = DefaultPage
	}
	if filters.Page > MaxPage {
		filters.Page = MaxPage
	}
	if filters.Limit < 1 {
		filters.Limit = DefaultLimit
	}
	if filters.Limit > MaxLimit {
		filters.Limit = MaxLimit
	}
	filters.Search = strings.TrimSpace(filters.Search)
	filters.Gender = strings.ToLower(strings.TrimSpace(filters.Gender))

	employees, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees from repo: %w", err)
	}
	if employees == nil {
		employees = []model.Employee{}
	}

	return &model.EmployeeList{
		Employees:  employees,
		Pagination: model.NewPagination(total, filters.Page, filters.Limit),
	}, nil
}

func (s *employeeService) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	recordID, err := parseRecordID(id)
	if err != nil {
		return nil, err
	}

	employee, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee by ID: %w", err)
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}
	return employee, nil
}

func (s *employeeService) Update(ctx context.Context, id string, in model.EmployeeInput, profileImage *string) (*model.Employee, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(existing, in)
	if profileImage != nil {
		existing.ProfileImage = profileImage
	}

	if err := s.check(existing); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to update employee in repo: %w", err)
	}
	return existing, nil
}

func (s *employeeService) Delete(ctx context.Context, id string) error {
	recordID, err := parseRecordID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, recordID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee in repo: %w", err)
	}
	return nil
}

func (s *employeeService) DashboardSummary(ctx context.Context) (*model.DashboardSummary, error) {
	summary, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard counts: %w", err)
	}
	return summary, nil
}
