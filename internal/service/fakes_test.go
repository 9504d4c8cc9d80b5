package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"employee_manager/internal/model"
	"employee_manager/internal/repository"

	"github.com/google/uuid"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*model.User
	err     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicateKey
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeEmployeeRepo struct {
	mu      sync.Mutex
	records map[string]model.Employee
	seq     int
	calls   int
	err     error

	lastFilters model.EmployeeFilters
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{records: map[string]model.Employee{}}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.seq++
	e.ID = uuid.NewString()
	e.CreatedAt = time.Unix(int64(r.seq), 0)
	e.UpdatedAt = e.CreatedAt
	r.records[e.ID] = *e
	return nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id string) (*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	e, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *fakeEmployeeRepo) List(_ context.Context, f model.EmployeeFilters) ([]model.Employee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.lastFilters = f
	if r.err != nil {
		return nil, 0, r.err
	}
	var matched []model.Employee
	for _, e := range r.records {
		if f.Search != "" && !strings.Contains(strings.ToLower(e.FullName), strings.ToLower(f.Search)) {
			continue
		}
		if f.Gender != "" && e.Gender != f.Gender {
			continue
		}
		if f.IsActive != nil && e.IsActive != *f.IsActive {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))
	start := f.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	if _, ok := r.records[e.ID]; !ok {
		return repository.ErrNotFound
	}
	e.UpdatedAt = time.Now()
	r.records[e.ID] = *e
	return nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	if _, ok := r.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *fakeEmployeeRepo) CountByStatus(_ context.Context) (*model.DashboardSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	s := &model.DashboardSummary{}
	for _, e := range r.records {
		s.TotalEmployees++
		if e.IsActive {
			s.TotalActiveEmployees++
		}
	}
	s.TotalInActiveEmployees = s.TotalEmployees - s.TotalActiveEmployees
	return s, nil
}

var errStore = errors.New("store unavailable")

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
