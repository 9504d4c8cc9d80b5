package router

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"employee_manager/internal/model"
	"employee_manager/internal/service"
	"employee_manager/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenAuth struct{}

func (tokenAuth) Register(context.Context, service.RegisterInput) (*model.User, error) {
	return nil, service.ErrMissingFields
}

func (tokenAuth) Login(context.Context, string, string) (*model.User, string, error) {
	return nil, "", service.ErrInvalidCredentials
}

func (tokenAuth) Authenticate(_ context.Context, token string) (*model.User, *utils.JWTClaims, error) {
	switch token {
	case "admin":
		return &model.User{ID: "a", Role: model.RoleAdmin}, &utils.JWTClaims{}, nil
	case "user":
		return &model.User{ID: "u", Role: model.RoleUser}, &utils.JWTClaims{}, nil
	case "store-down":
		return nil, nil, errors.New("db down")
	}
	return nil, nil, service.ErrUnauthorized
}

func (tokenAuth) Logout(context.Context, *utils.JWTClaims) error { return nil }

// countingEmployees fails the test run if any data call slips past the guards
type countingEmployees struct{ calls int }

func (c *countingEmployees) Create(context.Context, model.EmployeeInput, *string) (*model.Employee, error) {
	c.calls++
	return &model.Employee{}, nil
}

func (c *countingEmployees) List(context.Context, model.EmployeeFilters) (*model.EmployeeList, error) {
	c.calls++
	return &model.EmployeeList{Employees: []model.Employee{}}, nil
}

func (c *countingEmployees) GetByID(context.Context, string) (*model.Employee, error) {
	c.calls++
	return &model.Employee{}, nil
}

func (c *countingEmployees) Update(context.Context, string, model.EmployeeInput, *string) (*model.Employee, error) {
	c.calls++
	return &model.Employee{}, nil
}

func (c *countingEmployees) Delete(context.Context, string) error {
	c.calls++
	return nil
}

func (c *countingEmployees) DashboardSummary(context.Context) (*model.DashboardSummary, error) {
	c.calls++
	return &model.DashboardSummary{}, nil
}

type noImages struct{}

func (noImages) Save(*multipart.FileHeader) (string, error) { return "", errors.New("unused") }

func (noImages) Remove(string) error { return nil }

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, db Pinger) (*gin.Engine, *countingEmployees, string) {
	t.Helper()
	dir := t.TempDir()
	employees := &countingEmployees{}
	r := New(Deps{
		Log:             zap.NewNop(),
		DB:              db,
		AuthService:     tokenAuth{},
		EmployeeService: employees,
		Images:          noImages{},
		UploadsDir:      dir,
		AllowedOrigins:  []string{"http://localhost:3000"},
	})
	return r, employees, dir
}

func send(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var employeeEndpoints = []struct{ method, path string }{
	{http.MethodPost, "/api/v1/employees"},
	{http.MethodGet, "/api/v1/employees"},
	{http.MethodGet, "/api/v1/employees/dashboard"},
	{http.MethodGet, "/api/v1/employees/0b8f5f38-0d4c-4b43-9b0f-3f3a1c1e2d4a"},
	{http.MethodPut, "/api/v1/employees/0b8f5f38-0d4c-4b43-9b0f-3f3a1c1e2d4a"},
	{http.MethodDelete, "/api/v1/employees/0b8f5f38-0d4c-4b43-9b0f-3f3a1c1e2d4a"},
}

func TestEmployeeRoutes_RejectUnauthorized(t *testing.T) {
	r, employees, _ := newTestRouter(t, pinger{})

	for _, ep := range employeeEndpoints {
		assert.Equal(t, http.StatusUnauthorized, send(r, ep.method, ep.path, "").Code, ep.path)
		assert.Equal(t, http.StatusUnauthorized, send(r, ep.method, ep.path, "forged").Code, ep.path)
		assert.Equal(t, http.StatusForbidden, send(r, ep.method, ep.path, "user").Code, ep.path)
	}
	assert.Zero(t, employees.calls)
}

func TestEmployeeRoutes_StoreFailureDuringAuth(t *testing.T) {
	r, employees, _ := newTestRouter(t, pinger{})

	w := send(r, http.MethodGet, "/api/v1/employees/dashboard", "store-down")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
	assert.Zero(t, employees.calls)
}

func TestEmployeeRoutes_AllowAdmin(t *testing.T) {
	r, employees, _ := newTestRouter(t, pinger{})

	for _, ep := range employeeEndpoints {
		w := send(r, ep.method, ep.path, "admin")
		assert.Less(t, w.Code, 300, ep.method+" "+ep.path)
	}
	assert.Equal(t, len(employeeEndpoints), employees.calls)
}

func TestRoot(t *testing.T) {
	r, _, _ := newTestRouter(t, pinger{})

	w := send(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "API is running", w.Body.String())
}

func TestHealth(t *testing.T) {
	r, _, _ := newTestRouter(t, pinger{})
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/health", "").Code)

	r, _, _ = newTestRouter(t, pinger{err: errors.New("down")})
	assert.Equal(t, http.StatusServiceUnavailable, send(r, http.MethodGet, "/health", "").Code)
}

func TestUploadsServedStatically(t *testing.T) {
	r, _, dir := newTestRouter(t, pinger{})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1-abc.png"), []byte("img"), 0o644))

	w := send(r, http.MethodGet, "/uploads/1-abc.png", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "img", w.Body.String())

	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/uploads/missing.png", "").Code)
}

func TestCORS(t *testing.T) {
	r, _, _ := newTestRouter(t, pinger{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/employees", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t, pinger{})
	send(r, http.MethodGet, "/", "")

	w := send(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
