package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"employee_manager/internal/model"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var employeeCols = []string{"id", "employee_id", "full_name", "gender", "dob", "state", "profile_image", "is_active", "created_at", "updated_at"}

func TestEmployeeRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	e := &model.Employee{EmployeeID: "EMP-1", FullName: "Jane Doe", Gender: "female", DOB: &dob, IsActive: true}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO employees`)).
		WithArgs("EMP-1", "Jane Doe", "female", &dob, "", (*string)(nil), true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("e-1", now, now))

	err = NewEmployeeRepository(mock).Create(context.Background(), e)

	require.NoError(t, err)
	assert.Equal(t, "e-1", e.ID)
	assert.Equal(t, now, e.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_FindByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	img := "1700000000000-abc.png"
	mock.ExpectQuery(regexp.QuoteMeta(`FROM employees WHERE id = $1`)).
		WithArgs("e-1").
		WillReturnRows(pgxmock.NewRows(employeeCols).
			AddRow("e-1", "EMP-1", "Jane Doe", "female", nil, "CA", &img, true, now, now))

	e, err := NewEmployeeRepository(mock).FindByID(context.Background(), "e-1")

	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "Jane Doe", e.FullName)
	assert.Nil(t, e.DOB)
	require.NotNil(t, e.ProfileImage)
	assert.Equal(t, img, *e.ProfileImage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_FindByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM employees WHERE id = $1`)).
		WithArgs("e-404").
		WillReturnRows(pgxmock.NewRows(employeeCols))

	e, err := NewEmployeeRepository(mock).FindByID(context.Background(), "e-404")

	assert.NoError(t, err)
	assert.Nil(t, e)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_List_WithFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	active := true
	filters := model.EmployeeFilters{Search: "50%_jan", Gender: "female", IsActive: &active, Page: 2, Limit: 5}
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM employees WHERE full_name ILIKE $1 AND gender = $2 AND is_active = $3`)).
		WithArgs(`%50\%\_jan%`, "female", true).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(6)))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC LIMIT $4 OFFSET $5`)).
		WithArgs(`%50\%\_jan%`, "female", true, 5, 5).
		WillReturnRows(pgxmock.NewRows(employeeCols).
			AddRow("e-6", "EMP-6", "Jane 50%_jan", "female", nil, "", nil, true, now, now))

	employees, total, err := NewEmployeeRepository(mock).List(context.Background(), filters)

	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, employees, 1)
	assert.Equal(t, "e-6", employees[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_List_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM employees`)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC LIMIT $1 OFFSET $2`)).
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(employeeCols))

	employees, total, err := NewEmployeeRepository(mock).List(context.Background(), model.EmployeeFilters{Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Update_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE employees`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "e-404").
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}))

	err = NewEmployeeRepository(mock).Update(context.Background(), &model.Employee{ID: "e-404", FullName: "X"})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM employees WHERE id = $1`)).
		WithArgs("e-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM employees WHERE id = $1`)).
		WithArgs("e-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewEmployeeRepository(mock)
	assert.NoError(t, repo.Delete(context.Background(), "e-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "e-1"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_CountByStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`COUNT(*) FILTER (WHERE is_active)`)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "count"}).AddRow(int64(7), int64(4)))

	summary, err := NewEmployeeRepository(mock).CountByStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), summary.TotalEmployees)
	assert.Equal(t, int64(4), summary.TotalActiveEmployees)
	assert.Equal(t, int64(3), summary.TotalInActiveEmployees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
