package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/ogurasousui/payslip-service/internal/core/employee"
	pgdb "github.com/ogurasousui/payslip-service/internal/platform/db/postgres"
)

var employeeColumnNames = []string{"id", "full_name", "position", "email", "warehouse", "base_rate", "created_at", "updated_at"}

type stubRow struct {
	scanFn func(dest ...any) error
}

func (s stubRow) Scan(dest ...any) error {
	return s.scanFn(dest...)
}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *EmployeeRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewEmployeeRepository(pgdb.NewSession(mock))
}

func TestScanEmployee_Success(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	row := stubRow{scanFn: func(dest ...any) error {
		if len(dest) != 8 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "emp-1"
		*(dest[1].(*string)) = "Иванов Иван"
		*(dest[2].(*string)) = "Кладовщик"
		*(dest[3].(*string)) = "ivanov@example.com"
		*(dest[4].(*string)) = "Северный"
		*(dest[5].(*string)) = "50000.50"
		*(dest[6].(*time.Time)) = createdAt
		*(dest[7].(*time.Time)) = createdAt
		return nil
	}}

	emp, err := scanEmployee(row)
	if err != nil {
		t.Fatalf("scanEmployee returned error: %v", err)
	}
	if !emp.BaseRate.Equal(decimal.RequireFromString("50000.5")) {
		t.Fatalf("unexpected base rate: %s", emp.BaseRate)
	}
	if emp.FullName != "Иванов Иван" || emp.Warehouse != "Северный" {
		t.Fatalf("unexpected employee: %+v", emp)
	}
}

func TestScanEmployee_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...any) error {
		return pgx.ErrNoRows
	}}

	_, err := scanEmployee(row)
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestTranslateEmployeePgError(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: employeeFullNameUniqKey}
	if !errors.Is(translateEmployeePgError(uniqueErr), employee.ErrFullNameAlreadyExists) {
		t.Fatalf("expected unique violation to map to ErrFullNameAlreadyExists")
	}

	invalidErr := &pgconn.PgError{Code: invalidTextCode}
	if !errors.Is(translateEmployeePgError(invalidErr), employee.ErrInvalidID) {
		t.Fatalf("expected invalid text to map to ErrInvalidID")
	}

	other := errors.New("other")
	if translateEmployeePgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestEmployeeRepository_Create(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepo(t)
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery(`INSERT INTO employees`).
		WithArgs(pgxmock.AnyArg(), "Иванов Иван", "Кладовщик", "ivanov@example.com", "Северный", "50000", now, now).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames).
			AddRow("0192f3a4-0000-7000-8000-000000000001", "Иванов Иван", "Кладовщик", "ivanov@example.com", "Северный", "50000", now, now))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), &employee.Employee{
		FullName:  "Иванов Иван",
		Position:  "Кладовщик",
		Email:     "ivanov@example.com",
		Warehouse: "Северный",
		BaseRate:  decimal.RequireFromString("50000"),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id to be returned")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_CreateDuplicateName(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepo(t)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery(`INSERT INTO employees`).
		WithArgs(pgxmock.AnyArg(), "Иванов Иван", "", "", "", "0", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: employeeFullNameUniqKey})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &employee.Employee{FullName: "Иванов Иван"})
	if !errors.Is(err, employee.ErrFullNameAlreadyExists) {
		t.Fatalf("expected ErrFullNameAlreadyExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_UpdateNotFound(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepo(t)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery(`UPDATE employees`).
		WithArgs("Никто", "", "", "", "0", pgxmock.AnyArg(), "emp-404").
		WillReturnRows(pgxmock.NewRows(employeeColumnNames))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), &employee.Employee{ID: "emp-404", FullName: "Никто"})
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Delete(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepo(t)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectExec(`DELETE FROM employees WHERE id = \$1`).
		WithArgs("emp-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectExec(`DELETE FROM employees WHERE id = \$1`).
		WithArgs("emp-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	if err := repo.Delete(context.Background(), "emp-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := repo.Delete(context.Background(), "emp-1"); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_ListOrdersByName(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadOnly})
	mock.ExpectQuery(`ORDER BY full_name ASC, id ASC`).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames).
			AddRow("emp-2", "Агеев Антон", "Водитель", "", "Южный", "0", now, now).
			AddRow("emp-1", "Белов Борис", "Кладовщик", "belov@example.com", "Северный", "42000.00", now, now))
	mock.ExpectCommit()

	employees, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(employees) != 2 || employees[0].FullName != "Агеев Антон" {
		t.Fatalf("unexpected employees: %+v", employees)
	}
	if !employees[1].BaseRate.Equal(decimal.RequireFromString("42000")) {
		t.Fatalf("unexpected base rate: %s", employees[1].BaseRate)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
