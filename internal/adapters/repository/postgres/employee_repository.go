package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/ogurasousui/payslip-service/internal/core/employee"
	pgdb "github.com/ogurasousui/payslip-service/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	invalidTextCode         = "22P02"
	employeeFullNameUniqKey = "employees_full_name_key"
)

const employeeColumns = `id, full_name, position, email, warehouse, base_rate::text, created_at, updated_at`

// EmployeeRepository は PostgreSQL を利用した社員マスタの実装です。
type EmployeeRepository struct {
	db pgdb.Runner
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(db pgdb.Runner) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create は社員を新規作成します。ID が空の場合は UUIDv7 を採番します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	id := e.ID
	if id == "" {
		generated, err := newID()
		if err != nil {
			return nil, err
		}
		id = generated
	}

	var created *employee.Employee
	err := r.db.Write(ctx, func(q pgdb.Queryer) error {
		row := q.QueryRow(ctx, `
        INSERT INTO employees (id, full_name, position, email, warehouse, base_rate, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)
        RETURNING `+employeeColumns,
			id,
			e.FullName,
			e.Position,
			e.Email,
			e.Warehouse,
			e.BaseRate.String(),
			e.CreatedAt,
			e.UpdatedAt,
		)

		var err error
		created, err = scanEmployee(row)
		return err
	})
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は社員情報を更新します。給与履歴側のスナップショットは変更されません。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	var updated *employee.Employee
	err := r.db.Write(ctx, func(q pgdb.Queryer) error {
		row := q.QueryRow(ctx, `
        UPDATE employees
           SET full_name = $1,
               position = $2,
               email = $3,
               warehouse = $4,
               base_rate = $5::numeric,
               updated_at = $6
         WHERE id = $7
        RETURNING `+employeeColumns,
			e.FullName,
			e.Position,
			e.Email,
			e.Warehouse,
			e.BaseRate.String(),
			e.UpdatedAt,
			e.ID,
		)

		var err error
		updated, err = scanEmployee(row)
		return err
	})
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は社員を削除します。salary_records は参照制約を持たないため残ります。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	err := r.db.Write(ctx, func(q pgdb.Queryer) error {
		tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return employee.ErrEmployeeNotFound
		}
		return nil
	})
	return translateEmployeePgError(err)
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	var found *employee.Employee
	err := r.db.Read(ctx, func(q pgdb.Queryer) error {
		row := q.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
         LIMIT 1
    `, id)

		var err error
		found, err = scanEmployee(row)
		return err
	})
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は氏名順に全社員を取得します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	var employees []*employee.Employee
	err := r.db.Read(ctx, func(q pgdb.Queryer) error {
		rows, err := q.Query(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         ORDER BY full_name ASC, id ASC
    `)
		if err != nil {
			return err
		}
		defer rows.Close()

		employees = make([]*employee.Employee, 0)
		for rows.Next() {
			emp, err := scanEmployee(rows)
			if err != nil {
				return err
			}
			employees = append(employees, emp)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		e        employee.Employee
		baseRate string
	)

	if err := row.Scan(
		&e.ID,
		&e.FullName,
		&e.Position,
		&e.Email,
		&e.Warehouse,
		&baseRate,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	rate, err := decimal.NewFromString(baseRate)
	if err != nil {
		return nil, fmt.Errorf("postgres: employees.base_rate %q: %w", baseRate, err)
	}
	e.BaseRate = rate

	return &e, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			if pgErr.ConstraintName == "" || pgErr.ConstraintName == employeeFullNameUniqKey {
				return employee.ErrFullNameAlreadyExists
			}
		case invalidTextCode:
			return employee.ErrInvalidID
		}
	}

	return err
}
