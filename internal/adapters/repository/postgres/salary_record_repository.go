package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/ogurasousui/payslip-service/internal/core/payroll"
	pgdb "github.com/ogurasousui/payslip-service/internal/platform/db/postgres"
)

const salaryRecordColumns = `id,
               COALESCE(employee_id::text, ''),
               fio,
               position,
               warehouse,
               base_salary::text,
               fixed_bonus::text,
               feoktistov_bonus::text,
               overtime::text,
               deduction_defect::text,
               deduction_absent::text,
               total::text,
               calc_date,
               document_ref,
               created_at`

// SalaryRecordRepository は給与履歴を追記専用で保存する PostgreSQL 実装です。
type SalaryRecordRepository struct {
	db    pgdb.Runner
	clock payroll.Clock
}

type utcClock struct{}

func (utcClock) Now() time.Time { return time.Now().UTC() }

// NewSalaryRecordRepository は SalaryRecordRepository を生成します。clock が nil の場合は現在時刻を使います。
func NewSalaryRecordRepository(db pgdb.Runner, clock payroll.Clock) *SalaryRecordRepository {
	if clock == nil {
		clock = utcClock{}
	}
	return &SalaryRecordRepository{db: db, clock: clock}
}

// Append はレコードを挿入し、採番した ID を返します。更新は行いません。
func (r *SalaryRecordRepository) Append(ctx context.Context, record *payroll.SalaryRecord) (string, error) {
	const op = "archive append"

	id := record.ID
	if id == "" {
		generated, err := newID()
		if err != nil {
			return "", payroll.Persistence(op, err)
		}
		id = generated
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.clock.Now().UTC()
	}

	a := record.Amounts
	err := r.db.Write(ctx, func(q pgdb.Queryer) error {
		_, err := q.Exec(ctx, `
        INSERT INTO salary_records (
            id, employee_id, fio, position, warehouse,
            base_salary, fixed_bonus, feoktistov_bonus, overtime, deduction_defect, deduction_absent,
            total, calc_date, document_ref, created_at
        )
        VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8::numeric, $9::numeric, $10::numeric, $11::numeric, $12::numeric, $13, $14, $15)
    `,
			id,
			nullableText(record.EmployeeID),
			record.FIO,
			record.Position,
			record.Warehouse,
			a.BaseSalary.String(),
			a.FixedBonus.String(),
			a.FeoktistovBonus.String(),
			a.Overtime.String(),
			a.DeductionDefect.String(),
			a.DeductionAbsent.String(),
			record.Total.String(),
			dateOnly(record),
			record.DocumentRef,
			createdAt,
		)
		return err
	})
	if err != nil {
		return "", payroll.Persistence(op, err)
	}
	return id, nil
}

// List は計算日の降順 (同日は ID の降順) で全件を返します。
func (r *SalaryRecordRepository) List(ctx context.Context) ([]*payroll.SalaryRecord, error) {
	const op = "archive list"

	var records []*payroll.SalaryRecord
	err := r.db.Read(ctx, func(q pgdb.Queryer) error {
		rows, err := q.Query(ctx, `
        SELECT `+salaryRecordColumns+`
          FROM salary_records
         ORDER BY calc_date DESC, id DESC
    `)
		if err != nil {
			return err
		}
		defer rows.Close()

		records = make([]*payroll.SalaryRecord, 0)
		for rows.Next() {
			rec, err := scanSalaryRecord(rows)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, payroll.Persistence(op, err)
	}
	return records, nil
}

// Get は ID でレコードを取得します。
func (r *SalaryRecordRepository) Get(ctx context.Context, id string) (*payroll.SalaryRecord, error) {
	const op = "archive get"

	var record *payroll.SalaryRecord
	err := r.db.Read(ctx, func(q pgdb.Queryer) error {
		row := q.QueryRow(ctx, `
        SELECT `+salaryRecordColumns+`
          FROM salary_records
         WHERE id = $1
    `, id)

		var err error
		record, err = scanSalaryRecord(row)
		return err
	})
	if err != nil {
		return nil, translateSalaryRecordError(op, err)
	}
	return record, nil
}

// Delete はレコードを物理削除します。存在しない場合は NotFound です。
func (r *SalaryRecordRepository) Delete(ctx context.Context, id string) error {
	const op = "archive delete"

	err := r.db.Write(ctx, func(q pgdb.Queryer) error {
		tag, err := q.Exec(ctx, `DELETE FROM salary_records WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return translateSalaryRecordError(op, err)
	}
	return nil
}

func scanSalaryRecord(row pgx.Row) (*payroll.SalaryRecord, error) {
	var (
		rec        payroll.SalaryRecord
		amountText [7]string
	)

	if err := row.Scan(
		&rec.ID,
		&rec.EmployeeID,
		&rec.FIO,
		&rec.Position,
		&rec.Warehouse,
		&amountText[0],
		&amountText[1],
		&amountText[2],
		&amountText[3],
		&amountText[4],
		&amountText[5],
		&amountText[6],
		&rec.CalcDate,
		&rec.DocumentRef,
		&rec.CreatedAt,
	); err != nil {
		return nil, err
	}

	targets := [7]*decimal.Decimal{
		&rec.Amounts.BaseSalary,
		&rec.Amounts.FixedBonus,
		&rec.Amounts.FeoktistovBonus,
		&rec.Amounts.Overtime,
		&rec.Amounts.DeductionDefect,
		&rec.Amounts.DeductionAbsent,
		&rec.Total,
	}
	for i, raw := range amountText {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("postgres: salary_records amount %q: %w", raw, err)
		}
		*targets[i] = value
	}

	t := rec.CalcDate
	rec.CalcDate = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &rec, nil
}

func translateSalaryRecordError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return payroll.NotFound(op, payroll.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextCode {
		return payroll.NotFound(op, payroll.ErrRecordNotFound)
	}

	return payroll.Persistence(op, err)
}

func dateOnly(record *payroll.SalaryRecord) time.Time {
	t := record.CalcDate
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nullableText(value string) any {
	if value == "" {
		return nil
	}
	return value
}
