package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Queryer は pgx.Tx および pgxpool.Pool と互換性のあるクエリ実行インターフェースです。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Runner は呼び出しごとに短いセッションを開き、fn に Queryer を渡します。
type Runner interface {
	Read(ctx context.Context, fn func(Queryer) error) error
	Write(ctx context.Context, fn func(Queryer) error) error
}

type txBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Session は 1 回の操作につき 1 つのトランザクションを開いて閉じる Runner です。
// 複数の操作にまたがるトランザクションは持ちません。
type Session struct {
	db txBeginner
}

// NewSession は Session を生成します。
func NewSession(db txBeginner) *Session {
	return &Session{db: db}
}

// Read は読み取り専用トランザクションで fn を実行します。
func (s *Session) Read(ctx context.Context, fn func(Queryer) error) error {
	return s.run(ctx, pgx.ReadOnly, fn)
}

// Write は読み書きトランザクションで fn を実行し、成功時にコミットします。
func (s *Session) Write(ctx context.Context, fn func(Queryer) error) error {
	return s.run(ctx, pgx.ReadWrite, fn)
}

func (s *Session) run(ctx context.Context, mode pgx.TxAccessMode, fn func(Queryer) error) error {
	if fn == nil {
		return fmt.Errorf("postgres: session function is required")
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{AccessMode: mode})
	if err != nil {
		return fmt.Errorf("postgres: begin session: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("postgres: rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}
