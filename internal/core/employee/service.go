package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// UseCase は社員マスタのユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
	RefreshDirectory(ctx context.Context) (*Snapshot, error)
}

// Service は社員マスタに関するユースケースをまとめます。
type Service struct {
	repo     Repository
	clock    Clock
	dir      *Directory
	validate *validator.Validate
}

// NewService は Service を生成します。dir が nil の場合は repo から新しく構築します。
func NewService(repo Repository, clock Clock, dir *Directory) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if dir == nil {
		dir = NewDirectory(repo)
	}
	return &Service{repo: repo, clock: clock, dir: dir, validate: validator.New()}
}

// Directory はこのサービスが更新する社員ディレクトリを返します。
func (s *Service) Directory() *Directory {
	return s.dir
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	FullName  string `validate:"required,max=255"`
	Position  string `validate:"max=255"`
	Email     string `validate:"omitempty,email"`
	Warehouse string `validate:"max=255"`
	BaseRate  string
}

// UpdateEmployeeInput は社員更新時の入力です。nil のフィールドは変更しません。
type UpdateEmployeeInput struct {
	ID        string  `validate:"required"`
	FullName  *string `validate:"omitempty,min=1,max=255"`
	Position  *string `validate:"omitempty,max=255"`
	Email     *string `validate:"omitempty,email"`
	Warehouse *string `validate:"omitempty,max=255"`
	BaseRate  *string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID string
}

// CreateEmployee は新しい社員を登録します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Position = strings.TrimSpace(in.Position)
	in.Email = strings.TrimSpace(in.Email)
	in.Warehouse = strings.TrimSpace(in.Warehouse)

	if err := s.validateStruct(in); err != nil {
		return nil, err
	}

	rate, err := parseBaseRate(in.BaseRate)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	created, err := s.repo.Create(ctx, &Employee{
		FullName:  in.FullName,
		Position:  in.Position,
		Email:     in.Email,
		Warehouse: in.Warehouse,
		BaseRate:  rate,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.dir.Invalidate()
	return created, nil
}

// UpdateEmployee は社員情報を更新します。既存の給与履歴には影響しません。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	in.ID = strings.TrimSpace(in.ID)
	if in.ID == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	in.FullName = trimPtr(in.FullName)
	in.Position = trimPtr(in.Position)
	in.Email = trimPtr(in.Email)
	in.Warehouse = trimPtr(in.Warehouse)

	if in.FullName != nil && *in.FullName == "" {
		return nil, fmt.Errorf("full_name: %w", ErrInvalidFullName)
	}
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		existing.FullName = *in.FullName
	}
	if in.Position != nil {
		existing.Position = *in.Position
	}
	if in.Email != nil {
		existing.Email = *in.Email
	}
	if in.Warehouse != nil {
		existing.Warehouse = *in.Warehouse
	}
	if in.BaseRate != nil {
		rate, err := parseBaseRate(*in.BaseRate)
		if err != nil {
			return nil, err
		}
		existing.BaseRate = rate
	}
	existing.UpdatedAt = s.clock.Now()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.dir.Invalidate()
	return updated, nil
}

// DeleteEmployee は社員を削除します。給与履歴は残ります。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	if err := s.repo.Delete(ctx, strings.TrimSpace(in.ID)); err != nil {
		return err
	}

	s.dir.Invalidate()
	return nil
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.FindByID(ctx, strings.TrimSpace(in.ID))
}

// ListEmployees は氏名順に社員一覧を返します。
func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	return s.repo.List(ctx)
}

// RefreshDirectory はディレクトリのスナップショットを再読み込みします。
func (s *Service) RefreshDirectory(ctx context.Context) (*Snapshot, error) {
	return s.dir.Refresh(ctx)
}

func (s *Service) validateStruct(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	first := verrs[0]
	switch first.Field() {
	case "FullName":
		return fmt.Errorf("full_name: %w", ErrInvalidFullName)
	case "Email":
		return fmt.Errorf("email: %w", ErrInvalidEmail)
	case "ID":
		return fmt.Errorf("id: %w", ErrInvalidID)
	default:
		return fmt.Errorf("%s: %w", strings.ToLower(first.Field()), ErrInvalidInput)
	}
}

func parseBaseRate(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("base_rate %q: %w", raw, ErrInvalidBaseRate)
	}
	return rate, nil
}

func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}
