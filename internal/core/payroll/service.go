package payroll

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ogurasousui/payslip-service/internal/core/employee"
)

const (
	OpCompute        = "compute"
	OpPreview        = "preview"
	OpArchive        = "archive"
	OpSend           = "send"
	OpListArchive    = "list archive"
	OpGetArchived    = "get archived"
	OpViewArchived   = "view archived"
	OpDeleteArchived = "delete archived"
)

// UseCase は給与計算・帳票アクションの公開インターフェースです。
type UseCase interface {
	Compute(ctx context.Context, raw RawAmounts) (*Calculation, error)
	RenderAndArchive(ctx context.Context, in CalculationInput) (*ActionResult, error)
	RenderAndView(ctx context.Context, in CalculationInput) (*ActionResult, error)
	RenderAndSend(ctx context.Context, in CalculationInput) (*ActionResult, error)
	ListArchive(ctx context.Context) ([]*SalaryRecord, error)
	GetArchived(ctx context.Context, id string) (*SalaryRecord, error)
	ViewArchived(ctx context.Context, id string) (*SalaryRecord, error)
	DeleteArchived(ctx context.Context, id string) error
}

// Dependencies は Service が利用する外部コンポーネントです。
type Dependencies struct {
	Archive   ArchiveRepository
	Directory Directory
	Renderer  Renderer
	Artifacts ArtifactStore
	Viewer    Viewer
	Mailer    Mailer
	Clock     Clock
	Logger    *zap.Logger
	Signature string
}

// Service は計算エンジン・アーカイブ・帳票配信をまとめます。
type Service struct {
	archive   ArchiveRepository
	directory Directory
	renderer  Renderer
	artifacts ArtifactStore
	viewer    Viewer
	mailer    Mailer
	clock     Clock
	logger    *zap.Logger
	signature string
}

// NewService は Service を生成します。
func NewService(deps Dependencies) *Service {
	clock := deps.Clock
	if clock == nil {
		clock = realClock{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		archive:   deps.Archive,
		directory: deps.Directory,
		renderer:  deps.Renderer,
		artifacts: deps.Artifacts,
		viewer:    deps.Viewer,
		mailer:    deps.Mailer,
		clock:     clock,
		logger:    logger.Named("payroll"),
		signature: deps.Signature,
	}
}

// CalculationInput はアクション実行時の入力です。
type CalculationInput struct {
	EmployeeName string
	Amounts      RawAmounts
	// CalcDate は 日.月.年 形式。空欄なら当日。
	CalcDate string
}

// Calculation は Compute の結果です。
type Calculation struct {
	Amounts Amounts
	Total   decimal.Decimal
}

// ActionResult は保存・表示・送信アクションの結果です。
type ActionResult struct {
	Record   *SalaryRecord
	Artifact *DocumentArtifact
	// Recipient は送信アクションの宛先です。
	Recipient string
}

// Compute は 6 つの金額から合計を計算します。状態は変更しません。
func (s *Service) Compute(_ context.Context, raw RawAmounts) (*Calculation, error) {
	amounts, err := ParseAmounts(raw)
	if err != nil {
		return nil, s.fail(OpCompute, Validation(OpCompute, err))
	}
	return &Calculation{Amounts: amounts, Total: Compute(amounts)}, nil
}

// RenderAndArchive は帳票を生成し、給与履歴として保存します。
func (s *Service) RenderAndArchive(ctx context.Context, in CalculationInput) (*ActionResult, error) {
	record, _, err := s.prepare(ctx, OpArchive, in)
	if err != nil {
		return nil, s.fail(OpArchive, err)
	}

	artifact, err := s.render(ctx, OpArchive, record)
	if err != nil {
		return nil, s.fail(OpArchive, err)
	}

	id, err := s.archive.Append(ctx, record)
	if err != nil {
		s.logger.Warn("document left without archive record",
			zap.String("document_ref", record.DocumentRef),
			zap.String("employee", record.FIO),
		)
		return nil, s.fail(OpArchive, keepOrWrap(KindPersistence, OpArchive, err))
	}
	record.ID = id

	s.logger.Info("salary record archived",
		zap.String("id", id),
		zap.String("employee", record.FIO),
		zap.String("total", record.Total.String()),
	)
	return &ActionResult{Record: record, Artifact: artifact}, nil
}

// RenderAndView は帳票を生成し、ローカルの閲覧機能で開きます。保存は行いません。
func (s *Service) RenderAndView(ctx context.Context, in CalculationInput) (*ActionResult, error) {
	record, _, err := s.prepare(ctx, OpPreview, in)
	if err != nil {
		return nil, s.fail(OpPreview, err)
	}

	artifact, err := s.render(ctx, OpPreview, record)
	if err != nil {
		return nil, s.fail(OpPreview, err)
	}

	if err := s.viewer.View(ctx, record.DocumentRef); err != nil {
		return nil, s.fail(OpPreview, Delivery(OpPreview, err))
	}
	return &ActionResult{Record: record, Artifact: artifact}, nil
}

// RenderAndSend は帳票を生成し、社員のメールアドレスへ添付送信します。保存は行いません。
func (s *Service) RenderAndSend(ctx context.Context, in CalculationInput) (*ActionResult, error) {
	record, emp, err := s.prepare(ctx, OpSend, in)
	if err != nil {
		return nil, s.fail(OpSend, err)
	}
	if !IsRecipientAddress(emp.Email) {
		return nil, s.fail(OpSend, Validation(OpSend, fmt.Errorf("%w: %q", ErrInvalidRecipient, emp.Email)))
	}

	artifact, err := s.render(ctx, OpSend, record)
	if err != nil {
		return nil, s.fail(OpSend, err)
	}

	msg := ComposeMessage(record, emp.Email, artifact, s.signature)
	if err := s.mailer.Send(ctx, msg); err != nil {
		return nil, s.fail(OpSend, keepOrWrap(KindDelivery, OpSend, err))
	}

	s.logger.Info("payslip sent",
		zap.String("employee", record.FIO),
		zap.String("to", msg.To),
		zap.String("document", artifact.Name),
	)
	return &ActionResult{Record: record, Artifact: artifact, Recipient: msg.To}, nil
}

// ListArchive は給与履歴を計算日の新しい順に返します。
func (s *Service) ListArchive(ctx context.Context) ([]*SalaryRecord, error) {
	records, err := s.archive.List(ctx)
	if err != nil {
		return nil, s.fail(OpListArchive, keepOrWrap(KindPersistence, OpListArchive, err))
	}
	return records, nil
}

// GetArchived は給与履歴を 1 件返します。
func (s *Service) GetArchived(ctx context.Context, id string) (*SalaryRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, s.fail(OpGetArchived, NotFound(OpGetArchived, ErrRecordNotFound))
	}
	record, err := s.archive.Get(ctx, id)
	if err != nil {
		return nil, s.fail(OpGetArchived, keepOrWrap(KindPersistence, OpGetArchived, err))
	}
	return record, nil
}

// ViewArchived は保存済みレコードの帳票ファイルを開きます。
func (s *Service) ViewArchived(ctx context.Context, id string) (*SalaryRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, s.fail(OpViewArchived, NotFound(OpViewArchived, ErrRecordNotFound))
	}
	record, err := s.archive.Get(ctx, id)
	if err != nil {
		return nil, s.fail(OpViewArchived, keepOrWrap(KindPersistence, OpViewArchived, err))
	}
	if err := s.viewer.View(ctx, record.DocumentRef); err != nil {
		return nil, s.fail(OpViewArchived, Delivery(OpViewArchived, err))
	}
	return record, nil
}

// DeleteArchived は給与履歴を物理削除します。帳票ファイルは削除しません。
func (s *Service) DeleteArchived(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return s.fail(OpDeleteArchived, NotFound(OpDeleteArchived, ErrRecordNotFound))
	}
	if err := s.archive.Delete(ctx, id); err != nil {
		return s.fail(OpDeleteArchived, keepOrWrap(KindPersistence, OpDeleteArchived, err))
	}
	s.logger.Info("salary record deleted", zap.String("id", id))
	return nil
}

// prepare は入力を検証し、社員スナップショットを含む SalaryRecord を組み立てます。
// ここで失敗した場合、レンダラ・アーカイブ・配信のいずれも呼ばれません。
func (s *Service) prepare(ctx context.Context, op string, in CalculationInput) (*SalaryRecord, employee.Employee, error) {
	name := strings.TrimSpace(in.EmployeeName)
	if name == "" {
		return nil, employee.Employee{}, Validation(op, ErrEmployeeNotSelected)
	}

	amounts, err := ParseAmounts(in.Amounts)
	if err != nil {
		return nil, employee.Employee{}, Validation(op, err)
	}

	calcDate, err := s.calcDate(in.CalcDate)
	if err != nil {
		return nil, employee.Employee{}, Validation(op, err)
	}

	snap, err := s.directory.Load(ctx)
	if err != nil {
		return nil, employee.Employee{}, Persistence(op, fmt.Errorf("load directory: %w", err))
	}
	emp, ok := snap.Lookup(name)
	if !ok {
		return nil, employee.Employee{}, NotFound(op, fmt.Errorf("%w: %q", ErrUnknownEmployee, name))
	}

	return &SalaryRecord{
		EmployeeID: emp.ID,
		FIO:        emp.FullName,
		Position:   emp.Position,
		Warehouse:  emp.Warehouse,
		Amounts:    amounts,
		Total:      Compute(amounts),
		CalcDate:   calcDate,
	}, emp, nil
}

// render は帳票を 1 度だけ生成して保存し、document_ref を record に設定します。
// 生成失敗は render、ファイル保存の失敗は persistence として返します。
func (s *Service) render(ctx context.Context, op string, record *SalaryRecord) (*DocumentArtifact, error) {
	artifact, err := s.renderer.Render(record)
	if err != nil {
		return nil, keepOrWrap(KindRender, op, err)
	}

	ref, err := s.artifacts.Save(ctx, artifact)
	if err != nil {
		return nil, keepOrWrap(KindPersistence, op, fmt.Errorf("store %s: %w", artifact.Name, err))
	}
	record.DocumentRef = ref
	return artifact, nil
}

func (s *Service) calcDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		now := s.clock.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(CalcDateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCalcDate, raw)
	}
	return t, nil
}

func (s *Service) fail(op string, err error) error {
	s.logger.Error("action failed",
		zap.String("op", op),
		zap.String("kind", string(KindOf(err))),
		zap.Error(err),
	)
	return err
}
