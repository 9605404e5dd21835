package payroll

import (
	"errors"
	"fmt"
)

// Kind はアクション境界で扱うエラー分類です。
type Kind string

const (
	KindValidation  Kind = "validation"
	KindRender      Kind = "render"
	KindPersistence Kind = "persistence"
	KindDelivery    Kind = "delivery"
	KindNotFound    Kind = "not_found"
)

var (
	ErrValidation  = errors.New("payroll: validation failed")
	ErrRender      = errors.New("payroll: render failed")
	ErrPersistence = errors.New("payroll: persistence failed")
	ErrDelivery    = errors.New("payroll: delivery failed")
	ErrNotFound    = errors.New("payroll: not found")
)

var (
	ErrEmployeeNotSelected = errors.New("payroll: employee is not selected")
	ErrUnknownEmployee     = errors.New("payroll: employee is not in the directory")
	ErrInvalidCalcDate     = errors.New("payroll: invalid calculation date")
	ErrInvalidRecipient    = errors.New("payroll: recipient address is invalid")
	ErrRecordNotFound      = errors.New("payroll: salary record not found")
	ErrArtifactNotFound    = errors.New("payroll: document file not found")
)

var kindSentinels = map[Kind]error{
	KindValidation:  ErrValidation,
	KindRender:      ErrRender,
	KindPersistence: ErrPersistence,
	KindDelivery:    ErrDelivery,
	KindNotFound:    ErrNotFound,
}

// Error は失敗したアクションと分類を保持するエラーです。
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("payroll: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("payroll: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is は分類ごとの番兵エラーとの比較を可能にします。
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// KindOf は err に含まれる最も外側の分類を返します。分類が無い場合は空文字です。
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// keepOrWrap は err が既に分類済みであればそのまま返し、未分類なら kind で包みます。
func keepOrWrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != "" {
		return err
	}
	return newError(kind, op, err)
}

// Validation は入力不備のエラーを生成します。
func Validation(op string, err error) *Error { return newError(KindValidation, op, err) }

// Render は帳票生成失敗のエラーを生成します。
func Render(op string, err error) *Error { return newError(KindRender, op, err) }

// Persistence はアーカイブ読み書き失敗のエラーを生成します。
func Persistence(op string, err error) *Error { return newError(KindPersistence, op, err) }

// Delivery は表示・メール送信失敗のエラーを生成します。
func Delivery(op string, err error) *Error { return newError(KindDelivery, op, err) }

// NotFound は対象が存在しない場合のエラーを生成します。
func NotFound(op string, err error) *Error { return newError(KindNotFound, op, err) }

// FieldError は金額フィールドの解析失敗を表します。
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %q is not a number", e.Field, e.Value)
}
