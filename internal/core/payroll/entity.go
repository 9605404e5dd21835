package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalcDateLayout は計算日の表示・入力フォーマット (日.月.年) です。
const CalcDateLayout = "02.01.2006"

// Amounts は給与計算に用いる 6 つの金額です。
type Amounts struct {
	BaseSalary      decimal.Decimal
	FixedBonus      decimal.Decimal
	FeoktistovBonus decimal.Decimal
	Overtime        decimal.Decimal
	DeductionDefect decimal.Decimal
	DeductionAbsent decimal.Decimal
}

// RawAmounts は呼び出し元から渡される未検証の金額文字列です。空欄は 0 として扱います。
type RawAmounts struct {
	BaseSalary      string
	FixedBonus      string
	FeoktistovBonus string
	Overtime        string
	DeductionDefect string
	DeductionAbsent string
}

// SalaryRecord は計算結果の履歴レコードです。保存後は変更されません。
//
// FIO / Position / Warehouse は計算時点の社員情報のスナップショットであり、
// EmployeeID は社員削除後も残る弱い参照です。
type SalaryRecord struct {
	ID          string
	EmployeeID  string
	FIO         string
	Position    string
	Warehouse   string
	Amounts     Amounts
	Total       decimal.Decimal
	CalcDate    time.Time
	DocumentRef string
	CreatedAt   time.Time
}

// CalcDateString は計算日を 日.月.年 形式で返します。
func (r *SalaryRecord) CalcDateString() string {
	return r.CalcDate.Format(CalcDateLayout)
}

// DocumentArtifact はレンダリング済みの帳票です。
type DocumentArtifact struct {
	Name        string
	ContentType string
	Content     []byte
}

// Message はメール送信シンクへ渡すメッセージです。
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment *DocumentArtifact
}
