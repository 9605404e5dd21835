package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	FieldBaseSalary      = "base_salary"
	FieldFixedBonus      = "fixed_bonus"
	FieldFeoktistovBonus = "feoktistov_bonus"
	FieldOvertime        = "overtime"
	FieldDeductionDefect = "deduction_defect"
	FieldDeductionAbsent = "deduction_absent"
)

// Compute は base + fixed + feoktistov + overtime - defect - absent を返します。
// 負の結果もそのまま返し、丸めは行いません。
func Compute(a Amounts) decimal.Decimal {
	return a.BaseSalary.
		Add(a.FixedBonus).
		Add(a.FeoktistovBonus).
		Add(a.Overtime).
		Sub(a.DeductionDefect).
		Sub(a.DeductionAbsent)
}

// ParseAmounts は 6 つの金額文字列を検証して Amounts に変換します。
// 数値でない項目があれば最初の *FieldError を返します。
func ParseAmounts(raw RawAmounts) (Amounts, error) {
	var out Amounts
	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{FieldBaseSalary, raw.BaseSalary, &out.BaseSalary},
		{FieldFixedBonus, raw.FixedBonus, &out.FixedBonus},
		{FieldFeoktistovBonus, raw.FeoktistovBonus, &out.FeoktistovBonus},
		{FieldOvertime, raw.Overtime, &out.Overtime},
		{FieldDeductionDefect, raw.DeductionDefect, &out.DeductionDefect},
		{FieldDeductionAbsent, raw.DeductionAbsent, &out.DeductionAbsent},
	}

	for _, f := range fields {
		value, err := ParseAmount(f.name, f.raw)
		if err != nil {
			return Amounts{}, err
		}
		*f.dst = value
	}
	return out, nil
}

// ParseAmount は単一の金額文字列を解析します。空欄は 0 です。
func ParseAmount(field, raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, &FieldError{Field: field, Value: raw}
	}
	return value, nil
}
