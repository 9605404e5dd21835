package document

import (
	"github.com/ogurasousui/payslip-service/internal/core/payroll"
)

// Row は帳票の 1 行 (ラベルと値) です。
type Row struct {
	Label string
	Value string
}

// Layout は PDF と XLSX で共有する帳票の内容です。
// 同じレコードからは常に同じ Layout が得られます。
type Layout struct {
	Title  string
	Period string
	Header []Row
	Items  []Row
	Total  Row
	Footer []string
}

// Options は帳票の見出しと体裁に関する設定です。
type Options struct {
	// Label はファイル名の先頭に付く語です。
	Label  string
	Title  string
	Footer []string
}

// DefaultFooter は footer_lines 未設定時の署名行です。
var DefaultFooter = []string{
	"С уважением, бухгалтерский отдел",
	"ООО «Компания»",
}

// BuildLayout は SalaryRecord から帳票の内容を組み立てます。
func BuildLayout(record *payroll.SalaryRecord, opts Options) Layout {
	footer := opts.Footer
	if len(footer) == 0 {
		footer = DefaultFooter
	}
	a := record.Amounts

	return Layout{
		Title:  opts.Title,
		Period: payroll.FormatPeriod(record.CalcDate),
		Header: []Row{
			{Label: "ФИО", Value: record.FIO},
			{Label: "Должность", Value: record.Position},
			{Label: "Склад", Value: record.Warehouse},
			{Label: "ID сотрудника", Value: record.EmployeeID},
			{Label: "Дата расчёта", Value: record.CalcDateString()},
		},
		Items: []Row{
			{Label: "Окладная ставка", Value: payroll.FormatAmount(a.BaseSalary)},
			{Label: "Фиксированная премия", Value: payroll.FormatAmount(a.FixedBonus)},
			{Label: "Премия от Феоктистова", Value: payroll.FormatAmount(a.FeoktistovBonus)},
			{Label: "Сверхурочные", Value: payroll.FormatAmount(a.Overtime)},
			{Label: "Вычет за недостачу и пересорт", Value: payroll.FormatDeduction(a.DeductionDefect)},
			{Label: "Вычет за дни Б/С", Value: payroll.FormatDeduction(a.DeductionAbsent)},
		},
		Total:  Row{Label: "ИТОГО", Value: payroll.FormatAmount(record.Total)},
		Footer: append([]string(nil), footer...),
	}
}
