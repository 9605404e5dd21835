package document

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ogurasousui/payslip-service/internal/core/payroll"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	xlsxSheet = "Расчёт"
)

// XLSXRenderer は excelize で 1 シートの給与明細を生成します。
type XLSXRenderer struct {
	opts  Options
	clock payroll.Clock
}

// NewXLSXRenderer は XLSXRenderer を生成します。
func NewXLSXRenderer(opts Options, clock payroll.Clock) *XLSXRenderer {
	return &XLSXRenderer{opts: opts, clock: clock}
}

// Render は帳票を XLSX として生成します。
func (r *XLSXRenderer) Render(record *payroll.SalaryRecord) (*payroll.DocumentArtifact, error) {
	layout := BuildLayout(record, r.opts)

	f := excelize.NewFile()
	defer f.Close()

	if err := r.fill(f, layout, record); err != nil {
		return nil, payroll.Render("render xlsx", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, payroll.Render("render xlsx", err)
	}

	now := time.Now()
	if r.clock != nil {
		now = r.clock.Now()
	}
	return &payroll.DocumentArtifact{
		Name:        FileName(r.opts.Label, record.FIO, now, "xlsx"),
		ContentType: ContentTypeXLSX,
		Content:     buf.Bytes(),
	}, nil
}

func (r *XLSXRenderer) fill(f *excelize.File, layout Layout, record *payroll.SalaryRecord) error {
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	stamp := record.CalcDate.UTC().Format(time.RFC3339)
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:    layout.Title,
		Creator:  "payslip-service",
		Created:  stamp,
		Modified: stamp,
	}); err != nil {
		return err
	}

	if err := f.SetColWidth(xlsxSheet, "A", "A", 36); err != nil {
		return err
	}
	if err := f.SetColWidth(xlsxSheet, "B", "B", 28); err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	headerStyle, err := newFillStyle(f, "ADD8E6", true)
	if err != nil {
		return err
	}
	itemStyle, err := newFillStyle(f, "FFFFE0", false)
	if err != nil {
		return err
	}
	totalStyle, err := newFillStyle(f, "90EE90", true)
	if err != nil {
		return err
	}
	valueStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return err
	}

	row := 1
	set := func(col, value string, style int) error {
		cell := fmt.Sprintf("%s%d", col, row)
		if err := f.SetCellStr(xlsxSheet, cell, value); err != nil {
			return err
		}
		return f.SetCellStyle(xlsxSheet, cell, cell, style)
	}

	if err := set("A", layout.Title, titleStyle); err != nil {
		return err
	}
	if err := f.MergeCell(xlsxSheet, "A1", "B1"); err != nil {
		return err
	}
	row++
	if err := f.SetCellStr(xlsxSheet, fmt.Sprintf("A%d", row), layout.Period); err != nil {
		return err
	}
	row += 2

	for _, h := range layout.Header {
		if err := set("A", h.Label, headerStyle); err != nil {
			return err
		}
		if err := f.SetCellStr(xlsxSheet, fmt.Sprintf("B%d", row), h.Value); err != nil {
			return err
		}
		row++
	}
	row++

	for _, item := range layout.Items {
		if err := set("A", item.Label, itemStyle); err != nil {
			return err
		}
		if err := set("B", item.Value, valueStyle); err != nil {
			return err
		}
		row++
	}

	if err := set("A", layout.Total.Label, totalStyle); err != nil {
		return err
	}
	if err := set("B", layout.Total.Value, totalStyle); err != nil {
		return err
	}
	row += 2

	for _, line := range layout.Footer {
		if err := f.SetCellStr(xlsxSheet, fmt.Sprintf("A%d", row), line); err != nil {
			return err
		}
		row++
	}
	return nil
}

func newFillStyle(f *excelize.File, color string, bold bool) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: bold},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "999999", Style: 1}},
	})
}
