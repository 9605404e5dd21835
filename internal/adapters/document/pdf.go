package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ogurasousui/payslip-service/internal/core/payroll"
)

const (
	ContentTypePDF = "application/pdf"

	pdfFontFamily = "DejaVu"
	pdfMargin     = 30.0
	pdfRowHeight  = 20.0
)

// ErrFontUnavailable はフォントファイルを読み込めない場合のエラーです。
var ErrFontUnavailable = errors.New("document: font asset is unavailable")

type rgb struct{ r, g, b int }

var (
	colorLightBlue   = rgb{173, 216, 230}
	colorLightYellow = rgb{255, 255, 224}
	colorLightGreen  = rgb{144, 238, 144}
)

// PDFRenderer は fpdf で A4 縦の給与明細を生成します。
type PDFRenderer struct {
	opts        Options
	fontRegular string
	fontBold    string
	clock       payroll.Clock
}

// NewPDFRenderer は PDFRenderer を生成します。フォントは Render のたびに読み込みます。
func NewPDFRenderer(opts Options, fontRegular, fontBold string, clock payroll.Clock) *PDFRenderer {
	return &PDFRenderer{
		opts:        opts,
		fontRegular: fontRegular,
		fontBold:    fontBold,
		clock:       clock,
	}
}

// Render は帳票を PDF として生成します。
func (r *PDFRenderer) Render(record *payroll.SalaryRecord) (*payroll.DocumentArtifact, error) {
	regular, err := r.loadFont(r.fontRegular)
	if err != nil {
		return nil, err
	}
	bold, err := r.loadFont(r.fontBold)
	if err != nil {
		return nil, err
	}

	layout := BuildLayout(record, r.opts)

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", regular)
	if err := pdf.Error(); err != nil {
		return nil, payroll.Render("render pdf", fmt.Errorf("%w: %s: %v", ErrFontUnavailable, r.fontRegular, err))
	}
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "B", bold)
	if err := pdf.Error(); err != nil {
		return nil, payroll.Render("render pdf", fmt.Errorf("%w: %s: %v", ErrFontUnavailable, r.fontBold, err))
	}

	// メタデータの日時を計算日に固定し、同じレコードから同じ内容を得ます。
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(record.CalcDate)
	pdf.SetModificationDate(record.CalcDate)
	pdf.SetTitle(layout.Title, true)
	pdf.SetCreator("payslip-service", true)

	pdf.AddPage()

	pdf.SetFont(pdfFontFamily, "B", 16)
	pdf.CellFormat(0, 24, layout.Title, "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFontFamily, "", 11)
	pdf.CellFormat(0, 18, layout.Period, "", 1, "C", false, 0, "")
	pdf.Ln(10)

	for _, row := range layout.Header {
		fill(pdf, colorLightBlue)
		pdf.SetFont(pdfFontFamily, "B", 10)
		pdf.CellFormat(120, pdfRowHeight, row.Label, "1", 0, "L", true, 0, "")
		pdf.SetFont(pdfFontFamily, "", 10)
		pdf.CellFormat(300, pdfRowHeight, row.Value, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(14)

	pdf.SetFont(pdfFontFamily, "", 10)
	for _, row := range layout.Items {
		fill(pdf, colorLightYellow)
		pdf.CellFormat(300, pdfRowHeight, row.Label, "1", 0, "L", true, 0, "")
		pdf.CellFormat(120, pdfRowHeight, row.Value, "1", 1, "R", false, 0, "")
	}

	fill(pdf, colorLightGreen)
	pdf.SetFont(pdfFontFamily, "B", 11)
	pdf.CellFormat(300, pdfRowHeight, layout.Total.Label, "1", 0, "L", true, 0, "")
	pdf.CellFormat(120, pdfRowHeight, layout.Total.Value, "1", 1, "R", true, 0, "")

	pdf.Ln(24)
	pdf.SetFont(pdfFontFamily, "", 10)
	for _, line := range layout.Footer {
		pdf.CellFormat(0, 14, line, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, payroll.Render("render pdf", err)
	}

	return &payroll.DocumentArtifact{
		Name:        FileName(r.opts.Label, record.FIO, r.now(), "pdf"),
		ContentType: ContentTypePDF,
		Content:     buf.Bytes(),
	}, nil
}

func (r *PDFRenderer) loadFont(path string) ([]byte, error) {
	if path == "" {
		return nil, payroll.Render("render pdf", fmt.Errorf("%w: path is empty", ErrFontUnavailable))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, payroll.Render("render pdf", fmt.Errorf("%w: %s: %v", ErrFontUnavailable, path, err))
	}
	return b, nil
}

func (r *PDFRenderer) now() time.Time {
	if r.clock == nil {
		return time.Now()
	}
	return r.clock.Now()
}

func fill(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetFillColor(c.r, c.g, c.b)
}
