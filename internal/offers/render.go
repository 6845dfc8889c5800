package offers

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/JaimeStill/claimflow/internal/payout"
	"github.com/JaimeStill/claimflow/pkg/formatting"
)

const (
	labelWidth = 50.8
	valueWidth = 76.2
	rowHeight  = 8
)

type rgb struct{ r, g, b int }

var (
	titleColor    = rgb{0x1f, 0x47, 0x88}
	labelFill     = rgb{0xd3, 0xd3, 0xd3}
	approvedFill  = rgb{0x90, 0xee, 0x90}
	deniedFill    = rgb{0xf0, 0x80, 0x80}
	footerMessage = "This is an automated offer letter generated by ClaimFlow. " +
		"If you have any questions, please contact our customer service."
)

type row struct {
	label string
	value string
}

// Render lays out l as a single-page Letter-size PDF. Output depends only on l.
func Render(l Letter) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle("Claim Offer Letter", true)
	pdf.SetSubject("Claim "+l.ClaimID.String(), true)
	pdf.SetAuthor("ClaimFlow", true)
	pdf.SetCreator("ClaimFlow", true)
	pdf.SetCreationDate(l.CreatedAt.UTC())
	pdf.SetModificationDate(l.CreatedAt.UTC())
	pdf.SetCatalogSort(true)
	pdf.SetMargins(25.4, 25.4, 25.4)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(titleColor.r, titleColor.g, titleColor.b)
	pdf.CellFormat(0, 14, "Claim Offer Letter", "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetTextColor(0, 0, 0)
	header := []row{
		{"Claim ID:", l.ClaimID.String()},
		{"Date:", l.CreatedAt.UTC().Format("2006-01-02 15:04")},
		{"Policy ID:", l.PolicyID},
	}
	for _, h := range header {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(25, 6, h.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, h.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	a := l.Assessment
	section(pdf, "Damage Analysis", []row{
		{"Damage Type:", formatting.Title(string(a.DamageType))},
		{"Severity:", formatting.Title(string(a.Severity))},
		{"Estimated Cost:", formatting.FormatUSD(a.EstimatedCost)},
		{"Confidence:", fmt.Sprintf("%.0f%%", a.Confidence*100)},
	}, -1, rgb{})

	coverage := "Not Covered"
	if l.Covered {
		coverage = "Covered"
	}
	section(pdf, "Policy Information", []row{
		{"Deductible:", formatting.FormatUSD(l.Deductible)},
		{"Coverage Limit:", formatting.FormatUSD(l.CoverageLimit)},
		{"Coverage Status:", coverage},
	}, -1, rgb{})

	p := l.Payout
	highlight := deniedFill
	if p.Status == payout.Approved {
		highlight = approvedFill
	}
	section(pdf, "Payout Calculation", []row{
		{"Estimated Cost:", formatting.FormatUSD(p.EstimatedCost)},
		{"Deductible:", formatting.FormatUSD(p.Deductible)},
		{"Payout Amount:", formatting.FormatUSD(p.PayoutAmount)},
		{"Status:", formatting.Title(string(p.Status))},
		{"Reason:", formatting.Title(string(p.Reason))},
	}, 2, highlight)

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 5, footerMessage, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render offer letter: %w", err)
	}
	return buf.Bytes(), nil
}

// section draws a heading and a two-column table. Row highlightRow, when
// non-negative, is filled with highlight and set in bold.
func section(pdf *fpdf.Fpdf, title string, rows []row, highlightRow int, highlight rgb) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")

	for i, r := range rows {
		labelColor := labelFill
		valueStyle := ""
		valueFilled := false
		if i == highlightRow {
			labelColor = highlight
			valueStyle = "B"
			valueFilled = true
		}

		pdf.SetFillColor(labelColor.r, labelColor.g, labelColor.b)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelWidth, rowHeight, r.label, "1", 0, "L", true, 0, "")

		pdf.SetFillColor(highlight.r, highlight.g, highlight.b)
		pdf.SetFont("Helvetica", valueStyle, 10)
		pdf.CellFormat(valueWidth, rowHeight, r.value, "1", 1, "L", valueFilled, 0, "")
	}
	pdf.Ln(6)
}
