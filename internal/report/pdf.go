package report

import (
	"bytes"
	"strconv"
	"strings"

	"ai-governance/internal/domain"

	"github.com/go-pdf/fpdf"
)

// Widths in millimetres on a Letter page.
const (
	infoLabelWidth  = 50.8
	infoValueWidth  = 101.6
	categoryWidth   = 63.5
	scoreWidth      = 25.4
	maturityWidth   = 38.1
	rowHeight       = 8.0
	paragraphHeight = 5.5
)

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// PDF renders the assessment info, a results table with the overall row and
// the recommendations of every category.
func PDF(a *domain.Assessment, results []domain.AssessmentResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(reportTitle, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(26, 26, 26)
	pdf.CellFormat(0, 14, reportTitle, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	info := [][2]string{
		{"Assessment Title:", a.Title},
		{"Created:", a.CreatedAt.Format(timestampLayout)},
		{"Status:", strings.ToUpper(string(a.Status))},
	}
	if a.Description != "" {
		info = append(info, [2]string{"Description:", a.Description})
	}
	for _, row := range info {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(infoLabelWidth, rowHeight, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(infoValueWidth, rowHeight, tr(row[1]), "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Assessment Results", "", 1, "L", false, 0, "")
	pdf.Ln(3)

	if len(results) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, paragraphHeight, "No assessment results available.", "", "L", false)
		return output(pdf)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	pdf.CellFormat(categoryWidth, rowHeight, "Category", "1", 0, "L", true, 0, "")
	pdf.CellFormat(scoreWidth, rowHeight, "Score", "1", 0, "C", true, 0, "")
	pdf.CellFormat(maturityWidth, rowHeight, "Maturity Level", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, r := range results {
		pdf.CellFormat(categoryWidth, rowHeight, r.Category.Title(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(scoreWidth, rowHeight, strconv.Itoa(r.Score), "1", 0, "C", false, 0, "")
		pdf.CellFormat(maturityWidth, rowHeight, capitalize(string(r.MaturityLevel)), "1", 1, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(211, 211, 211)
	pdf.CellFormat(categoryWidth, rowHeight, "OVERALL", "1", 0, "L", true, 0, "")
	pdf.CellFormat(scoreWidth, rowHeight, strconv.Itoa(overallScore(results)), "1", 0, "C", true, 0, "")
	pdf.CellFormat(maturityWidth, rowHeight, "", "1", 1, "C", true, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Recommendations by Category", "", 1, "L", false, 0, "")
	pdf.Ln(3)
	for _, r := range results {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, rowHeight, r.Category.Title(), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		text := r.Recommendations
		if text == "" {
			text = "No recommendations"
		}
		pdf.MultiCell(0, paragraphHeight, tr(text), "", "L", false)
		pdf.Ln(4)
	}

	return output(pdf)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
