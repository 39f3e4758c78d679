// Package report renders assessments as downloadable CSV and PDF documents.
package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"ai-governance/internal/domain"
)

const (
	reportTitle     = "AI Governance Assessment Report"
	timestampLayout = "2006-01-02 15:04:05"
)

func overallScore(results []domain.AssessmentResult) int {
	scores := make([]int, 0, len(results))
	for _, r := range results {
		scores = append(scores, r.Score)
	}
	return domain.OverallScore(scores)
}

// CSV renders the assessment header, one row per result and the overall score.
func CSV(a *domain.Assessment, results []domain.AssessmentResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{reportTitle},
		{"Assessment Title", a.Title},
		{"Created", a.CreatedAt.Format(timestampLayout)},
		{"Status", string(a.Status)},
		{},
		{"Category", "Score", "Maturity Level", "Recommendations"},
	}
	for _, r := range results {
		rows = append(rows, []string{
			string(r.Category),
			strconv.Itoa(r.Score),
			string(r.MaturityLevel),
			r.Recommendations,
		})
	}
	if len(results) > 0 {
		rows = append(rows, []string{}, []string{"Overall Score", strconv.Itoa(overallScore(results))})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
