package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AnswerMap stores submitted answers verbatim as a JSON object.
type AnswerMap map[string]int

// Value implements the driver.Valuer interface
func (m AnswerMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]int(m))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (m *AnswerMap) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = AnswerMap{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("AnswerMap Scan: unsupported type %T", value)
	}
	if len(raw) == 0 || string(raw) == "null" {
		*m = AnswerMap{}
		return nil
	}
	out := make(map[string]int)
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("AnswerMap Scan: %w", err)
	}
	*m = out
	return nil
}

// Assessment is a row of the ASSESSMENTS table.
type Assessment struct {
	ID            string         `db:"ID"`
	UserID        string         `db:"USER_ID"`
	Title         string         `db:"TITLE"`
	Description   sql.NullString `db:"DESCRIPTION"`
	SchemaVersion string         `db:"SCHEMA_VERSION"`
	Status        string         `db:"STATUS"`
	CreatedAt     time.Time      `db:"CREATED_AT"`
	UpdatedAt     time.Time      `db:"UPDATED_AT"`
	CompletedAt   sql.NullTime   `db:"COMPLETED_AT"`
}

// AssessmentResult is a row of the ASSESSMENT_RESULTS table.
// (ASSESSMENT_ID, CATEGORY) is unique.
type AssessmentResult struct {
	ID              string         `db:"ID"`
	AssessmentID    string         `db:"ASSESSMENT_ID"`
	Category        string         `db:"CATEGORY"`
	Answers         AnswerMap      `db:"ANSWERS"`
	Score           int            `db:"SCORE"`
	MaturityLevel   string         `db:"MATURITY_LEVEL"`
	Recommendations sql.NullString `db:"RECOMMENDATIONS"`
	CreatedAt       time.Time      `db:"CREATED_AT"`
}
