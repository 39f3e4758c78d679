package domain

import "strings"

// Category identifies one of the fixed assessment areas.
type Category string

const (
	CategoryDataPrivacy Category = "data_privacy"
	CategoryModelRisk   Category = "model_risk"
	CategoryEthics      Category = "ethics"
	CategoryCompliance  Category = "compliance"
)

// AllCategories returns the categories in catalog order.
func AllCategories() []Category {
	return []Category{CategoryDataPrivacy, CategoryModelRisk, CategoryEthics, CategoryCompliance}
}

// CategoryCount is the number of distinct categories needed to complete an assessment.
const CategoryCount = 4

func (c Category) Valid() bool {
	switch c {
	case CategoryDataPrivacy, CategoryModelRisk, CategoryEthics, CategoryCompliance:
		return true
	default:
		return false
	}
}

// Title returns a human readable name, e.g. "Data Privacy".
func (c Category) Title() string {
	parts := strings.Split(string(c), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// ParseCategory converts a raw string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.Valid() {
		return "", NewInvalidCategoryError(s)
	}
	return c, nil
}

// MaturityLevel is a CMMI-style maturity band.
type MaturityLevel string

const (
	MaturityInitial    MaturityLevel = "initial"
	MaturityDeveloping MaturityLevel = "developing"
	MaturityDefined    MaturityLevel = "defined"
	MaturityManaged    MaturityLevel = "managed"
	MaturityOptimized  MaturityLevel = "optimized"
)

func (m MaturityLevel) Valid() bool {
	switch m {
	case MaturityInitial, MaturityDeveloping, MaturityDefined, MaturityManaged, MaturityOptimized:
		return true
	default:
		return false
	}
}

// Option is one selectable answer of a question.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Question is a weighted catalog question. The highest option value equals Weight.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Weight  int      `json:"weight"`
	Options []Option `json:"options"`
}

// Questionnaire is the fixed question set of one category.
type Questionnaire struct {
	Category    Category   `json:"category"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// TotalWeight sums the weights of all questions.
func (q Questionnaire) TotalWeight() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Weight
	}
	return total
}

// GetQuestionnaire returns a copy of the questionnaire for a category.
func GetQuestionnaire(c Category) (Questionnaire, bool) {
	q, ok := catalog[c]
	if !ok {
		return Questionnaire{}, false
	}
	return q.clone(), true
}

// Questionnaires returns every questionnaire in catalog order.
func Questionnaires() []Questionnaire {
	out := make([]Questionnaire, 0, len(catalog))
	for _, c := range AllCategories() {
		out = append(out, catalog[c].clone())
	}
	return out
}

func (q Questionnaire) clone() Questionnaire {
	questions := make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = append([]Option(nil), question.Options...)
		questions[i] = question
	}
	q.Questions = questions
	return q
}

func opts(none, partial, full int, labels ...string) []Option {
	return []Option{
		{Value: none, Label: labels[0]},
		{Value: partial, Label: labels[1]},
		{Value: full, Label: labels[2]},
	}
}

var catalog = map[Category]Questionnaire{
	CategoryDataPrivacy: {
		Category:    CategoryDataPrivacy,
		Title:       "Data Privacy Assessment",
		Description: "Evaluate data handling, privacy controls, and compliance with data protection regulations",
		Questions: []Question{
			{ID: "dp_1", Text: "Does your organization have a documented data inventory for AI systems?", Weight: 10,
				Options: opts(0, 5, 10, "No inventory exists", "Partial inventory, not regularly updated", "Complete inventory, regularly maintained")},
			{ID: "dp_2", Text: "Are data minimization principles applied to AI training data?", Weight: 10,
				Options: opts(0, 5, 10, "Not considered", "Considered but not enforced", "Actively enforced with regular audits")},
			{ID: "dp_3", Text: "Is personal data anonymized or pseudonymized before use in AI systems?", Weight: 15,
				Options: opts(0, 7, 15, "No anonymization", "Partial anonymization", "Full anonymization with validation")},
			{ID: "dp_4", Text: "Are data retention and deletion policies defined and enforced?", Weight: 10,
				Options: opts(0, 5, 10, "No policies", "Policies exist but not enforced", "Policies enforced with automated controls")},
			{ID: "dp_5", Text: "Is user consent obtained and managed for data used in AI?", Weight: 15,
				Options: opts(0, 7, 15, "No consent management", "Basic consent collection", "Comprehensive consent management with audit trail")},
		},
	},
	CategoryModelRisk: {
		Category:    CategoryModelRisk,
		Title:       "Model Risk Assessment",
		Description: "Evaluate model development, validation, monitoring, and risk management practices",
		Questions: []Question{
			{ID: "mr_1", Text: "Is there a formal model development lifecycle process?", Weight: 15,
				Options: opts(0, 7, 15, "No formal process", "Informal process, not documented", "Formal, documented, and enforced process")},
			{ID: "mr_2", Text: "Are models validated before deployment?", Weight: 15,
				Options: opts(0, 7, 15, "No validation", "Basic validation by developers", "Independent validation with documented results")},
			{ID: "mr_3", Text: "Is model performance monitored in production?", Weight: 15,
				Options: opts(0, 7, 15, "No monitoring", "Basic logging", "Comprehensive monitoring with alerting")},
			{ID: "mr_4", Text: "Are model limitations and assumptions documented?", Weight: 10,
				Options: opts(0, 5, 10, "Not documented", "Partially documented", "Fully documented and communicated")},
			{ID: "mr_5", Text: "Is there a process for model retraining and updates?", Weight: 10,
				Options: opts(0, 5, 10, "No process", "Ad-hoc retraining", "Scheduled retraining with validation")},
		},
	},
	CategoryEthics: {
		Category:    CategoryEthics,
		Title:       "AI Ethics Assessment",
		Description: "Evaluate fairness, transparency, accountability, and ethical considerations",
		Questions: []Question{
			{ID: "eth_1", Text: "Are AI systems tested for bias and fairness?", Weight: 15,
				Options: opts(0, 7, 15, "No testing", "Basic testing during development", "Comprehensive testing with ongoing monitoring")},
			{ID: "eth_2", Text: "Is there transparency about AI system decisions?", Weight: 15,
				Options: opts(0, 7, 15, "No transparency", "Limited explanations available", "Full explainability and documentation")},
			{ID: "eth_3", Text: "Are there human oversight mechanisms for AI decisions?", Weight: 15,
				Options: opts(0, 7, 15, "Fully automated, no oversight", "Human review for some decisions", "Human-in-the-loop for critical decisions")},
			{ID: "eth_4", Text: "Is there an AI ethics review board or committee?", Weight: 10,
				Options: opts(0, 5, 10, "No ethics review", "Informal review process", "Formal ethics board with regular reviews")},
			{ID: "eth_5", Text: "Are stakeholders consulted about AI system impacts?", Weight: 10,
				Options: opts(0, 5, 10, "No stakeholder engagement", "Limited consultation", "Regular stakeholder engagement and feedback")},
		},
	},
	CategoryCompliance: {
		Category:    CategoryCompliance,
		Title:       "Regulatory Compliance Assessment",
		Description: "Evaluate compliance with AI regulations, standards, and legal requirements",
		Questions: []Question{
			{ID: "comp_1", Text: "Are relevant AI regulations and standards identified?", Weight: 10,
				Options: opts(0, 5, 10, "Not identified", "Partially identified", "Comprehensive regulatory mapping")},
			{ID: "comp_2", Text: "Is there a compliance management program for AI?", Weight: 15,
				Options: opts(0, 7, 15, "No program", "Basic compliance tracking", "Comprehensive program with regular audits")},
			{ID: "comp_3", Text: "Are AI systems documented for regulatory requirements?", Weight: 15,
				Options: opts(0, 7, 15, "No documentation", "Basic documentation", "Complete documentation meeting all requirements")},
			{ID: "comp_4", Text: "Are there processes for responding to regulatory inquiries?", Weight: 10,
				Options: opts(0, 5, 10, "No process", "Ad-hoc responses", "Formal process with designated owners")},
			{ID: "comp_5", Text: "Is compliance training provided to AI teams?", Weight: 10,
				Options: opts(0, 5, 10, "No training", "One-time training", "Regular, updated training programs")},
		},
	},
}
