package seedmodels

// SeedAssessment is an assessment with its per-category answers in the JSON seed file.
type SeedAssessment struct {
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Answers     map[string]map[string]int `json:"answers"`
}

// SeedAccount is a demo user and the assessments it owns.
type SeedAccount struct {
	Email       string           `json:"email"`
	Password    string           `json:"password"`
	FullName    string           `json:"full_name"`
	Assessments []SeedAssessment `json:"assessments"`
}
