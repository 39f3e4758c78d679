package domain

// DefaultRecommendation is returned when no table entry matches.
const DefaultRecommendation = "Continue improving governance practices."

// CalculateCategoryScore converts answers into a 0-100 score for a category.
// Missing question ids count as 0 and values are summed unclamped, so answers
// outside an option set can push the score past either end of the range.
func CalculateCategoryScore(answers map[string]int, category Category) int {
	q, ok := catalog[category]
	if !ok {
		return 0
	}
	total := q.TotalWeight()
	if total == 0 {
		return 0
	}
	sum := 0
	for _, question := range q.Questions {
		sum += answers[question.ID]
	}
	return sum * 100 / total
}

// MaturityLevelFor bands a score into a maturity level.
func MaturityLevelFor(score int) MaturityLevel {
	switch {
	case score < 20:
		return MaturityInitial
	case score < 40:
		return MaturityDeveloping
	case score < 60:
		return MaturityDefined
	case score < 80:
		return MaturityManaged
	default:
		return MaturityOptimized
	}
}

// OverallScore is the unweighted integer mean of the given category scores.
func OverallScore(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return sum / len(scores)
}

// Recommendation returns the canned advice for a category at a maturity level.
func Recommendation(category Category, level MaturityLevel) string {
	switch category {
	case CategoryDataPrivacy:
		switch level {
		case MaturityInitial:
			return "Establish basic data inventory and privacy policies. Implement data classification and access controls."
		case MaturityDeveloping:
			return "Enhance data anonymization techniques. Implement comprehensive consent management."
		case MaturityDefined:
			return "Automate privacy controls. Conduct regular privacy impact assessments."
		case MaturityManaged:
			return "Implement privacy-by-design principles. Enhance data minimization practices."
		case MaturityOptimized:
			return "Maintain excellence. Share best practices across organization."
		}
	case CategoryModelRisk:
		switch level {
		case MaturityInitial:
			return "Establish model development standards. Implement basic validation processes."
		case MaturityDeveloping:
			return "Create formal model governance framework. Implement model monitoring."
		case MaturityDefined:
			return "Enhance validation with independent review. Implement automated monitoring."
		case MaturityManaged:
			return "Implement advanced model risk management. Enhance retraining processes."
		case MaturityOptimized:
			return "Maintain excellence. Continuously improve model governance."
		}
	case CategoryEthics:
		switch level {
		case MaturityInitial:
			return "Establish AI ethics principles. Implement basic bias testing."
		case MaturityDeveloping:
			return "Create ethics review process. Enhance transparency mechanisms."
		case MaturityDefined:
			return "Establish ethics board. Implement comprehensive fairness testing."
		case MaturityManaged:
			return "Enhance stakeholder engagement. Implement advanced explainability."
		case MaturityOptimized:
			return "Maintain excellence. Lead industry in ethical AI practices."
		}
	case CategoryCompliance:
		switch level {
		case MaturityInitial:
			return "Identify applicable regulations. Establish basic compliance tracking."
		case MaturityDeveloping:
			return "Create compliance management program. Enhance documentation."
		case MaturityDefined:
			return "Implement automated compliance monitoring. Conduct regular audits."
		case MaturityManaged:
			return "Enhance regulatory engagement. Implement proactive compliance."
		case MaturityOptimized:
			return "Maintain excellence. Lead industry in AI compliance."
		}
	}
	return DefaultRecommendation
}

// Evaluation is the scored outcome of one category submission.
type Evaluation struct {
	Score           int
	MaturityLevel   MaturityLevel
	Recommendations string
}

// Evaluate scores, bands and recommends in one step.
func Evaluate(category Category, answers map[string]int) Evaluation {
	score := CalculateCategoryScore(answers, category)
	level := MaturityLevelFor(score)
	return Evaluation{
		Score:           score,
		MaturityLevel:   level,
		Recommendations: Recommendation(category, level),
	}
}
