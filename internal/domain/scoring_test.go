package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maxAnswers(t *testing.T, c Category) map[string]int {
	t.Helper()
	q, ok := GetQuestionnaire(c)
	require.True(t, ok)
	answers := make(map[string]int, len(q.Questions))
	for _, question := range q.Questions {
		answers[question.ID] = question.Weight
	}
	return answers
}

func TestCalculateCategoryScore_EmptyAnswers(t *testing.T) {
	for _, c := range AllCategories() {
		t.Run(string(c), func(t *testing.T) {
			score := CalculateCategoryScore(map[string]int{}, c)
			assert.Equal(t, 0, score)
			assert.Equal(t, MaturityInitial, MaturityLevelFor(score))

			assert.Equal(t, 0, CalculateCategoryScore(nil, c))
		})
	}
}

func TestCalculateCategoryScore_MaxAnswers(t *testing.T) {
	for _, c := range AllCategories() {
		t.Run(string(c), func(t *testing.T) {
			assert.Equal(t, 100, CalculateCategoryScore(maxAnswers(t, c), c))
		})
	}
}

func TestCalculateCategoryScore(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		answers  map[string]int
		want     int
	}{
		{
			name:     "partial answers truncate",
			category: CategoryDataPrivacy,
			answers:  map[string]int{"dp_1": 5, "dp_2": 5, "dp_3": 7, "dp_4": 5, "dp_5": 7},
			want:     48, // 29*100/60 = 48.33
		},
		{
			name:     "model risk partial",
			category: CategoryModelRisk,
			answers:  map[string]int{"mr_1": 7, "mr_2": 7, "mr_3": 7, "mr_4": 5, "mr_5": 5},
			want:     47, // 31*100/65 = 47.69
		},
		{
			name:     "missing ids count as zero",
			category: CategoryDataPrivacy,
			answers:  map[string]int{"dp_1": 10},
			want:     16,
		},
		{
			name:     "unknown ids ignored",
			category: CategoryEthics,
			answers:  map[string]int{"dp_1": 10, "nope": 500},
			want:     0,
		},
		{
			name:     "out of range values are not clamped",
			category: CategoryDataPrivacy,
			answers:  map[string]int{"dp_1": 120},
			want:     200,
		},
		{
			name:     "negative values truncate toward zero",
			category: CategoryCompliance,
			answers:  map[string]int{"comp_1": -31},
			want:     -51, // -3100/60 = -51.67
		},
		{
			name:     "unknown category",
			category: Category("finance"),
			answers:  map[string]int{"dp_1": 10},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateCategoryScore(tt.answers, tt.category))
		})
	}
}

func TestMaturityLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  MaturityLevel
	}{
		{-50, MaturityInitial},
		{0, MaturityInitial},
		{19, MaturityInitial},
		{20, MaturityDeveloping},
		{39, MaturityDeveloping},
		{40, MaturityDefined},
		{59, MaturityDefined},
		{60, MaturityManaged},
		{79, MaturityManaged},
		{80, MaturityOptimized},
		{100, MaturityOptimized},
		{250, MaturityOptimized},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaturityLevelFor(tt.score), "score %d", tt.score)
	}
}

func TestRecommendation_TotalOverCatalog(t *testing.T) {
	levels := []MaturityLevel{MaturityInitial, MaturityDeveloping, MaturityDefined, MaturityManaged, MaturityOptimized}
	seen := make(map[string]bool)
	for _, c := range AllCategories() {
		for _, l := range levels {
			text := Recommendation(c, l)
			assert.NotEqual(t, DefaultRecommendation, text, "%s/%s", c, l)
			assert.False(t, seen[text], "duplicate recommendation for %s/%s", c, l)
			seen[text] = true
		}
	}
}

func TestRecommendation_Fallback(t *testing.T) {
	assert.Equal(t, DefaultRecommendation, Recommendation(Category("finance"), MaturityInitial))
	assert.Equal(t, DefaultRecommendation, Recommendation(CategoryEthics, MaturityLevel("legendary")))
	assert.Equal(t,
		"Establish AI ethics principles. Implement basic bias testing.",
		Recommendation(CategoryEthics, MaturityInitial))
}

func TestOverallScore(t *testing.T) {
	assert.Equal(t, 0, OverallScore(nil))
	assert.Equal(t, 60, OverallScore([]int{80, 40}))
	assert.Equal(t, 33, OverallScore([]int{33, 34}))
	assert.Equal(t, 100, OverallScore([]int{100, 100, 100, 100}))
}

func TestEvaluate(t *testing.T) {
	eval := Evaluate(CategoryDataPrivacy, maxAnswers(t, CategoryDataPrivacy))
	assert.Equal(t, 100, eval.Score)
	assert.Equal(t, MaturityOptimized, eval.MaturityLevel)
	assert.Equal(t, "Maintain excellence. Share best practices across organization.", eval.Recommendations)
}
