package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teamtrackr/project-tracker/internal/constants"
	"github.com/teamtrackr/project-tracker/internal/models"
)

func TestComputeDerived(t *testing.T) {
	tests := []struct {
		name        string
		metrics     models.MetricSet
		wantTotal   int
		wantAverage float64
	}{
		{
			name:        "empty set",
			metrics:     models.MetricSet{},
			wantTotal:   0,
			wantAverage: 0,
		},
		{
			name:        "nil set",
			metrics:     nil,
			wantTotal:   0,
			wantAverage: 0,
		},
		{
			name:        "single metric",
			metrics:     models.MetricSet{"selfIntro": 8},
			wantTotal:   8,
			wantAverage: 8,
		},
		{
			name:        "two metrics",
			metrics:     models.MetricSet{"selfIntro": 8, "communication": 6},
			wantTotal:   14,
			wantAverage: 7,
		},
		{
			name:        "rounded average",
			metrics:     models.MetricSet{"dsa": 7, "teamwork": 8, "confidence": 8},
			wantTotal:   23,
			wantAverage: 7.67,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, average := ComputeDerived(tt.metrics)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantAverage, average)
		})
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.TotalStudents)
	assert.Equal(t, float64(0), s.AverageTotalScore)
	assert.Equal(t, float64(0), s.AverageAverageScore)
	assert.Equal(t, 0, s.HighestScore)
	assert.Equal(t, 0, s.LowestScore)
}

func TestSummarize(t *testing.T) {
	scores := []models.InterviewScore{
		{TotalScore: 14, AverageScore: 7},
		{TotalScore: 20, AverageScore: 10},
		{TotalScore: 9, AverageScore: 4.5},
	}

	s := Summarize(scores)

	assert.Equal(t, 3, s.TotalStudents)
	assert.Equal(t, 14.33, s.AverageTotalScore)
	assert.Equal(t, 7.17, s.AverageAverageScore)
	assert.Equal(t, 20, s.HighestScore)
	assert.Equal(t, 9, s.LowestScore)
}

func TestMetricAverages_AlwaysTenEntries(t *testing.T) {
	averages := MetricAverages(nil)

	assert.Len(t, averages, len(constants.MetricNames))
	for _, name := range constants.MetricNames {
		assert.Equal(t, float64(0), averages[name])
	}
}

func TestMetricAverages_SkipsAbsentValues(t *testing.T) {
	scores := []models.InterviewScore{
		{Metrics: models.MetricSet{"selfIntro": 8, "dsa": 6}},
		{Metrics: models.MetricSet{"selfIntro": 4}},
		{Metrics: models.MetricSet{"communication": 9}},
	}

	averages := MetricAverages(scores)

	// selfIntro averages over the two records that carry it, not all three.
	assert.Equal(t, float64(6), averages["selfIntro"])
	assert.Equal(t, float64(6), averages["dsa"])
	assert.Equal(t, float64(9), averages["communication"])
	assert.Equal(t, float64(0), averages["teamwork"])
	assert.Len(t, averages, len(constants.MetricNames))
}

func TestTopPerformers(t *testing.T) {
	scores := []models.InterviewScore{
		{ID: 1, TotalScore: 10},
		{ID: 2, TotalScore: 30},
		{ID: 3, TotalScore: 20},
		{ID: 4, TotalScore: 30},
		{ID: 5, TotalScore: 5},
		{ID: 6, TotalScore: 25},
	}

	top := TopPerformers(scores, 5)

	assert.Len(t, top, 5)
	// Stable: ID 2 comes before ID 4 despite the equal total.
	assert.Equal(t, uint(2), top[0].ID)
	assert.Equal(t, uint(4), top[1].ID)
	assert.Equal(t, uint(6), top[2].ID)
	assert.Equal(t, uint(3), top[3].ID)
	assert.Equal(t, uint(1), top[4].ID)
}

func TestTopPerformers_FewerThanN(t *testing.T) {
	scores := []models.InterviewScore{
		{ID: 1, TotalScore: 10},
		{ID: 2, TotalScore: 12},
	}

	top := TopPerformers(scores, 5)

	assert.Len(t, top, 2)
	assert.Equal(t, uint(2), top[0].ID)
}

func TestDepartmentRollup(t *testing.T) {
	scores := []models.InterviewScore{
		{StudentID: 1, TotalScore: 14, AverageScore: 7},
		{StudentID: 2, TotalScore: 20, AverageScore: 10},
		{StudentID: 3, TotalScore: 9, AverageScore: 4.5},
	}
	departments := map[uint]string{
		1: "CSE",
		2: "CSE",
		// student 3 has no department
	}

	groups := DepartmentRollup(scores, func(studentID uint) string {
		return departments[studentID]
	})

	assert.Len(t, groups, 2)

	assert.Equal(t, "CSE", groups[0].Department)
	assert.Equal(t, 2, groups[0].TotalStudents)
	assert.Equal(t, float64(17), groups[0].AverageTotalScore)
	assert.Equal(t, 8.5, groups[0].AverageAverageScore)

	assert.Equal(t, "Unknown", groups[1].Department)
	assert.Equal(t, 1, groups[1].TotalStudents)
	assert.Equal(t, float64(9), groups[1].AverageTotalScore)
	assert.Equal(t, 4.5, groups[1].AverageAverageScore)
}
