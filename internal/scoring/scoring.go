// Package scoring holds the pure computation behind interview reporting.
// Everything here is side-effect free; the service layer calls ComputeDerived
// before every InterviewScore save and the aggregate helpers on read paths.
package scoring

import (
	"math"
	"sort"

	"github.com/teamtrackr/project-tracker/internal/constants"
	"github.com/teamtrackr/project-tracker/internal/models"
)

// Round2 rounds to two decimal places, the precision used for every derived
// average in API responses.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ComputeDerived returns the total and average over the metrics present in the
// set. Absent metrics are excluded, never counted as zero. An empty set yields
// (0, 0).
func ComputeDerived(metrics models.MetricSet) (total int, average float64) {
	if len(metrics) == 0 {
		return 0, 0
	}
	for _, v := range metrics {
		total += v
	}
	average = Round2(float64(total) / float64(len(metrics)))
	return total, average
}

// Summary aggregates a set of interview records for team, department and
// organization views.
type Summary struct {
	TotalStudents       int     `json:"total_students"`
	AverageTotalScore   float64 `json:"average_total_score"`
	AverageAverageScore float64 `json:"average_average_score"`
	HighestScore        int     `json:"highest_score"`
	LowestScore         int     `json:"lowest_score"`
}

// Summarize computes the summary over the given records. An empty input is a
// valid boundary case and yields all zeros rather than NaN or an error.
func Summarize(scores []models.InterviewScore) Summary {
	if len(scores) == 0 {
		return Summary{}
	}

	s := Summary{
		TotalStudents: len(scores),
		HighestScore:  scores[0].TotalScore,
		LowestScore:   scores[0].TotalScore,
	}

	var totalSum int
	var averageSum float64
	for _, sc := range scores {
		totalSum += sc.TotalScore
		averageSum += sc.AverageScore
		if sc.TotalScore > s.HighestScore {
			s.HighestScore = sc.TotalScore
		}
		if sc.TotalScore < s.LowestScore {
			s.LowestScore = sc.TotalScore
		}
	}

	s.AverageTotalScore = Round2(float64(totalSum) / float64(len(scores)))
	s.AverageAverageScore = Round2(averageSum / float64(len(scores)))
	return s
}

// MetricAverages averages each of the ten fixed metrics over the records where
// that metric is present. The result always has exactly one entry per metric
// name; a metric nobody scored yields 0.
func MetricAverages(scores []models.InterviewScore) map[string]float64 {
	sums := make(map[string]int, len(constants.MetricNames))
	counts := make(map[string]int, len(constants.MetricNames))
	for _, sc := range scores {
		for name, v := range sc.Metrics {
			sums[name] += v
			counts[name]++
		}
	}

	averages := make(map[string]float64, len(constants.MetricNames))
	for _, name := range constants.MetricNames {
		if counts[name] == 0 {
			averages[name] = 0
			continue
		}
		averages[name] = Round2(float64(sums[name]) / float64(counts[name]))
	}
	return averages
}

// TopPerformers returns up to n records ordered by descending total score.
// The sort is stable: ties keep their original relative order.
func TopPerformers(scores []models.InterviewScore, n int) []models.InterviewScore {
	sorted := make([]models.InterviewScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalScore > sorted[j].TotalScore
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// DepartmentGroup is one row of the org-wide department roll-up.
type DepartmentGroup struct {
	Department          string  `json:"department"`
	TotalStudents       int     `json:"total_students"`
	AverageTotalScore   float64 `json:"average_total_score"`
	AverageAverageScore float64 `json:"average_average_score"`
}

// DepartmentRollup groups records by the department name of each record's
// student, resolved through departmentOf; students without a department fall
// into the "Unknown" bucket. AverageAverageScore averages the already-rounded
// per-record averages, not the raw metrics.
func DepartmentRollup(scores []models.InterviewScore, departmentOf func(studentID uint) string) []DepartmentGroup {
	index := make(map[string]int)
	groups := make([]DepartmentGroup, 0)
	totalSums := make(map[string]int)
	averageSums := make(map[string]float64)

	for _, sc := range scores {
		dept := departmentOf(sc.StudentID)
		if dept == "" {
			dept = constants.UnknownDepartment
		}
		i, ok := index[dept]
		if !ok {
			i = len(groups)
			index[dept] = i
			groups = append(groups, DepartmentGroup{Department: dept})
		}
		groups[i].TotalStudents++
		totalSums[dept] += sc.TotalScore
		averageSums[dept] += sc.AverageScore
	}

	for i := range groups {
		dept := groups[i].Department
		n := float64(groups[i].TotalStudents)
		groups[i].AverageTotalScore = Round2(float64(totalSums[dept]) / n)
		groups[i].AverageAverageScore = Round2(averageSums[dept] / n)
	}
	return groups
}
