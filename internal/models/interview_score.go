package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MetricSet maps metric names to their 1-10 scores. A missing key means the
// metric was never scored; it is never treated as zero.
type MetricSet map[string]int

func (m MetricSet) Value() (driver.Value, error) {
	if m == nil {
		m = MetricSet{}
	}
	return json.Marshal(m)
}

func (m *MetricSet) Scan(value interface{}) error {
	if value == nil {
		*m = MetricSet{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for MetricSet", value)
	}
	return json.Unmarshal(data, m)
}

// InterviewScore holds one student's interview record. There is at most one row
// per (student, organization); repeated submissions merge into it. TotalScore
// and AverageScore are derived and recomputed before every save.
type InterviewScore struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	StudentID    uint      `gorm:"not null;index" json:"student_id"`
	TeamID       *uint     `gorm:"index" json:"team_id"`
	Organization string    `gorm:"type:varchar(255);not null;index" json:"organization"`
	Metrics      MetricSet `gorm:"type:text" json:"metrics"`
	TotalScore   int       `gorm:"not null;default:0" json:"total_score"`
	AverageScore float64   `gorm:"not null;default:0" json:"average_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Team    *Team    `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}
