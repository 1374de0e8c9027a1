package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Checkpoint is one stage of a team's delivery pipeline.
type Checkpoint struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// CheckpointList is stored as a JSON column so the stage sequence stays
// ordered and can vary per team.
type CheckpointList []Checkpoint

func (l CheckpointList) Value() (driver.Value, error) {
	if l == nil {
		l = CheckpointList{}
	}
	return json.Marshal(l)
}

func (l *CheckpointList) Scan(value interface{}) error {
	if value == nil {
		*l = CheckpointList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for CheckpointList", value)
	}
	return json.Unmarshal(data, l)
}

// AllCompleted reports whether every checkpoint is done. An empty list is
// vacuously complete; callers rely on this fold when recomputing Team.Completed.
func (l CheckpointList) AllCompleted() bool {
	for _, cp := range l {
		if !cp.Completed {
			return false
		}
	}
	return true
}

// TickedCount returns the number of completed checkpoints.
func (l CheckpointList) TickedCount() int {
	n := 0
	for _, cp := range l {
		if cp.Completed {
			n++
		}
	}
	return n
}

type Team struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	TeamNumber         int            `gorm:"not null;index:idx_teams_org_number" json:"team_number"`
	ProjectTitle       string         `gorm:"type:varchar(255)" json:"project_title"`
	ProjectDescription string         `gorm:"type:text" json:"project_description"`
	Domain             string         `gorm:"type:varchar(100)" json:"domain"`
	Completed          bool           `gorm:"not null;default:false" json:"completed"`
	GithubURL          string         `gorm:"type:varchar(512)" json:"github_url"`
	HostedURL          string         `gorm:"type:varchar(512)" json:"hosted_url"`
	Checkpoints        CheckpointList `gorm:"type:text" json:"checkpoints"`
	Organization       string         `gorm:"type:varchar(255);not null;index:idx_teams_org_number" json:"organization"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`

	// Relations
	Students []Student `gorm:"foreignKey:TeamID" json:"students,omitempty"`
}
