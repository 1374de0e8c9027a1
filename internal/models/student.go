package models

import "time"

type Student struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	DepartmentID *uint  `gorm:"index" json:"department_id"`
	Role         string `gorm:"type:varchar(100)" json:"role"`
	ResumeURL    string `gorm:"type:varchar(512)" json:"resume_url"`
	TeamID       *uint  `gorm:"index" json:"team_id"`
	Organization string `gorm:"type:varchar(255);not null;index:idx_students_org_regno" json:"organization"`
	// RegisteredNumber is stored lowercased and trimmed; uniqueness within an
	// organization is enforced at the service layer so that empty values may
	// repeat freely.
	RegisteredNumber string    `gorm:"type:varchar(100);index:idx_students_org_regno" json:"registered_number"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Team       *Team       `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}
