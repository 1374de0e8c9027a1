package models

import "time"

type Department struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	Organization string    `gorm:"type:varchar(255);not null;index" json:"organization"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Students []Student `gorm:"foreignKey:DepartmentID" json:"students,omitempty"`
}
