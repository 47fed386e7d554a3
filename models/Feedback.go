package models

import "gorm.io/gorm"

// Feedback statuses. Transitions between them are unrestricted and
// admin-only; new feedback always starts Open.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In-progress"
	StatusCompleted  = "Completed"
	StatusRejected   = "Rejected"
)

var FeedbackStatuses = []string{StatusOpen, StatusInProgress, StatusCompleted, StatusRejected}

// IsValidFeedbackStatus reports whether s is one of the four known statuses.
func IsValidFeedbackStatus(s string) bool {
	for _, known := range FeedbackStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Feedback is a user-submitted feedback item on the board
type Feedback struct {
	gorm.Model
	UserID     uint     `json:"userID" gorm:"index;not null"`
	User       User     `json:"user" gorm:"foreignKey:UserID;references:ID"`
	Title      string   `json:"title" gorm:"size:200;not null"`
	Message    string   `json:"message" gorm:"type:text;not null"`
	CategoryID uint     `json:"categoryID" gorm:"index;not null"`
	Category   Category `json:"category" gorm:"foreignKey:CategoryID;references:ID"`
	Rating     int      `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Status     string   `json:"status" gorm:"type:varchar(20);default:Open;index"`
	Upvotes    []User   `json:"upvotes" gorm:"many2many:feedback_upvoters;"`
}
