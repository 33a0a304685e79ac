package models

import "time"

// DefaultCredits is the balance a user starts with and is reset to on refresh.
const DefaultCredits = 2

// CreditWindow is the rolling window after which credits are replenished.
const CreditWindow = 24 * time.Hour

// User represents an authenticated caller identified by an external subject id.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SubjectID        string    `gorm:"size:255;uniqueIndex;not null" json:"subject_id"`
	Credits          int       `gorm:"not null;default:0" json:"credits"`
	CreatedAt        time.Time `json:"created_at"`
	LastCreditUpdate time.Time `json:"last_credit_update"`
}

// HasCredits reports whether the user can afford another evaluation.
func (u User) HasCredits() bool {
	return u.Credits > 0
}

// RefreshDue reports whether the rolling credit window has elapsed.
func (u User) RefreshDue(now time.Time) bool {
	return now.Sub(u.LastCreditUpdate) > CreditWindow
}
