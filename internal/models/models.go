package models

import (
	"time"

	"gorm.io/gorm"
)

// Trade statuses. A trade is created pending, transitioned exactly once by an
// admin to approved or rejected, and never deleted or reopened.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Position directions.
const (
	PositionLong  = "long"
	PositionShort = "short"
)

// Trade is one closed position report. Numeric columns are stored as text,
// matching the upstream schema; Pnl and Roi are derived once at creation from
// entry/exit/size/leverage/direction and never recomputed afterward.
type Trade struct {
	gorm.Model
	ExperienceID string `gorm:"index;not null"`
	UserID       string `gorm:"index;not null"`
	Username     string

	Symbol       string `gorm:"not null"`
	PositionType string `gorm:"not null;default:long"`  // long | short
	AssetType    string `gorm:"not null;default:stock"` // stock | option | crypto | futures
	Leverage     string `gorm:"not null;default:1"`

	EntryPrice   string `gorm:"type:text;not null"`
	ExitPrice    string `gorm:"type:text;not null"`
	PositionSize string `gorm:"type:text;not null"`

	Pnl string `gorm:"type:text;not null"`
	Roi string `gorm:"type:text;not null"`

	Status     string `gorm:"index;not null;default:pending"`
	Screenshot string
}

// Competition periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Default settings applied when a row is created on first read.
const (
	DefaultMinCancellationCharacters = 20
	DefaultCompetitionPeriod         = PeriodWeekly
	DefaultCompetitionTitle          = "Weekly Competition"
	DefaultCompetitionPrize          = "Top trader gets bragging rights!"
)

// AppSettings holds per-experience configuration, mutated only by admins.
type AppSettings struct {
	gorm.Model
	ExperienceID string `gorm:"uniqueIndex;not null"`

	MinCancellationCharacters int `gorm:"not null;default:20"`

	CompetitionEnabled bool   `gorm:"not null;default:true"`
	CompetitionPeriod  string `gorm:"not null;default:weekly"` // daily | weekly | monthly
	CompetitionTitle   string
	CompetitionPrize   string
}

// CancellationFeedback records why a member cancelled, captured before the
// membership is cancelled with the host platform.
type CancellationFeedback struct {
	gorm.Model
	ExperienceID string `gorm:"index;not null"`
	MembershipID string `gorm:"not null"`
	UserID       string `gorm:"not null"`
	Username     string `gorm:"not null"`
	Feedback     string `gorm:"not null"`
	CancelledAt  time.Time
}
