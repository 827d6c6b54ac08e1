package shift

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Job statuses. REMOVED is terminal.
const (
	StatusPending   = "PENDING"
	StatusClaimed   = "CLAIMED"
	StatusUnclaimed = "UNCLAIMED"
	StatusRemoved   = "REMOVED"
)

// Shift types.
const (
	TypeMorning = "MORNING"
	TypeMidday  = "MIDDAY"
	TypeNight   = "NIGHT"
	TypeCustom  = "CUSTOM"
)

type Job struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	UserID uint64 `gorm:"index;not null" json:"userId"`

	BusinessName   string `gorm:"type:text;not null" json:"businessName"`
	JobDescription string `gorm:"type:text;not null;default:''" json:"jobDescription"`
	Category       string `gorm:"type:text;not null" json:"category"`

	Status    string     `gorm:"index;not null;default:'PENDING'" json:"status"`
	ClaimedBy *string    `gorm:"type:text" json:"claimedBy"`
	ClaimedAt *time.Time `gorm:"type:timestamptz" json:"claimedAt"`

	// Token is the opaque id embedded in SMS claim/unclaim links.
	Token string `gorm:"uniqueIndex;not null" json:"token"`

	Shift *Shift `gorm:"foreignKey:JobID" json:"shift"`

	CreatedAt time.Time `gorm:"index;not null;default:now()" json:"createdAt"`
}

// Shift holds the window as local wall-clock strings: Date "2006-01-02",
// StartTime/EndTime "15:04". An EndTime earlier than StartTime means the
// shift rolls over past midnight.
type Shift struct {
	ID    uint64 `gorm:"primaryKey" json:"id"`
	JobID uint64 `gorm:"uniqueIndex;not null" json:"jobId"`

	Type      string `gorm:"type:text;not null;default:'CUSTOM'" json:"type"`
	Date      string `gorm:"type:text;not null" json:"date"`
	StartTime string `gorm:"type:text;not null" json:"startTime"`
	EndTime   string `gorm:"type:text;not null" json:"endTime"`
}

type PhoneNumber struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	UserID uint64 `gorm:"index;not null" json:"userId"`

	Name   string `gorm:"type:text;not null" json:"name"`
	Number string `gorm:"type:text;not null" json:"number"`

	// Categories are lower-cased and trimmed at creation.
	Categories pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"categories"`

	OptedOut bool `gorm:"not null;default:false" json:"optedOut"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

// UserPreference holds named shift-time templates and custom categories.
// At most one row per user.
type UserPreference struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	UserID uint64 `gorm:"uniqueIndex;not null" json:"userId"`

	ShiftTimes       json.RawMessage `gorm:"type:jsonb;not null;default:'{}'::jsonb" json:"shiftTimes"`
	CustomCategories pq.StringArray  `gorm:"type:text[];not null;default:'{}'" json:"customCategories"`
}

type Reminder struct {
	ID    uint64 `gorm:"primaryKey" json:"id"`
	JobID uint64 `gorm:"index;not null" json:"jobId"`

	PhoneNumber string    `gorm:"type:text;not null" json:"phoneNumber"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	SendAt      time.Time `gorm:"index;not null" json:"sendAt"`
	Sent        bool      `gorm:"not null;default:false" json:"sent"`
}
