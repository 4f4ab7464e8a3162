package license

import (
	"time"

	"gorm.io/datatypes"
)

// Status is the stored lifecycle state of a license. Expired is derived at
// read time from the expiry date and is never written to the store.
type Status string

const (
	StatusActive    Status = "Active"
	StatusSuspended Status = "Suspended"
	StatusCancelled Status = "Cancelled"
	StatusExpired   Status = "Expired"
)

// Action labels a lifecycle transition in the history ledger.
type Action string

const (
	ActionCreated   Action = "Created"
	ActionRenewed   Action = "Renewed"
	ActionSuspended Action = "Suspended"
	ActionCancelled Action = "Cancelled"
)

// ExpiringSoonWindow is how far ahead the expiring-soon views look.
const ExpiringSoonWindow = 30 * 24 * time.Hour

type License struct {
	ID                string     `gorm:"column:id;primaryKey"`
	LicenseNumber     string     `gorm:"column:license_number;size:50;uniqueIndex;not null"`
	AthleteID         string     `gorm:"column:athlete_id;index;not null"`
	SportID           string     `gorm:"column:sport_id;index;not null"`
	LicenseTypeID     string     `gorm:"column:license_type_id;not null"`
	LicenseCategoryID string     `gorm:"column:license_category_id;not null"`
	IssueDate         time.Time  `gorm:"column:issue_date;not null"`
	ExpiryDate        time.Time  `gorm:"column:expiry_date;not null"`
	RenewalDate       *time.Time `gorm:"column:renewal_date"`
	Status            Status     `gorm:"column:status;size:20;not null"`
	Notes             string     `gorm:"column:notes;size:500"`
	IssuedByID        string     `gorm:"column:issued_by_id"`
	IsActive          bool       `gorm:"column:is_active;default:true"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (License) TableName() string { return "licenses" }

// IsExpired reports whether the validity window has passed. A cancelled
// license stays Cancelled forever and never counts as expired.
func (l *License) IsExpired(now time.Time) bool {
	return l.Status != StatusCancelled && now.After(l.ExpiryDate)
}

// IsExpiringSoon reports whether the license is still valid but its expiry
// falls within the lookahead window.
func (l *License) IsExpiringSoon(now time.Time) bool {
	if l.Status == StatusCancelled {
		return false
	}
	return now.Before(l.ExpiryDate) && !l.ExpiryDate.After(now.Add(ExpiringSoonWindow))
}

// EffectiveStatus applies the derived-Expired rule: an Active or Suspended
// license past its expiry date is reported Expired without any write.
func (l *License) EffectiveStatus(now time.Time) Status {
	if l.Status == StatusCancelled {
		return StatusCancelled
	}
	if now.After(l.ExpiryDate) {
		return StatusExpired
	}
	return l.Status
}

// DaysUntilExpiry is negative once the license has expired.
func (l *License) DaysUntilExpiry(now time.Time) int {
	return int(l.ExpiryDate.Sub(now).Hours() / 24)
}

// LicenseHistory is the append-only audit trail of lifecycle transitions.
// One entry is written per successful transition, in the same transaction as
// the license mutation; entries are never edited or removed.
type LicenseHistory struct {
	ID         string         `gorm:"column:id;primaryKey"`
	LicenseID  string         `gorm:"column:license_id;index;not null"`
	Action     Action         `gorm:"column:action;size:20;not null"`
	ActionDate time.Time      `gorm:"column:action_date;not null"`
	Notes      string         `gorm:"column:notes;size:500"`
	ActionByID string         `gorm:"column:action_by_id"`
	Metadata   datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (LicenseHistory) TableName() string { return "license_histories" }

// transitionMetadata records the stored-status edge a history entry captured.
type transitionMetadata struct {
	FromStatus Status `json:"from_status,omitempty"`
	ToStatus   Status `json:"to_status"`
}

// Statistics are counts over derived status, recomputed from the records
// rather than trusted from the stored status column.
type Statistics struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	Expired      int64 `json:"expired"`
	ExpiringSoon int64 `json:"expiring_soon"`
	Suspended    int64 `json:"suspended"`
	Cancelled    int64 `json:"cancelled"`
}
