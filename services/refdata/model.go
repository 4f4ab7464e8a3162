package refdata

import "time"

// Reference entities are read-only to the license core: it only ever asks
// whether they exist and, for license types, how long a license stays valid.

type Athlete struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey"`
	FirstName string    `json:"first_name" gorm:"column:first_name;size:100;not null"`
	LastName  string    `json:"last_name" gorm:"column:last_name;size:100;not null"`
	BirthDate time.Time `json:"birth_date" gorm:"column:birth_date"`
	ClubID    string    `json:"club_id,omitempty" gorm:"column:club_id;index"`
	IsActive  bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Athlete) TableName() string { return "athletes" }

type Sport struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey"`
	Name      string    `json:"name" gorm:"column:name;size:100;uniqueIndex;not null"`
	IsActive  bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Sport) TableName() string { return "sports" }

type Club struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey"`
	Name      string    `json:"name" gorm:"column:name;size:150;not null"`
	City      string    `json:"city,omitempty" gorm:"column:city;size:100"`
	IsActive  bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Club) TableName() string { return "clubs" }

// LicenseType carries the validity period the lifecycle engine uses to
// compute expiry dates at issue and renewal.
type LicenseType struct {
	ID                 string    `json:"id" gorm:"column:id;primaryKey"`
	Name               string    `json:"name" gorm:"column:name;size:100;uniqueIndex;not null"`
	ValidityPeriodDays int       `json:"validity_period_days" gorm:"column:validity_period_days;not null"`
	IsActive           bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt          time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (LicenseType) TableName() string { return "license_types" }

type LicenseCategory struct {
	ID          string    `json:"id" gorm:"column:id;primaryKey"`
	Name        string    `json:"name" gorm:"column:name;size:100;uniqueIndex;not null"`
	Description string    `json:"description,omitempty" gorm:"column:description;size:300"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (LicenseCategory) TableName() string { return "license_categories" }
