package httpapi

import (
	"time"

	"sporcu-lisans-takip/services/license"
)

type issueLicenseRequest struct {
	AthleteID         string `json:"athlete_id" binding:"required"`
	SportID           string `json:"sport_id" binding:"required"`
	LicenseTypeID     string `json:"license_type_id" binding:"required"`
	LicenseCategoryID string `json:"license_category_id" binding:"required"`
	Notes             string `json:"notes"`
}

type renewLicenseRequest struct {
	Notes string `json:"notes"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

type licenseResponse struct {
	ID                string         `json:"id"`
	LicenseNumber     string         `json:"license_number"`
	AthleteID         string         `json:"athlete_id"`
	SportID           string         `json:"sport_id"`
	LicenseTypeID     string         `json:"license_type_id"`
	LicenseCategoryID string         `json:"license_category_id"`
	IssueDate         time.Time      `json:"issue_date"`
	ExpiryDate        time.Time      `json:"expiry_date"`
	RenewalDate       *time.Time     `json:"renewal_date,omitempty"`
	Status            license.Status `json:"status"`
	Notes             string         `json:"notes,omitempty"`
	IssuedByID        string         `json:"issued_by_id,omitempty"`
	ExpiringSoon      bool           `json:"expiring_soon"`
	DaysUntilExpiry   int            `json:"days_until_expiry"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type historyResponse struct {
	ID         string         `json:"id"`
	LicenseID  string         `json:"license_id"`
	Action     license.Action `json:"action"`
	ActionDate time.Time      `json:"action_date"`
	Notes      string         `json:"notes,omitempty"`
	ActionByID string         `json:"action_by_id,omitempty"`
}

func toLicenseResponse(l *license.License, now time.Time) licenseResponse {
	return licenseResponse{
		ID:                l.ID,
		LicenseNumber:     l.LicenseNumber,
		AthleteID:         l.AthleteID,
		SportID:           l.SportID,
		LicenseTypeID:     l.LicenseTypeID,
		LicenseCategoryID: l.LicenseCategoryID,
		IssueDate:         l.IssueDate,
		ExpiryDate:        l.ExpiryDate,
		RenewalDate:       l.RenewalDate,
		Status:            l.EffectiveStatus(now),
		Notes:             l.Notes,
		IssuedByID:        l.IssuedByID,
		ExpiringSoon:      l.IsExpiringSoon(now),
		DaysUntilExpiry:   l.DaysUntilExpiry(now),
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

func toLicenseResponses(list []*license.License, now time.Time) []licenseResponse {
	out := make([]licenseResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toLicenseResponse(l, now))
	}
	return out
}

func toHistoryResponses(entries []*license.LicenseHistory) []historyResponse {
	out := make([]historyResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyResponse{
			ID:         e.ID,
			LicenseID:  e.LicenseID,
			Action:     e.Action,
			ActionDate: e.ActionDate,
			Notes:      e.Notes,
			ActionByID: e.ActionByID,
		})
	}
	return out
}
