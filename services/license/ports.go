package license

import "context"

// LicenseTypeRef is the slice of a license type this service needs: the
// validity period drives expiry computation at issue and renewal.
type LicenseTypeRef struct {
	ID                 string
	Name               string
	ValidityPeriodDays int
}

// ReferenceResolver answers whether the records a license points at exist
// and are not soft-deleted. Absence is a typed nil/false, never an error;
// errors mean the lookup itself failed.
type ReferenceResolver interface {
	AthleteExists(ctx context.Context, id string) (bool, error)
	SportExists(ctx context.Context, id string) (bool, error)
	LicenseCategoryExists(ctx context.Context, id string) (bool, error)
	LicenseTypeByID(ctx context.Context, id string) (*LicenseTypeRef, error)
}
