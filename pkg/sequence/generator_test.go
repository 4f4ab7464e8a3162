package sequence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type licenseRow struct {
	ID            string `gorm:"column:id;primaryKey"`
	LicenseNumber string `gorm:"column:license_number;uniqueIndex"`
}

func (licenseRow) TableName() string { return "licenses" }

func newAllocatorDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&licenseRow{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestStoreAllocatorStartsAtOne(t *testing.T) {
	db := newAllocatorDB(t)
	alloc := NewStoreAllocator(db)

	number, err := alloc.NextLicenseNumber(context.Background(), 2024)
	require.NoError(t, err)
	require.Equal(t, "L2024000001", number)
}

func TestStoreAllocatorContinuesFromMax(t *testing.T) {
	db := newAllocatorDB(t)
	require.NoError(t, db.Create(&licenseRow{ID: "a", LicenseNumber: "L2024000041"}).Error)
	require.NoError(t, db.Create(&licenseRow{ID: "b", LicenseNumber: "L2024000007"}).Error)
	// Other years do not influence the sequence.
	require.NoError(t, db.Create(&licenseRow{ID: "c", LicenseNumber: "L2023000999"}).Error)

	alloc := NewStoreAllocator(db)

	number, err := alloc.NextLicenseNumber(context.Background(), 2024)
	require.NoError(t, err)
	require.Equal(t, "L2024000042", number)

	number, err = alloc.NextLicenseNumber(context.Background(), 2023)
	require.NoError(t, err)
	require.Equal(t, "L2023001000", number)
}

func TestStoreAllocatorExhausted(t *testing.T) {
	db := newAllocatorDB(t)
	require.NoError(t, db.Create(&licenseRow{ID: "a", LicenseNumber: "L2024999999"}).Error)

	alloc := NewStoreAllocator(db)

	_, err := alloc.NextLicenseNumber(context.Background(), 2024)
	require.ErrorIs(t, err, ErrExhausted)
}

func TestFormatZeroPads(t *testing.T) {
	require.Equal(t, "L2024000007", Format(2024, 7))
	require.Equal(t, "L2024999999", Format(2024, 999999))
	require.Equal(t, "L0099000001", Format(99, 1))
}

func TestParseSequence(t *testing.T) {
	seq, err := ParseSequence("L2024000123")
	require.NoError(t, err)
	require.Equal(t, 123, seq)

	_, err = ParseSequence("L2024")
	require.Error(t, err)

	_, err = ParseSequence("L2024xxxxxx")
	require.Error(t, err)
}

func TestContextCancellation(t *testing.T) {
	db := newAllocatorDB(t)
	alloc := NewStoreAllocator(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := alloc.NextLicenseNumber(ctx, 2024)
	require.Error(t, err)
}
