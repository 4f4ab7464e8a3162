package sequence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"sporcu-lisans-takip/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("sequence",
	fx.Provide(NewGenerator),
)

// ErrExhausted signals that the 6-digit sequence space for a year is used up.
// Wrapping around would reuse an already-assigned license number.
var ErrExhausted = errors.New("license number sequence exhausted")

const (
	numberPrefix = "L"
	sequenceLen  = 6
	maxSequence  = 999999

	licensesTable = "licenses"
	numberColumn  = "license_number"
)

// Generator allocates the next human-readable license number for a year,
// formatted L<year><6-digit sequence>, e.g. L2024000007.
type Generator interface {
	NextLicenseNumber(ctx context.Context, year int) (string, error)
}

// YearPrefix returns the fixed-width prefix shared by all numbers of a year.
func YearPrefix(year int) string {
	return fmt.Sprintf("%s%04d", numberPrefix, year)
}

// Format renders a license number from its year and sequence parts.
func Format(year, seq int) string {
	return fmt.Sprintf("%s%0*d", YearPrefix(year), sequenceLen, seq)
}

// ParseSequence extracts the numeric sequence from a formatted license number.
func ParseSequence(number string) (int, error) {
	prefixLen := len(numberPrefix) + 4
	if len(number) != prefixLen+sequenceLen {
		return 0, fmt.Errorf("malformed license number %q", number)
	}
	return strconv.Atoi(number[prefixLen:])
}

type Params struct {
	fx.In

	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client `optional:"true"`
}

// NewGenerator picks the allocator backend from configuration. The store
// allocator is the default; the redis allocator serves deployments where
// several instances issue licenses against the same registry.
func NewGenerator(p Params) Generator {
	if p.Config.Sequence.Backend == "redis" && p.Redis != nil {
		return NewRedisAllocator(p.Redis, p.DB)
	}
	return NewStoreAllocator(p.DB)
}

// StoreAllocator derives the next sequence from the highest number already
// persisted. The mutex serialises in-process issuance; across processes the
// unique index on license_number plus the caller's retry-on-conflict keeps
// numbers collision-free.
type StoreAllocator struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewStoreAllocator(db *gorm.DB) *StoreAllocator {
	return &StoreAllocator{db: db}
}

func (a *StoreAllocator) NextLicenseNumber(ctx context.Context, year int) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	max, err := maxStoredSequence(ctx, a.db, year)
	if err != nil {
		return "", err
	}

	seq := max + 1
	if seq > maxSequence {
		return "", fmt.Errorf("%w: year %d", ErrExhausted, year)
	}

	return Format(year, seq), nil
}

// maxStoredSequence scans for the highest assigned sequence under the year
// prefix. Numbers are fixed width, so lexicographic order is numeric order.
func maxStoredSequence(ctx context.Context, db *gorm.DB, year int) (int, error) {
	var numbers []string
	err := db.WithContext(ctx).
		Table(licensesTable).
		Where(numberColumn+" LIKE ?", YearPrefix(year)+"%").
		Order(numberColumn + " DESC").
		Limit(1).
		Pluck(numberColumn, &numbers).Error
	if err != nil {
		return 0, err
	}

	if len(numbers) == 0 {
		return 0, nil
	}

	return ParseSequence(numbers[0])
}
