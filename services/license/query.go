package license

import (
	"context"
	"fmt"
	"time"

	"sporcu-lisans-takip/pkg/db/option"
	"sporcu-lisans-takip/pkg/db/pagination"
	"sporcu-lisans-takip/pkg/repository"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Query is the read-only reporting facade. It never mutates anything: the
// derived-Expired rule is applied to every record before it leaves, so the
// reads are safe to serve from a replica.
type Query struct {
	db       *gorm.DB
	licenses repository.Repository[License]

	now func() time.Time
}

type QueryParams struct {
	fx.In
	DB *gorm.DB
}

func NewQuery(p QueryParams) *Query {
	return &Query{
		db:       p.DB,
		licenses: repository.ProvideStore[License](p.DB),
		now:      time.Now,
	}
}

func (q *Query) derive(list []*License) []*License {
	now := q.now().UTC()
	for _, l := range list {
		l.Status = l.EffectiveStatus(now)
	}
	return list
}

// List pages through all live licenses, newest first.
func (q *Query) List(ctx context.Context, p pagination.Pagination) ([]*License, *pagination.PageInfo, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 25
	}

	db := q.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if p.Cursor != "" {
		cursor, err := pagination.DecodeCursor(p.Cursor)
		if err != nil {
			return nil, nil, err
		}
		db = db.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var out []*License
	if err := db.Find(&out).Error; err != nil {
		return nil, nil, err
	}

	out, info := pagination.BuildCursorPageInfo(out, limit, func(l *License) pagination.Cursor {
		return pagination.Cursor{CreatedAt: l.CreatedAt, ID: l.ID}
	})
	return q.derive(out), info, nil
}

// ByAthlete lists all live licenses held by one athlete, newest first.
func (q *Query) ByAthlete(ctx context.Context, athleteID string) ([]*License, error) {
	out, err := q.licenses.Find(ctx, &License{AthleteID: athleteID, IsActive: true},
		option.WithSortBy(option.QuerySortBy{Field: "created_at", OrderBy: "DESC"}))
	if err != nil {
		return nil, err
	}
	return q.derive(out), nil
}

// BySport lists all live licenses issued for one sport, newest first.
func (q *Query) BySport(ctx context.Context, sportID string) ([]*License, error) {
	out, err := q.licenses.Find(ctx, &License{SportID: sportID, IsActive: true},
		option.WithSortBy(option.QuerySortBy{Field: "created_at", OrderBy: "DESC"}))
	if err != nil {
		return nil, err
	}
	return q.derive(out), nil
}

// GetByNumber looks a license up by its public number.
func (q *Query) GetByNumber(ctx context.Context, number string) (*License, error) {
	lic, err := q.licenses.FindOne(ctx, &License{LicenseNumber: number, IsActive: true})
	if err != nil {
		return nil, err
	}
	if lic == nil {
		return nil, fmt.Errorf("%w: number %s", ErrNotFound, number)
	}
	lic.Status = lic.EffectiveStatus(q.now().UTC())
	return lic, nil
}

// Expired lists licenses whose validity window has passed, soonest-expired
// first. Cancelled licenses never show up here: they do not expire.
func (q *Query) Expired(ctx context.Context) ([]*License, error) {
	now := q.now().UTC()

	var out []*License
	err := q.db.WithContext(ctx).
		Where("is_active = ? AND status <> ? AND expiry_date < ?", true, StatusCancelled, now).
		Order("expiry_date ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return q.derive(out), nil
}

// ExpiringSoon lists still-valid licenses whose expiry falls within the
// lookahead window, nearest expiry first.
func (q *Query) ExpiringSoon(ctx context.Context) ([]*License, error) {
	now := q.now().UTC()

	var out []*License
	err := q.db.WithContext(ctx).
		Where("is_active = ? AND status <> ? AND expiry_date > ? AND expiry_date <= ?",
			true, StatusCancelled, now, now.Add(ExpiringSoonWindow)).
		Order("expiry_date ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return q.derive(out), nil
}

// Statistics recomputes every count from derived status instead of trusting
// the stored status column, so a record that silently crossed its expiry
// date is counted as expired.
func (q *Query) Statistics(ctx context.Context) (*Statistics, error) {
	var all []*License
	if err := q.db.WithContext(ctx).Where("is_active = ?", true).Find(&all).Error; err != nil {
		return nil, err
	}

	now := q.now().UTC()
	stats := &Statistics{Total: int64(len(all))}
	for _, l := range all {
		switch l.EffectiveStatus(now) {
		case StatusActive:
			stats.Active++
		case StatusSuspended:
			stats.Suspended++
		case StatusCancelled:
			stats.Cancelled++
		case StatusExpired:
			stats.Expired++
		}
		if l.IsExpiringSoon(now) {
			stats.ExpiringSoon++
		}
	}
	return stats, nil
}
