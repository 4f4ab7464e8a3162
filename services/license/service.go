package license

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sporcu-lisans-takip/pkg/db/option"
	"sporcu-lisans-takip/pkg/errutil"
	"sporcu-lisans-takip/pkg/repository"
	"sporcu-lisans-takip/pkg/sequence"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// issueRetries bounds how often Issue retries after a license number
// collision. Collisions only happen when several instances allocate
// concurrently; the unique index rejects the loser, which re-allocates.
const issueRetries = 5

// Service is the license lifecycle engine. It exclusively owns writes to
// License and LicenseHistory: every mutation happens through a transition,
// and every transition writes its ledger entry in the same transaction.
type Service struct {
	db       *gorm.DB
	node     *snowflake.Node
	seq      sequence.Generator
	refs     ReferenceResolver
	licenses repository.Repository[License]
	history  repository.Repository[LicenseHistory]

	now func() time.Time
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
	Seq  sequence.Generator
	Refs ReferenceResolver
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		node:     p.Node,
		seq:      p.Seq,
		refs:     p.Refs,
		licenses: repository.ProvideStore[License](p.DB),
		history:  repository.ProvideStore[LicenseHistory](p.DB),
		now:      time.Now,
	}
}

func traceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanFromContext(ctx).SpanContext()
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

type IssueRequest struct {
	AthleteID         string
	SportID           string
	LicenseTypeID     string
	LicenseCategoryID string
	Notes             string
	ActorID           string
}

// Issue creates a new license: resolves every reference, allocates a unique
// number for the current year, computes expiry from the type's validity
// period and writes the license together with its "Created" ledger entry.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*License, error) {
	zapLog := zap.L().With(traceFields(ctx)...)

	if err := validateIssueRequest(req); err != nil {
		return nil, err
	}

	lt, err := s.resolveIssueReferences(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	year := now.Year()

	for attempt := 0; attempt < issueRetries; attempt++ {
		number, err := s.seq.NextLicenseNumber(ctx, year)
		if err != nil {
			zapLog.Error("failed to allocate license number", zap.Int("year", year), zap.Error(err))
			return nil, err
		}

		lic := &License{
			ID:                s.node.Generate().String(),
			LicenseNumber:     number,
			AthleteID:         req.AthleteID,
			SportID:           req.SportID,
			LicenseTypeID:     req.LicenseTypeID,
			LicenseCategoryID: req.LicenseCategoryID,
			IssueDate:         now,
			ExpiryDate:        ComputeExpiry(now, lt.ValidityPeriodDays),
			Status:            StatusActive,
			Notes:             req.Notes,
			IssuedByID:        req.ActorID,
			IsActive:          true,
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.licenses.WithTrx(tx).Create(ctx, lic); err != nil {
				return err
			}
			return s.appendHistory(ctx, tx, lic.ID, ActionCreated, "License issued", req.ActorID, "", StatusActive)
		})
		if err == nil {
			zapLog.Info("license issued",
				zap.String("license_id", lic.ID),
				zap.String("license_number", lic.LicenseNumber),
				zap.String("athlete_id", lic.AthleteID),
				zap.String("actor_id", req.ActorID),
			)
			return lic, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			zapLog.Warn("license number collision, retrying",
				zap.String("license_number", number), zap.Int("attempt", attempt+1))
			continue
		}
		zapLog.Error("failed to issue license", zap.Error(err))
		return nil, err
	}

	return nil, errutil.Conflict("could not allocate a unique license number")
}

// Renew re-activates an Active or derived-Expired license. The new expiry is
// computed from the renewal moment and the type's validity period; a
// Suspended license must be reinstated first and a Cancelled one is terminal.
func (s *Service) Renew(ctx context.Context, id, notes, actorID string) (*License, error) {
	zapLog := zap.L().With(traceFields(ctx)...)

	var out *License
	err := s.db.Transaction(func(tx *gorm.DB) error {
		lic, err := s.lockLicense(ctx, tx, id)
		if err != nil {
			return err
		}

		// The stored status matters here, not just the derived one: a
		// suspended license that lapses past its expiry derives to Expired,
		// but the suspension hold stays in force until explicitly lifted.
		if lic.Status == StatusSuspended {
			return fmt.Errorf("%w: cannot renew a suspended license", ErrInvalidTransition)
		}
		derived := lic.EffectiveStatus(s.now().UTC())
		if derived == StatusCancelled {
			return fmt.Errorf("%w: cannot renew a %s license", ErrInvalidTransition, derived)
		}

		lt, err := s.refs.LicenseTypeByID(ctx, lic.LicenseTypeID)
		if err != nil {
			return err
		}
		if lt == nil {
			return fmt.Errorf("%w: license type %s", ErrReferenceNotFound, lic.LicenseTypeID)
		}

		now := s.now().UTC()
		lic.RenewalDate = &now
		lic.ExpiryDate = ComputeExpiry(now, lt.ValidityPeriodDays)
		lic.Status = StatusActive

		if err := tx.WithContext(ctx).Model(&License{}).Where("id = ?", lic.ID).Updates(map[string]interface{}{
			"renewal_date": lic.RenewalDate,
			"expiry_date":  lic.ExpiryDate,
			"status":       lic.Status,
			"updated_at":   now,
		}).Error; err != nil {
			return err
		}

		if notes == "" {
			notes = "License renewed"
		}
		if err := s.appendHistory(ctx, tx, lic.ID, ActionRenewed, notes, actorID, derived, StatusActive); err != nil {
			return err
		}

		out = lic
		return nil
	})
	if err != nil {
		return nil, err
	}

	zapLog.Info("license renewed",
		zap.String("license_id", out.ID),
		zap.String("license_number", out.LicenseNumber),
		zap.Time("expiry_date", out.ExpiryDate),
		zap.String("actor_id", actorID),
	)
	return out, nil
}

// Suspend takes an Active license out of circulation with a mandatory reason.
func (s *Service) Suspend(ctx context.Context, id, reason, actorID string) (*License, error) {
	if reason == "" {
		return nil, errutil.ValidationFailed("suspension reason is required",
			errutil.WithDetails(errutil.Detail{Field: "reason", Message: "must not be empty"}))
	}
	return s.transition(ctx, id, reason, actorID, ActionSuspended, StatusSuspended, func(derived Status) error {
		if derived != StatusActive {
			return fmt.Errorf("%w: cannot suspend a %s license", ErrInvalidTransition, derived)
		}
		return nil
	})
}

// Cancel terminates a license permanently. Cancelled is terminal: nothing
// transitions out of it and the license never flips to derived Expired.
func (s *Service) Cancel(ctx context.Context, id, reason, actorID string) (*License, error) {
	if reason == "" {
		return nil, errutil.ValidationFailed("cancellation reason is required",
			errutil.WithDetails(errutil.Detail{Field: "reason", Message: "must not be empty"}))
	}
	return s.transition(ctx, id, reason, actorID, ActionCancelled, StatusCancelled, func(derived Status) error {
		if derived != StatusActive && derived != StatusSuspended {
			return fmt.Errorf("%w: cannot cancel a %s license", ErrInvalidTransition, derived)
		}
		return nil
	})
}

// transition is the shared Suspend/Cancel path: lock the row, check the
// derived-status precondition, write the new status and the ledger entry
// atomically.
func (s *Service) transition(ctx context.Context, id, reason, actorID string, action Action, to Status, precondition func(derived Status) error) (*License, error) {
	zapLog := zap.L().With(traceFields(ctx)...)

	var out *License
	err := s.db.Transaction(func(tx *gorm.DB) error {
		lic, err := s.lockLicense(ctx, tx, id)
		if err != nil {
			return err
		}

		derived := lic.EffectiveStatus(s.now().UTC())
		if err := precondition(derived); err != nil {
			return err
		}

		now := s.now().UTC()
		lic.Status = to
		lic.Notes = reason

		if err := tx.WithContext(ctx).Model(&License{}).Where("id = ?", lic.ID).Updates(map[string]interface{}{
			"status":     to,
			"notes":      reason,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}

		if err := s.appendHistory(ctx, tx, lic.ID, action, reason, actorID, derived, to); err != nil {
			return err
		}

		out = lic
		return nil
	})
	if err != nil {
		return nil, err
	}

	zapLog.Info("license status changed",
		zap.String("license_id", out.ID),
		zap.String("license_number", out.LicenseNumber),
		zap.String("action", string(action)),
		zap.String("actor_id", actorID),
	)
	return out, nil
}

// Get returns a license by id with the derived-Expired rule applied.
func (s *Service) Get(ctx context.Context, id string) (*License, error) {
	lic, err := s.licenses.FindOne(ctx, &License{ID: id, IsActive: true})
	if err != nil {
		return nil, err
	}
	if lic == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	lic.Status = lic.EffectiveStatus(s.now().UTC())
	return lic, nil
}

// UpdateNotes changes the free-text notes only. Status and dates are owned by
// the state machine and no ledger entry is written.
func (s *Service) UpdateNotes(ctx context.Context, id, notes, actorID string) (*License, error) {
	lic, err := s.licenses.FindOne(ctx, &License{ID: id, IsActive: true})
	if err != nil {
		return nil, err
	}
	if lic == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := s.licenses.Update(ctx, lic.ID, map[string]interface{}{
		"notes":      notes,
		"updated_at": s.now().UTC(),
	}); err != nil {
		return nil, err
	}

	zap.L().With(traceFields(ctx)...).Info("license notes updated",
		zap.String("license_id", lic.ID),
		zap.String("actor_id", actorID),
	)

	lic.Notes = notes
	lic.Status = lic.EffectiveStatus(s.now().UTC())
	return lic, nil
}

// Purge hard-deletes a license record. This is the administrative escape
// hatch outside the state machine: no transition check, no ledger entry, and
// the existing history rows stay behind as the record of what happened.
func (s *Service) Purge(ctx context.Context, id, actorID string) error {
	lic, err := s.licenses.FindOne(ctx, &License{ID: id})
	if err != nil {
		return err
	}
	if lic == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := s.licenses.Delete(ctx, &License{ID: id}); err != nil {
		return err
	}

	zap.L().With(traceFields(ctx)...).Warn("license purged",
		zap.String("license_id", id),
		zap.String("license_number", lic.LicenseNumber),
		zap.String("actor_id", actorID),
	)
	return nil
}

// History lists the ledger for a license, oldest entry first.
func (s *Service) History(ctx context.Context, licenseID string) ([]*LicenseHistory, error) {
	entries, err := s.history.Find(ctx, &LicenseHistory{LicenseID: licenseID},
		option.WithSortBy(option.QuerySortBy{Field: "action_date"}),
		option.WithSortBy(option.QuerySortBy{Field: "id"}),
	)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func validateIssueRequest(req IssueRequest) error {
	var details []errutil.Detail
	for field, value := range map[string]string{
		"athlete_id":          req.AthleteID,
		"sport_id":            req.SportID,
		"license_type_id":     req.LicenseTypeID,
		"license_category_id": req.LicenseCategoryID,
	} {
		if value == "" {
			details = append(details, errutil.Detail{Field: field, Message: "is required"})
		}
	}
	if len(details) > 0 {
		return errutil.ValidationFailed("missing required references", errutil.WithDetails(details...))
	}
	return nil
}

func (s *Service) resolveIssueReferences(ctx context.Context, req IssueRequest) (*LicenseTypeRef, error) {
	ok, err := s.refs.AthleteExists(ctx, req.AthleteID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: athlete %s", ErrReferenceNotFound, req.AthleteID)
	}

	ok, err = s.refs.SportExists(ctx, req.SportID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: sport %s", ErrReferenceNotFound, req.SportID)
	}

	lt, err := s.refs.LicenseTypeByID(ctx, req.LicenseTypeID)
	if err != nil {
		return nil, err
	}
	if lt == nil {
		return nil, fmt.Errorf("%w: license type %s", ErrReferenceNotFound, req.LicenseTypeID)
	}

	ok, err = s.refs.LicenseCategoryExists(ctx, req.LicenseCategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: license category %s", ErrReferenceNotFound, req.LicenseCategoryID)
	}

	return lt, nil
}

// lockLicense loads a live license row under FOR UPDATE for the duration of
// the surrounding transaction.
func (s *Service) lockLicense(ctx context.Context, tx *gorm.DB, id string) (*License, error) {
	var lic License
	err := option.LockingUpdate(tx.WithContext(ctx)).
		Where("id = ? AND is_active = ?", id, true).
		First(&lic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &lic, nil
}

// appendHistory writes one ledger entry inside the transition's transaction.
// Only the lifecycle engine calls this; the ledger has no other writer.
func (s *Service) appendHistory(ctx context.Context, tx *gorm.DB, licenseID string, action Action, notes, actorID string, from, to Status) error {
	meta, err := json.Marshal(transitionMetadata{FromStatus: from, ToStatus: to})
	if err != nil {
		return err
	}

	entry := &LicenseHistory{
		ID:         s.node.Generate().String(),
		LicenseID:  licenseID,
		Action:     action,
		ActionDate: s.now().UTC(),
		Notes:      notes,
		ActionByID: actorID,
		Metadata:   meta,
	}
	return s.history.WithTrx(tx).Create(ctx, entry)
}
