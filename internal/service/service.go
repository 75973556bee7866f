// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stridefantasy/roster-engine/internal/metrics"
	"github.com/stridefantasy/roster-engine/internal/model"
	"github.com/stridefantasy/roster-engine/internal/repository"
	"github.com/stridefantasy/roster-engine/internal/roster"
	"github.com/stridefantasy/roster-engine/internal/session"
)

// AthleteStore is the athlete pool the service reads from.
type AthleteStore interface {
	List(ctx context.Context) ([]roster.Athlete, error)
	GetByID(ctx context.Context, id int) (*roster.Athlete, error)
}

// SessionStore persists draft sessions as serialized blobs.
type SessionStore interface {
	Create(ctx context.Context, rec *repository.SessionRecord) error
	Get(ctx context.Context, id string) (*repository.SessionRecord, error)
	Save(ctx context.Context, rec *repository.SessionRecord) error
}

// RosterService orchestrates draft sessions: it runs the engine, persists
// every transition as a single unit, and applies the race-start lock deadline.
type RosterService struct {
	athletes AthleteStore
	sessions SessionStore
	game     roster.Config
	lockTime time.Time // zero = rosters never auto-lock

	now func() time.Time
}

// NewRosterService constructs a RosterService with its dependencies.
func NewRosterService(athletes AthleteStore, sessions SessionStore, game roster.Config, lockTime time.Time) *RosterService {
	return &RosterService{
		athletes: athletes,
		sessions: sessions,
		game:     game.Normalized(),
		lockTime: lockTime,
		now:      time.Now,
	}
}

// ListAthletes returns the confirmed athlete pool.
func (s *RosterService) ListAthletes(ctx context.Context) ([]roster.Athlete, error) {
	return s.athletes.List(ctx)
}

// CreateSession starts a fresh draft session with all slots empty. A session
// created after the lock deadline starts out locked.
func (s *RosterService) CreateSession(ctx context.Context) (*model.SessionView, error) {
	sess := session.New(s.game)
	if s.deadlinePassed() {
		sess.Lock()
		metrics.SessionsLockedTotal.WithLabelValues("deadline").Inc()
	}

	payload, err := sess.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize session: %w", err)
	}
	rec := &repository.SessionRecord{
		ID:      uuid.New().String(),
		Payload: payload,
		Locked:  sess.IsPermanentlyLocked,
	}
	if err := s.sessions.Create(ctx, rec); err != nil {
		return nil, err
	}
	return model.NewSessionView(rec.ID, rec.Version, sess), nil
}

// GetSession loads a session, applying the lock deadline if it has passed.
func (s *RosterService) GetSession(ctx context.Context, id string) (*model.SessionView, error) {
	sess, rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.NewSessionView(rec.ID, rec.Version, sess), nil
}

// SetSlot assigns an athlete to a slot after a pre-flight check. A rejection
// is returned as data (the Preflight), not an error; the session is only
// persisted when the change applies. Mutating a locked session is a silent
// no-op returning the unchanged view.
func (s *RosterService) SetSlot(ctx context.Context, id, slotName string, athleteID int) (*model.SessionView, *roster.Preflight, error) {
	sess, rec, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if sess.IsPermanentlyLocked {
		return model.NewSessionView(rec.ID, rec.Version, sess), nil, nil
	}

	athlete, err := s.athletes.GetByID(ctx, athleteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("athlete %d: %w", athleteID, repository.ErrNotFound)
		}
		return nil, nil, err
	}

	slot := roster.Slot(slotName)
	pf := roster.CanAddToSlot(sess.Slots, slot, athlete, sess.Config.TotalBudget)
	if !pf.CanAdd {
		return model.NewSessionView(rec.ID, rec.Version, sess), &pf, nil
	}

	sess.AddAthlete(slot, athlete)
	if err := s.persist(ctx, rec, sess); err != nil {
		return nil, nil, err
	}
	return model.NewSessionView(rec.ID, rec.Version, sess), nil, nil
}

// ClearSlot empties one slot. Locked sessions no-op.
func (s *RosterService) ClearSlot(ctx context.Context, id, slotName string) (*model.SessionView, error) {
	sess, rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.IsPermanentlyLocked {
		return model.NewSessionView(rec.ID, rec.Version, sess), nil
	}

	slot := roster.Slot(slotName)
	if !slot.Valid() {
		return nil, fmt.Errorf("slot %s: %w", slotName, repository.ErrNotFound)
	}
	sess.RemoveAthlete(slot)
	if err := s.persist(ctx, rec, sess); err != nil {
		return nil, err
	}
	return model.NewSessionView(rec.ID, rec.Version, sess), nil
}

// ClearRoster empties every slot. Locked sessions no-op.
func (s *RosterService) ClearRoster(ctx context.Context, id string) (*model.SessionView, error) {
	sess, rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.IsPermanentlyLocked {
		return model.NewSessionView(rec.ID, rec.Version, sess), nil
	}
	sess.Clear()
	if err := s.persist(ctx, rec, sess); err != nil {
		return nil, err
	}
	return model.NewSessionView(rec.ID, rec.Version, sess), nil
}

// Submit runs the full validation and, if the roster is submittable, brackets
// the persisted write between SUBMITTING and SUBMITTED. A non-submittable
// roster comes back as a rejection Result, never an error.
func (s *RosterService) Submit(ctx context.Context, id string) (*model.SessionView, *roster.Result, error) {
	sess, rec, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	res := sess.Validate()
	metrics.ObserveValidation(res.IsValid)
	if !sess.CanSubmit() {
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		return model.NewSessionView(rec.ID, rec.Version, sess), &res, nil
	}

	sess.SetSubmitting()
	if err := s.persist(ctx, rec, sess); err != nil {
		return nil, nil, err
	}
	// The write above is the external persistence call the bracket protects;
	// only after it succeeds is the submission confirmed.
	sess.SetSubmitted()
	if err := s.persist(ctx, rec, sess); err != nil {
		return nil, nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
	return model.NewSessionView(rec.ID, rec.Version, sess), nil, nil
}

// Lock permanently freezes a session (manual trigger, e.g. an admin closing
// entries early). Idempotent.
func (s *RosterService) Lock(ctx context.Context, id string) (*model.SessionView, error) {
	sess, rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.IsPermanentlyLocked {
		sess.Lock()
		if err := s.persist(ctx, rec, sess); err != nil {
			return nil, err
		}
		metrics.SessionsLockedTotal.WithLabelValues("manual").Inc()
	}
	return model.NewSessionView(rec.ID, rec.Version, sess), nil
}

// Validation returns the live validation result for a session's roster.
func (s *RosterService) Validation(ctx context.Context, id string) (*roster.Result, error) {
	sess, _, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	res := sess.Validate()
	metrics.ObserveValidation(res.IsValid)
	return &res, nil
}

// Preflight answers whether an athlete could be placed into a slot, without
// committing anything. Used by pickers to disable invalid selections.
func (s *RosterService) Preflight(ctx context.Context, id, slotName string, athleteID int) (*roster.Preflight, error) {
	sess, _, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	athlete, err := s.athletes.GetByID(ctx, athleteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("athlete %d: %w", athleteID, repository.ErrNotFound)
		}
		return nil, err
	}
	pf := roster.CanAddToSlot(sess.Slots, roster.Slot(slotName), athlete, sess.Config.TotalBudget)
	return &pf, nil
}

// load fetches and deserializes a session, locking it first when the race
// deadline has passed since the last read.
func (s *RosterService) load(ctx context.Context, id string) (*session.Session, *repository.SessionRecord, error) {
	rec, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	sess, err := session.Deserialize(rec.Payload)
	if err != nil {
		return nil, nil, fmt.Errorf("session %s: %w", id, err)
	}

	if s.deadlinePassed() && !sess.IsPermanentlyLocked {
		sess.Lock()
		if err := s.persist(ctx, rec, sess); err != nil {
			return nil, nil, err
		}
		metrics.SessionsLockedTotal.WithLabelValues("deadline").Inc()
	}
	return sess, rec, nil
}

func (s *RosterService) persist(ctx context.Context, rec *repository.SessionRecord, sess *session.Session) error {
	payload, err := sess.Serialize()
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}
	rec.Payload = payload
	rec.Locked = sess.IsPermanentlyLocked
	return s.sessions.Save(ctx, rec)
}

func (s *RosterService) deadlinePassed() bool {
	return !s.lockTime.IsZero() && !s.now().Before(s.lockTime)
}
