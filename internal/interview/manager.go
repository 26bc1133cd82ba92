package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hireloop/interview-engine/internal/evaluation"
	"github.com/hireloop/interview-engine/internal/models"
	"github.com/hireloop/interview-engine/internal/prompt"
	"github.com/hireloop/interview-engine/internal/realtime"
	"github.com/hireloop/interview-engine/internal/rounds"
	"github.com/hireloop/interview-engine/internal/storage"
)

// ErrRealtimeUnavailable marks a failure to open the realtime session.
// The session transitions to failed with the reason recorded; the caller
// may retry against a fresh session.
var ErrRealtimeUnavailable = errors.New("realtime collaborator unavailable")

// Manager orchestrates interview session lifecycles: prompt composition,
// realtime session opening, transcript ingestion, expiry, and evaluation.
type Manager struct {
	registry *rounds.Registry
	store    *Store
	opener   realtime.Opener
	scorer   evaluation.Scorer
	repo     storage.Repository
	grace    time.Duration

	now func() time.Time
}

// CreateResult bundles the freshly activated session with the realtime
// connection details the frontend needs.
type CreateResult struct {
	Session     models.Session
	Realtime    *realtime.OpenResponse
	Interviewer models.Interviewer
}

// NewManager creates a session lifecycle manager. repo may be nil when no
// durable backend is configured.
func NewManager(registry *rounds.Registry, store *Store, opener realtime.Opener, scorer evaluation.Scorer, repo storage.Repository, grace time.Duration) *Manager {
	if grace <= 0 {
		grace = 5 * time.Minute
	}
	return &Manager{
		registry: registry,
		store:    store,
		opener:   opener,
		scorer:   scorer,
		repo:     repo,
		grace:    grace,
		now:      time.Now,
	}
}

// CreateSession composes instructions for the context, registers a pending
// session, opens the realtime collaborator session, and activates. The
// realtime call happens outside any session lock; on failure the session
// is moved to failed with the reason recorded and remains inspectable.
func (m *Manager) CreateSession(ctx context.Context, ictx models.InterviewContext) (*CreateResult, error) {
	tmpl, err := m.registry.Get(ictx.RoundKind)
	if err != nil {
		return nil, err
	}

	instructions, err := prompt.Compose(tmpl, ictx)
	if err != nil {
		return nil, err
	}

	persona := PersonaByID(ictx.InterviewerID)

	sess := NewSession(ictx, instructions, m.now(), m.grace)
	if err := m.store.Put(sess); err != nil {
		return nil, err
	}
	m.persist(ctx, sess)

	slog.Info("interview session created",
		"id", sess.ID(),
		"round", ictx.RoundKind,
		"role", ictx.Role,
		"duration_minutes", ictx.DurationMinutes,
	)

	opened, err := m.opener.Open(ctx, realtime.OpenRequest{
		Instructions: instructions.Text,
		Voice:        persona.VoiceID,
		Modalities:   []string{"text", "audio"},
	})
	if err != nil {
		reason := fmt.Sprintf("realtime open failed: %v", err)
		if failErr := sess.Fail(reason, m.now()); failErr != nil {
			slog.Error("failed to mark session failed", "id", sess.ID(), "error", failErr)
		}
		m.persist(ctx, sess)
		return nil, fmt.Errorf("%w: %v", ErrRealtimeUnavailable, err)
	}

	if err := sess.Activate(opened.SessionID, m.now()); err != nil {
		return nil, err
	}
	m.persist(ctx, sess)

	slog.Info("interview session activated", "id", sess.ID(), "external_id", opened.SessionID)

	return &CreateResult{
		Session:     sess.Snapshot(),
		Realtime:    opened,
		Interviewer: persona,
	}, nil
}

// GetSession returns the current snapshot of a session. A session evicted
// from the in-memory store falls back to its durable snapshot, read-only:
// finished interviews stay inspectable after the retention sweep.
func (m *Manager) GetSession(ctx context.Context, id string) (models.Session, error) {
	sess, err := m.store.Get(id)
	if err == nil {
		return sess.Snapshot(), nil
	}
	if !errors.Is(err, ErrSessionNotFound) || m.repo == nil {
		return models.Session{}, err
	}

	snap, loadErr := m.repo.LoadSnapshot(ctx, id)
	if loadErr != nil {
		slog.Warn("failed to load session snapshot", "id", id, "error", loadErr)
		return models.Session{}, err
	}
	if snap == nil {
		return models.Session{}, err
	}
	return *snap, nil
}

// RecordTurn appends a transcript turn to an active session.
func (m *Manager) RecordTurn(ctx context.Context, id string, speaker models.Speaker, text string) error {
	sess, err := m.store.Get(id)
	if err != nil {
		return err
	}
	if err := sess.RecordTurn(speaker, text, m.now()); err != nil {
		return err
	}
	m.persist(ctx, sess)
	return nil
}

// EndSession completes an active session and closes the realtime session.
// The close call is best-effort and happens after the local transition.
func (m *Manager) EndSession(ctx context.Context, id string) error {
	sess, err := m.store.Get(id)
	if err != nil {
		return err
	}
	if err := sess.Complete(m.now()); err != nil {
		return err
	}
	m.persist(ctx, sess)

	snap := sess.Snapshot()
	if snap.ExternalID != "" {
		if err := m.opener.Close(ctx, snap.ExternalID); err != nil {
			slog.Warn("failed to close realtime session", "id", id, "external_id", snap.ExternalID, "error", err)
		}
	}

	slog.Info("interview session completed", "id", id, "turns", len(snap.Transcript))
	return nil
}

// FailSession moves a session to failed with the given reason.
func (m *Manager) FailSession(ctx context.Context, id, reason string) error {
	sess, err := m.store.Get(id)
	if err != nil {
		return err
	}
	if err := sess.Fail(reason, m.now()); err != nil {
		return err
	}
	m.persist(ctx, sess)
	return nil
}

// EvaluateSession packages the finished transcript, scores it, and
// attaches the result. The scoring call happens without any session lock
// held; a collaborator failure leaves the session in its terminal state
// so the caller can retry.
func (m *Manager) EvaluateSession(ctx context.Context, id string) (*models.EvaluationResult, error) {
	sess, err := m.store.Get(id)
	if err != nil {
		return nil, err
	}

	req, err := evaluation.Submit(sess.Snapshot())
	if err != nil {
		return nil, err
	}

	result, err := evaluation.Evaluate(ctx, m.scorer, req, m.now())
	if err != nil {
		return nil, err
	}

	if err := sess.AttachEvaluation(result); err != nil {
		return nil, err
	}
	m.persist(ctx, sess)

	slog.Info("interview session evaluated",
		"id", id,
		"score", result.OverallScore,
		"insufficient_data", result.InsufficientData,
	)
	return result, nil
}

// RemoveSession evicts a session from the store and deletes its durable
// snapshot. A session already swept from memory is still removable as long
// as its snapshot exists.
func (m *Manager) RemoveSession(ctx context.Context, id string) error {
	if _, err := m.GetSession(ctx, id); err != nil {
		return err
	}
	m.store.Remove(id)
	if m.repo != nil {
		if err := m.repo.DeleteSnapshot(ctx, id); err != nil {
			slog.Warn("failed to delete session snapshot", "id", id, "error", err)
		}
	}
	return nil
}

// ExpireDue expires every non-terminal session whose expiry has elapsed.
// Returns the number of sessions expired.
func (m *Manager) ExpireDue(ctx context.Context, now time.Time) int {
	expired := 0
	for _, sess := range m.store.All() {
		snap := sess.Snapshot()
		if snap.State.IsTerminal() || !snap.IsExpired(now) {
			continue
		}
		sess.Expire(now)
		m.persist(ctx, sess)
		expired++
		slog.Info("interview session expired", "id", sess.ID(), "expired_at", snap.ExpiresAt)
	}
	return expired
}

// SweepTerminal evicts terminal sessions older than the retention window
// from the in-memory store. Durable snapshots are kept for audit.
func (m *Manager) SweepTerminal(now time.Time, retention time.Duration) int {
	evicted := m.store.Sweep(now, retention)
	for _, id := range evicted {
		slog.Info("interview session evicted", "id", id)
	}
	return len(evicted)
}

// Ping checks the durable backend, when one is configured.
func (m *Manager) Ping(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Ping(ctx)
}

// persist writes the current snapshot to the durable backend. Persistence
// is advisory: failures are logged, never surfaced, and never block a
// transition that already committed in memory.
func (m *Manager) persist(ctx context.Context, sess *Session) {
	if m.repo == nil {
		return
	}
	if err := m.repo.SaveSnapshot(ctx, sess.Snapshot()); err != nil {
		slog.Error("failed to persist session snapshot", "id", sess.ID(), "error", err)
	}
}
