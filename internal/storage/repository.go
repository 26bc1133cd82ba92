package storage

import (
	"context"

	"github.com/hireloop/interview-engine/internal/models"
)

// Repository is the durable snapshot store for interview sessions: a
// simple save/load contract keyed by session id. The live state machine
// stays in memory; snapshots exist so finished interviews survive a
// restart and remain inspectable after store eviction.
type Repository interface {
	SaveSnapshot(ctx context.Context, sess models.Session) error
	LoadSnapshot(ctx context.Context, id string) (*models.Session, error)
	DeleteSnapshot(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close() error
}
