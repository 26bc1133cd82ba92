package realtime

import (
	"context"
	"time"
)

// OpenRequest carries everything the realtime collaborator needs to open
// an ephemeral conversational session.
type OpenRequest struct {
	Instructions string
	Voice        string
	Modalities   []string
}

// OpenResponse is the collaborator's handle for a freshly opened session.
// ClientSecret is the ephemeral token the frontend uses to connect.
type OpenResponse struct {
	SessionID    string
	ClientSecret string
	Model        string
	ExpiresAt    time.Time
}

// Opener is the narrow contract against the realtime conversational
// collaborator. The streaming turn exchange itself is opaque to this
// service; the frontend talks to the collaborator directly.
type Opener interface {
	Open(ctx context.Context, req OpenRequest) (*OpenResponse, error)
	Close(ctx context.Context, sessionID string) error
}
