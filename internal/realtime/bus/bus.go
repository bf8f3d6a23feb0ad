package bus

import (
	"context"

	"github.com/forkful/forkful-backend/internal/realtime"
)

// Bus fans document-change messages out across server instances. Any
// push-based mechanism with eventual delivery satisfies the contract.
type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error
	Close() error
}
