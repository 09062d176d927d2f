package bus

import (
	"context"

	"github.com/aumugisha-umu/seido-backend/internal/realtime"
)

// Bus carries push messages across instances.
type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error
	Close() error
}
