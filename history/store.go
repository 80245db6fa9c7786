package history

import (
	"context"
	"time"

	"github.com/breez/feechart/lightning"
)

type Store interface {
	// LastForwardTime returns the time of the latest stored forward of the
	// node, or nil if there are none.
	LastForwardTime(ctx context.Context, nodeID []byte) (*time.Time, error)

	// InsertForwards stores forwards of the node. Forwards that are already
	// stored are ignored.
	InsertForwards(ctx context.Context, nodeID []byte, forwards []*lightning.ForwardEvent) error

	// ListForwards returns the stored forwards of the node in the time range
	// [After, Before], ordered by time, at most Limit if Limit is set.
	ListForwards(ctx context.Context, nodeID []byte, req *lightning.ListForwardsRequest) ([]*lightning.ForwardEvent, error)
}
