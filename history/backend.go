package history

import (
	"context"
	"fmt"

	"github.com/breez/feechart/lightning"
)

// Backend serves forwards from the mirror in the store and everything else
// from the node itself.
type Backend struct {
	nodeid []byte
	client lightning.Client
	store  Store
}

func NewBackend(nodeid []byte, client lightning.Client, store Store) *Backend {
	return &Backend{
		nodeid: nodeid,
		client: client,
		store:  store,
	}
}

func (b *Backend) ListForwardingEvents(
	ctx context.Context,
	req *lightning.ListForwardsRequest,
) ([]*lightning.ForwardEvent, error) {
	forwards, err := b.store.ListForwards(ctx, b.nodeid, req)
	if err != nil {
		return nil, fmt.Errorf("store.ListForwards(%x) error: %w", b.nodeid, err)
	}

	return forwards, nil
}

func (b *Backend) ListPrivateChannels(ctx context.Context) ([]*lightning.Channel, error) {
	return b.client.ListPrivateChannels(ctx)
}

func (b *Backend) LookupNode(ctx context.Context, peerID string) (*lightning.NodeInfo, error) {
	return b.client.LookupNode(ctx, peerID)
}
