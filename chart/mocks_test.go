package chart

import (
	"context"
	"sync"

	"github.com/breez/feechart/lightning"
)

type mockBackend struct {
	forwards    []*lightning.ForwardEvent
	private     []*lightning.Channel
	node        *lightning.NodeInfo
	forwardsErr error
	privateErr  error
	nodeErr     error

	mtx             sync.Mutex
	forwardRequests []*lightning.ListForwardsRequest
	privateCalls    int
	nodeRequests    []string
}

func (m *mockBackend) ListForwardingEvents(ctx context.Context, req *lightning.ListForwardsRequest) ([]*lightning.ForwardEvent, error) {
	m.mtx.Lock()
	m.forwardRequests = append(m.forwardRequests, req)
	m.mtx.Unlock()
	if m.forwardsErr != nil {
		return nil, m.forwardsErr
	}
	return m.forwards, nil
}

func (m *mockBackend) ListPrivateChannels(ctx context.Context) ([]*lightning.Channel, error) {
	m.mtx.Lock()
	m.privateCalls++
	m.mtx.Unlock()
	if m.privateErr != nil {
		return nil, m.privateErr
	}
	return m.private, nil
}

func (m *mockBackend) LookupNode(ctx context.Context, peerID string) (*lightning.NodeInfo, error) {
	m.mtx.Lock()
	m.nodeRequests = append(m.nodeRequests, peerID)
	m.mtx.Unlock()
	if m.nodeErr != nil {
		return nil, m.nodeErr
	}
	return m.node, nil
}
