package api

import (
	"context"
	"sync"

	"github.com/breez/feechart/chart"
	"github.com/breez/feechart/lightning"
)

type mockBackend struct {
	forwards    []*lightning.ForwardEvent
	forwardsErr error

	mtx   sync.Mutex
	calls int
}

func (m *mockBackend) ListForwardingEvents(ctx context.Context, req *lightning.ListForwardsRequest) ([]*lightning.ForwardEvent, error) {
	m.mtx.Lock()
	m.calls++
	m.mtx.Unlock()
	if m.forwardsErr != nil {
		return nil, m.forwardsErr
	}
	return m.forwards, nil
}

func (m *mockBackend) ListPrivateChannels(ctx context.Context) ([]*lightning.Channel, error) {
	return nil, nil
}

func (m *mockBackend) LookupNode(ctx context.Context, peerID string) (*lightning.NodeInfo, error) {
	return &lightning.NodeInfo{}, nil
}

func (m *mockBackend) callCount() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.calls
}

type mockChartService struct {
	err error
}

func (m *mockChartService) FeesChart(ctx context.Context, backend chart.Backend, req *chart.Request) (*chart.Result, error) {
	return nil, m.err
}
