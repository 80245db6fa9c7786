package history

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/breez/feechart/lightning"
)

var ErrNotImplemented = errors.New("not implemented")

type mockStore struct {
	forwards  []*lightning.ForwardEvent
	inserts   int
	insertErr error
}

func (s *mockStore) LastForwardTime(ctx context.Context, nodeID []byte) (*time.Time, error) {
	if len(s.forwards) == 0 {
		return nil, nil
	}
	last := s.forwards[len(s.forwards)-1].Timestamp
	return &last, nil
}

func (s *mockStore) InsertForwards(ctx context.Context, nodeID []byte, forwards []*lightning.ForwardEvent) error {
	s.inserts++
	if s.insertErr != nil {
		return s.insertErr
	}

	type key struct {
		ts  int64
		in  lightning.ShortChannelID
		out lightning.ShortChannelID
	}
	existing := make(map[key]struct{}, len(s.forwards))
	for _, e := range s.forwards {
		existing[key{e.Timestamp.UnixNano(), e.InChannel, e.OutChannel}] = struct{}{}
	}
	for _, f := range forwards {
		k := key{f.Timestamp.UnixNano(), f.InChannel, f.OutChannel}
		if _, ok := existing[k]; ok {
			continue
		}
		existing[k] = struct{}{}
		s.forwards = append(s.forwards, f)
	}
	sort.SliceStable(s.forwards, func(i, j int) bool {
		return s.forwards[i].Timestamp.Before(s.forwards[j].Timestamp)
	})
	return nil
}

func (s *mockStore) ListForwards(ctx context.Context, nodeID []byte, req *lightning.ListForwardsRequest) ([]*lightning.ForwardEvent, error) {
	var result []*lightning.ForwardEvent
	for _, f := range s.forwards {
		if f.Timestamp.Before(req.After) || f.Timestamp.After(req.Before) {
			continue
		}
		result = append(result, f)
	}
	return result, nil
}

type mockLightningClient struct {
	forwards []*lightning.ForwardEvent
	requests []*lightning.ListForwardsRequest
	private  []*lightning.Channel
	node     *lightning.NodeInfo
}

func (c *mockLightningClient) GetInfo(ctx context.Context) (*lightning.GetInfoResult, error) {
	return nil, ErrNotImplemented
}

func (c *mockLightningClient) ListForwardingEvents(ctx context.Context, req *lightning.ListForwardsRequest) ([]*lightning.ForwardEvent, error) {
	c.requests = append(c.requests, req)
	var result []*lightning.ForwardEvent
	for _, f := range c.forwards {
		if f.Timestamp.Before(req.After) || f.Timestamp.After(req.Before) {
			continue
		}
		if req.Limit != 0 && uint32(len(result)) >= req.Limit {
			break
		}
		result = append(result, f)
	}
	return result, nil
}

func (c *mockLightningClient) ListPrivateChannels(ctx context.Context) ([]*lightning.Channel, error) {
	return c.private, nil
}

func (c *mockLightningClient) LookupNode(ctx context.Context, peerID string) (*lightning.NodeInfo, error) {
	return c.node, nil
}
