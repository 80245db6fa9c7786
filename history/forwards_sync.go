package history

import (
	"context"
	"time"

	"github.com/breez/feechart/lightning"
	"go.uber.org/zap"
)

// Maximum number of forwards fetched from the node in a single round.
const maxEvents = 10_000

type ForwardSync struct {
	nodeid   []byte
	client   lightning.Client
	store    Store
	interval time.Duration
	log      *zap.Logger
}

func NewForwardSync(
	nodeid []byte,
	client lightning.Client,
	store Store,
	interval time.Duration,
	log *zap.Logger,
) *ForwardSync {
	return &ForwardSync{
		nodeid:   nodeid,
		client:   client,
		store:    store,
		interval: interval,
		log:      log.With(zap.Binary("nodeid", nodeid)),
	}
}

// ForwardsSynchronize copies new forwards from the node into the store until
// ctx is done.
func (s *ForwardSync) ForwardsSynchronize(ctx context.Context) {
	s.forwardsSynchronizeOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.interval):
		}

		s.forwardsSynchronizeOnce(ctx)
	}
}

func (s *ForwardSync) forwardsSynchronizeOnce(ctx context.Context) {
	last, err := s.store.LastForwardTime(ctx, s.nodeid)
	if err != nil {
		s.log.Error("forwardsSynchronizeOnce - LastForwardTime error", zap.Error(err))
		return
	}

	var after time.Time
	if last != nil {
		after = *last
	}

	round := 0
	for {
		// The forward at `after` is fetched again, the store ignores it.
		forwards, err := s.client.ListForwardingEvents(ctx, &lightning.ListForwardsRequest{
			After:  after,
			Before: time.Now(),
			Limit:  maxEvents,
		})
		if err != nil {
			s.log.Error("forwardsSynchronizeOnce - ListForwardingEvents error", zap.Error(err))
			return
		}

		s.log.Info("forwardsSynchronizeOnce",
			zap.Int("round", round),
			zap.Time("after", after),
			zap.Int("events", len(forwards)),
		)
		if len(forwards) == 0 {
			break
		}

		err = s.store.InsertForwards(ctx, s.nodeid, forwards)
		if err != nil {
			s.log.Error("forwardsSynchronizeOnce - store.InsertForwards error", zap.Error(err))
			return
		}

		if len(forwards) < maxEvents {
			break
		}

		next := latestTimestamp(forwards)
		if !next.After(after) {
			// A full page within a single instant, nothing to advance to.
			s.log.Warn("forwardsSynchronizeOnce - cannot advance", zap.Time("after", after))
			break
		}

		after = next
		round++
	}
}

func latestTimestamp(forwards []*lightning.ForwardEvent) time.Time {
	var latest time.Time
	for _, f := range forwards {
		if f.Timestamp.After(latest) {
			latest = f.Timestamp
		}
	}
	return latest
}
