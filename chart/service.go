package chart

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/breez/feechart/lightning"
	"github.com/breez/feechart/status"
	"github.com/breez/feechart/status/codes"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxForwards is the maximum number of forwards retrieved for one chart.
// Forwards beyond this limit are silently not counted.
const MaxForwards = 99_999

// Backend is the node api a chart is built from.
type Backend interface {
	ListForwardingEvents(ctx context.Context, req *lightning.ListForwardsRequest) ([]*lightning.ForwardEvent, error)
	ListPrivateChannels(ctx context.Context) ([]*lightning.Channel, error)
	LookupNode(ctx context.Context, peerID string) (*lightning.NodeInfo, error)
}

type Request struct {
	// Number of days to chart, ending now.
	Days int
	// Chart forward counts rather than fees.
	IsCount bool
	// Optional hex encoded public key of a peer. If set, only forwards
	// over channels with this peer are charted.
	Via string
}

type Service struct {
	now func() time.Time
	log *zap.Logger
}

type Option func(*Service)

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{
		now: time.Now,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FeesChart builds the fees (or forward count) chart of the node behind
// backend for the requested window.
func (s *Service) FeesChart(ctx context.Context, backend Backend, req *Request) (*Result, error) {
	began := time.Now()
	now := s.now()
	via, err := validate(backend, req, now)
	if err != nil {
		return nil, err
	}
	req = &Request{Days: req.Days, IsCount: req.IsCount, Via: via}

	window := CalculateWindow(req.Days, now)
	granularity, segments := SelectGranularity(req.Days)

	var forwards []*lightning.ForwardEvent
	var private []*lightning.Channel
	var node *lightning.NodeInfo
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		forwards, err = backend.ListForwardingEvents(gctx, &lightning.ListForwardsRequest{
			After:  window.Start,
			Before: window.End,
			Limit:  MaxForwards,
		})
		if err != nil {
			return fmt.Errorf("ListForwardingEvents(%v, %v): %w", window.Start, window.End, err)
		}
		return nil
	})

	// Channel and node lookups are only needed to scope the chart to a peer.
	if req.Via != "" {
		g.Go(func() error {
			var err error
			private, err = backend.ListPrivateChannels(gctx)
			if err != nil {
				return fmt.Errorf("ListPrivateChannels(): %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			node, err = backend.LookupNode(gctx, req.Via)
			if err != nil {
				return fmt.Errorf("LookupNode(%s): %w", req.Via, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Warn("chart lookups failed", zap.Int("days", req.Days), zap.String("via", req.Via), zap.Error(err))
		return nil, status.Wrap(codes.UpstreamUnavailable, status.ReasonUpstreamUnavailable, "the node could not be reached", err)
	}

	var alias string
	if req.Via != "" {
		var public []*lightning.Channel
		if node != nil {
			alias = node.Alias
			public = node.Channels
		}
		forwards = FilterViaPeer(forwards, private, public, req.Via)
	}

	series := Aggregate(forwards, granularity, segments, window.Start)
	result := Assemble(&AssembleParams{
		IsCount:      req.IsCount,
		Granularity:  granularity,
		Series:       series,
		TotalEarned:  TotalEarned(forwards),
		ForwardCount: len(forwards),
		Start:        window.Start,
		Now:          now,
		Via:          req.Via,
		Alias:        alias,
	})

	s.log.Info("chart built",
		zap.Int("days", req.Days),
		zap.Bool("count", req.IsCount),
		zap.String("via", req.Via),
		zap.Stringer("granularity", granularity),
		zap.Int("segments", segments),
		zap.Int("forwards", len(forwards)),
		zap.Duration("took", time.Since(began)),
	)
	return result, nil
}

// validate checks the request and returns the via peer in its canonical
// lowercase form, as the node reports peer ids.
func validate(backend Backend, req *Request, now time.Time) (string, error) {
	if req == nil || req.Days <= 0 {
		return "", status.New(codes.InvalidArgument, status.ReasonDaysRequired, "days must be a positive number").Err()
	}

	if limit := maxDays(now); req.Days > limit {
		return "", status.Newf(codes.InvalidArgument, status.ReasonDaysTooLarge, "days must be at most %d", limit).Err()
	}

	if backend == nil {
		return "", status.New(codes.InvalidArgument, status.ReasonBackendRequired, "a node backend is required").Err()
	}

	if req.Via == "" {
		return "", nil
	}

	via, err := NormalizePeerID(req.Via)
	if err != nil {
		return "", status.Newf(codes.InvalidArgument, status.ReasonInvalidViaPeer, "invalid via peer public key %q: %v", req.Via, err).Err()
	}

	return via, nil
}

// maxDays is the number of whole days between the bitcoin genesis block and
// now. No forward can be older than that.
func maxDays(now time.Time) int {
	genesis := chaincfg.MainNetParams.GenesisBlock.Header.Timestamp
	return int(now.Sub(genesis) / (24 * time.Hour))
}

// NormalizePeerID parses a hex encoded compressed public key and returns it
// lowercase hex encoded.
func NormalizePeerID(peerID string) (string, error) {
	b, err := hex.DecodeString(peerID)
	if err != nil {
		return "", err
	}
	if len(b) != btcec.PubKeyBytesLenCompressed {
		return "", fmt.Errorf("expected %d bytes, got %d", btcec.PubKeyBytesLenCompressed, len(b))
	}

	pub, err := btcec.ParsePubKey(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(pub.SerializeCompressed()), nil
}
