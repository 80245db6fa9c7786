package lightning

import (
	"context"
	"time"
)

type GetInfoResult struct {
	Alias  string
	Pubkey string
}

// ForwardEvent is a settled forward through the node.
type ForwardEvent struct {
	// Fee earned in satoshi.
	FeeSat uint64
	// Fee earned in millisatoshi.
	FeeMsat    uint64
	Timestamp  time.Time
	InChannel  ShortChannelID
	OutChannel ShortChannelID
}

type Channel struct {
	ID      ShortChannelID
	PeerID  string
	Private bool
}

type NodeInfo struct {
	// Alias of the node in the graph. Empty if the node is unknown or has no
	// alias.
	Alias    string
	Channels []*Channel
}

type ListForwardsRequest struct {
	After  time.Time
	Before time.Time
	Limit  uint32
}

type Client interface {
	GetInfo(ctx context.Context) (*GetInfoResult, error)
	// ListForwardingEvents returns the forwards resolved in the window,
	// ordered by timestamp. If a limit is set, the earliest are returned.
	ListForwardingEvents(ctx context.Context, req *ListForwardsRequest) ([]*ForwardEvent, error)
	ListPrivateChannels(ctx context.Context) ([]*Channel, error)
	LookupNode(ctx context.Context, peerID string) (*NodeInfo, error)
}
