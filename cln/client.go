package cln

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/breez/feechart/config"
	"github.com/breez/feechart/lightning"
	"github.com/elementsproject/glightning/glightning"
	"go.uber.org/zap"
)

// Seconds to wait for a response from lightningd.
const rpcTimeout = 60

type ClnClient struct {
	socketPath string
	client     *glightning.Lightning
	mtx        sync.Mutex
	log        *zap.Logger
}

func NewClnClient(conf *config.ClnConfig, log *zap.Logger) (*ClnClient, error) {
	client, err := newGlightningClient(conf.SocketPath)
	if err != nil {
		return nil, err
	}
	return &ClnClient{
		socketPath: conf.SocketPath,
		client:     client,
		log:        log,
	}, nil
}

func newGlightningClient(socketPath string) (*glightning.Lightning, error) {
	rpcFile := filepath.Base(socketPath)
	if rpcFile == "" || rpcFile == "." {
		return nil, fmt.Errorf("invalid socketPath '%s'", socketPath)
	}
	lightningDir := filepath.Dir(socketPath)
	if lightningDir == "" || lightningDir == "." {
		return nil, fmt.Errorf("invalid socketPath '%s'", socketPath)
	}

	client := glightning.NewLightning()
	client.SetTimeout(rpcTimeout)
	err := client.StartUp(rpcFile, lightningDir)
	return client, err
}

// getClient returns a connected client, reconnecting if lightningd went
// away in the meantime.
func (c *ClnClient) getClient() (*glightning.Lightning, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.client.IsUp() {
		return c.client, nil
	}

	var err error
	c.client, err = newGlightningClient(c.socketPath)
	if err != nil {
		return nil, err
	}
	if c.client.IsUp() {
		return c.client, nil
	}

	return nil, fmt.Errorf("cln is not accessible")
}

// request issues a single rpc call. glightning has no notion of a context,
// so cancellation is only honored before the call is made.
func (c *ClnClient) request(ctx context.Context, method rpcMethod, response interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	client, err := c.getClient()
	if err != nil {
		return err
	}

	err = client.Request(method, response)
	if err != nil {
		c.log.Error("CLN: rpc error", zap.String("method", method.Name()), zap.Error(err))
		return fmt.Errorf("CLN: %s error: %w", method.Name(), err)
	}

	return nil
}

func (c *ClnClient) GetInfo(ctx context.Context) (*lightning.GetInfoResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client, err := c.getClient()
	if err != nil {
		return nil, err
	}
	info, err := client.GetInfo()
	if err != nil {
		c.log.Error("CLN: client.GetInfo() error", zap.Error(err))
		return nil, fmt.Errorf("CLN: GetInfo() error: %w", err)
	}

	return &lightning.GetInfoResult{
		Alias:  info.Alias,
		Pubkey: info.Id,
	}, nil
}

// ListForwardingEvents lists the settled forwards resolved in the window.
// listforwards cannot filter on time, so the window is applied here.
func (c *ClnClient) ListForwardingEvents(
	ctx context.Context,
	req *lightning.ListForwardsRequest,
) ([]*lightning.ForwardEvent, error) {
	var response listForwardsResponse
	err := c.request(ctx, &listForwardsRequest{Status: "settled"}, &response)
	if err != nil {
		return nil, err
	}

	return forwardsInWindow(response.Forwards, req)
}

// forwardsInWindow converts the forwards resolved in the window, ordered by
// resolve time. listforwards is ordered by creation, so the limit is applied
// after sorting to return the earliest resolved forwards.
func forwardsInWindow(forwards []clnForward, req *lightning.ListForwardsRequest) ([]*lightning.ForwardEvent, error) {
	var result []*lightning.ForwardEvent
	for _, forward := range forwards {
		sec, dec := math.Modf(forward.ResolvedTime)
		resolvedTime := time.Unix(int64(sec), int64(dec*1e9))
		if resolvedTime.Before(req.After) || resolvedTime.After(req.Before) {
			continue
		}

		in, err := lightning.NewShortChannelIDFromString(forward.InChannel)
		if err != nil {
			return nil, fmt.Errorf("NewShortChannelIDFromString(%s) error: %w", forward.InChannel, err)
		}
		out, err := lightning.NewShortChannelIDFromString(forward.OutChannel)
		if err != nil {
			return nil, fmt.Errorf("NewShortChannelIDFromString(%s) error: %w", forward.OutChannel, err)
		}

		result = append(result, &lightning.ForwardEvent{
			FeeSat:     forward.FeeMsat / 1000,
			FeeMsat:    forward.FeeMsat,
			Timestamp:  resolvedTime,
			InChannel:  *in,
			OutChannel: *out,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	if req.Limit != 0 && uint32(len(result)) > req.Limit {
		result = result[:req.Limit]
	}

	return result, nil
}

func (c *ClnClient) ListPrivateChannels(ctx context.Context) ([]*lightning.Channel, error) {
	var response listPeerChannelsResponse
	err := c.request(ctx, &listPeerChannelsRequest{}, &response)
	if err != nil {
		return nil, err
	}

	return privateChannels(response.Channels)
}

func privateChannels(channels []peerChannel) ([]*lightning.Channel, error) {
	var result []*lightning.Channel
	for _, ch := range channels {
		// Channels without a short channel id have not been confirmed yet
		// and cannot have been forwarded over.
		if !ch.Private || ch.ShortChannelID == "" {
			continue
		}

		scid, err := lightning.NewShortChannelIDFromString(ch.ShortChannelID)
		if err != nil {
			return nil, fmt.Errorf("NewShortChannelIDFromString(%s) error: %w", ch.ShortChannelID, err)
		}

		result = append(result, &lightning.Channel{
			ID:      *scid,
			PeerID:  ch.PeerID,
			Private: true,
		})
	}

	return result, nil
}

func (c *ClnClient) LookupNode(ctx context.Context, peerID string) (*lightning.NodeInfo, error) {
	var nodes listNodesResponse
	err := c.request(ctx, &listNodesRequest{ID: peerID}, &nodes)
	if err != nil {
		return nil, err
	}

	var channels listChannelsResponse
	err = c.request(ctx, &listChannelsRequest{Source: peerID}, &channels)
	if err != nil {
		return nil, err
	}

	result := &lightning.NodeInfo{}
	for _, node := range nodes.Nodes {
		if node.NodeID == peerID {
			result.Alias = node.Alias
		}
	}

	for _, ch := range channels.Channels {
		scid, err := lightning.NewShortChannelIDFromString(ch.ShortChannelID)
		if err != nil {
			return nil, fmt.Errorf("NewShortChannelIDFromString(%s) error: %w", ch.ShortChannelID, err)
		}

		result.Channels = append(result.Channels, &lightning.Channel{
			ID:     *scid,
			PeerID: peerID,
		})
	}

	return result, nil
}
