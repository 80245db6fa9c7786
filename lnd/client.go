package lnd

import (
	"context"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/breez/feechart/config"
	"github.com/breez/feechart/lightning"
	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_retry "github.com/grpc-ecosystem/go-grpc-middleware/retry"
	"github.com/lightningnetwork/lnd/lnrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/status"
)

const (
	// lnd caps the number of events per ForwardingHistory call at 50000.
	forwardsPageSize = 10_000
	rpcTimeout       = 30 * time.Second
	rpcRetries       = 3
)

type LndClient struct {
	client lnrpc.LightningClient
	conn   *grpc.ClientConn
	log    *zap.Logger
}

func NewLndClient(conf *config.LndConfig, log *zap.Logger) (*LndClient, error) {
	_, err := hex.DecodeString(conf.Macaroon)
	if err != nil {
		return nil, fmt.Errorf("failed to decode macaroon: %w", err)
	}

	cp := x509.NewCertPool()
	if !cp.AppendCertsFromPEM([]byte(conf.Cert)) {
		return nil, fmt.Errorf("credentials: failed to append certificates")
	}
	creds := credentials.NewClientTLSFromCert(cp, "")
	macCred := newMacaroonCredential(conf.Macaroon)

	conn, err := grpc.Dial(
		conf.Address,
		grpc.WithTransportCredentials(creds),
		grpc.WithPerRPCCredentials(macCred),
		grpc.WithUnaryInterceptor(grpc_middleware.ChainUnaryClient(
			grpc_retry.UnaryClientInterceptor(
				grpc_retry.WithMax(rpcRetries),
				grpc_retry.WithPerRetryTimeout(rpcTimeout),
				grpc_retry.WithBackoff(grpc_retry.BackoffExponential(100*time.Millisecond)),
				grpc_retry.WithCodes(codes.Unavailable, codes.ResourceExhausted),
			),
			loggingInterceptor(log),
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LND gRPC at %s: %w", conf.Address, err)
	}

	return &LndClient{
		client: lnrpc.NewLightningClient(conn),
		conn:   conn,
		log:    log,
	}, nil
}

func loggingInterceptor(log *zap.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		began := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		if err != nil {
			log.Debug("LND rpc failed", zap.String("method", method), zap.Duration("took", time.Since(began)), zap.Error(err))
		}
		return err
	}
}

func (c *LndClient) Close() error {
	return c.conn.Close()
}

func (c *LndClient) GetInfo(ctx context.Context) (*lightning.GetInfoResult, error) {
	info, err := c.client.GetInfo(ctx, &lnrpc.GetInfoRequest{})
	if err != nil {
		c.log.Error("LND: client.GetInfo() error", zap.Error(err))
		return nil, fmt.Errorf("LND: GetInfo() error: %w", err)
	}

	return &lightning.GetInfoResult{
		Alias:  info.Alias,
		Pubkey: info.IdentityPubkey,
	}, nil
}

// ListForwardingEvents pages through the forwarding history in the window
// until either all events are fetched or the limit is reached.
func (c *LndClient) ListForwardingEvents(
	ctx context.Context,
	req *lightning.ListForwardsRequest,
) ([]*lightning.ForwardEvent, error) {
	// The time filter has second precision, round the end up so events in
	// the last second are included.
	startTime := uint64(req.After.Unix())
	endTime := uint64(req.Before.Unix()) + 1

	var result []*lightning.ForwardEvent
	var offset uint32
	for req.Limit == 0 || uint32(len(result)) < req.Limit {
		pageSize := uint32(forwardsPageSize)
		if req.Limit != 0 && req.Limit-uint32(len(result)) < pageSize {
			pageSize = req.Limit - uint32(len(result))
		}

		resp, err := c.client.ForwardingHistory(ctx, &lnrpc.ForwardingHistoryRequest{
			StartTime:    startTime,
			EndTime:      endTime,
			IndexOffset:  offset,
			NumMaxEvents: pageSize,
		})
		if err != nil {
			c.log.Error("LND: client.ForwardingHistory() error",
				zap.Uint64("startTime", startTime),
				zap.Uint32("offset", offset),
				zap.Error(err),
			)
			return nil, fmt.Errorf("LND: ForwardingHistory() error: %w", err)
		}

		for _, f := range resp.ForwardingEvents {
			result = append(result, &lightning.ForwardEvent{
				FeeSat:     f.Fee,
				FeeMsat:    f.FeeMsat,
				Timestamp:  time.Unix(0, int64(f.TimestampNs)),
				InChannel:  lightning.ShortChannelID(f.ChanIdIn),
				OutChannel: lightning.ShortChannelID(f.ChanIdOut),
			})
		}

		c.log.Debug("LND: fetched forwarding events",
			zap.Uint32("offset", offset),
			zap.Int("events", len(resp.ForwardingEvents)),
		)
		if uint32(len(resp.ForwardingEvents)) < pageSize {
			break
		}

		offset = resp.LastOffsetIndex
	}

	return result, nil
}

func (c *LndClient) ListPrivateChannels(ctx context.Context) ([]*lightning.Channel, error) {
	resp, err := c.client.ListChannels(ctx, &lnrpc.ListChannelsRequest{
		PrivateOnly: true,
	})
	if err != nil {
		c.log.Error("LND: client.ListChannels() error", zap.Error(err))
		return nil, fmt.Errorf("LND: ListChannels() error: %w", err)
	}

	result := make([]*lightning.Channel, 0, len(resp.Channels))
	for _, ch := range resp.Channels {
		result = append(result, &lightning.Channel{
			ID:      lightning.ShortChannelID(ch.ChanId),
			PeerID:  ch.RemotePubkey,
			Private: ch.Private,
		})
	}

	return result, nil
}

// LookupNode returns the alias and public channels of the peer as known in
// the graph. A peer unknown to the graph has neither.
func (c *LndClient) LookupNode(ctx context.Context, peerID string) (*lightning.NodeInfo, error) {
	resp, err := c.client.GetNodeInfo(ctx, &lnrpc.NodeInfoRequest{
		PubKey:          peerID,
		IncludeChannels: true,
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &lightning.NodeInfo{}, nil
		}

		c.log.Error("LND: client.GetNodeInfo() error", zap.String("peer", peerID), zap.Error(err))
		return nil, fmt.Errorf("LND: GetNodeInfo(%s) error: %w", peerID, err)
	}

	result := &lightning.NodeInfo{
		Channels: make([]*lightning.Channel, 0, len(resp.Channels)),
	}
	if resp.Node != nil {
		result.Alias = resp.Node.Alias
	}
	for _, edge := range resp.Channels {
		result.Channels = append(result.Channels, &lightning.Channel{
			ID:     lightning.ShortChannelID(edge.ChannelId),
			PeerID: peerID,
		})
	}

	return result, nil
}
