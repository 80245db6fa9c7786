package main

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/breez/feechart/cln"
	"github.com/breez/feechart/config"
	"github.com/breez/feechart/history"
	"github.com/breez/feechart/lightning"
	"github.com/breez/feechart/lnd"
	"github.com/breez/feechart/shared"
	"go.uber.org/zap"
)

// initializeNodes connects to every configured node and resolves its name and
// pubkey. If store is set, charts of the node are served from the forwarding
// history mirror.
func initializeNodes(
	ctx context.Context,
	configs []*config.NodeConfig,
	store history.Store,
	log *zap.Logger,
) ([]*shared.Node, func(), error) {
	if len(configs) == 0 {
		return nil, nil, fmt.Errorf("no nodes supplied")
	}

	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	nodes := []*shared.Node{}
	for _, conf := range configs {
		var client lightning.Client
		if conf.Lnd != nil {
			c, err := lnd.NewLndClient(conf.Lnd, log.With(zap.String("host", conf.Lnd.Address)))
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("failed to initialize LND client: %w", err)
			}
			closers = append(closers, func() { c.Close() })
			client = c
		}

		if conf.Cln != nil {
			c, err := cln.NewClnClient(conf.Cln, log.With(zap.String("socket", conf.Cln.SocketPath)))
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("failed to initialize CLN client: %w", err)
			}
			client = c
		}

		if client == nil {
			closeAll()
			return nil, nil, fmt.Errorf("node has to be either cln or lnd")
		}

		info, err := client.GetInfo(ctx)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to get info from node %q: %w", conf.Name, err)
		}

		nodeId, err := hex.DecodeString(info.Pubkey)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to decode node pubkey %q: %w", info.Pubkey, err)
		}

		name := conf.Name
		if name == "" {
			name = info.Alias
		}

		node := &shared.Node{
			Name:       name,
			NodeId:     nodeId,
			NodeConfig: conf,
			Client:     client,
			Backend:    client,
			Tokens:     conf.Tokens,
		}
		if store != nil {
			node.Backend = history.NewBackend(nodeId, client, store)
		}

		log.Info("node initialized",
			zap.String("name", name),
			zap.String("pubkey", info.Pubkey),
			zap.Bool("mirror", store != nil),
		)
		nodes = append(nodes, node)
	}

	return nodes, closeAll, nil
}
