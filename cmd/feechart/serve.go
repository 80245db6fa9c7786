package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/breez/feechart/api"
	"github.com/breez/feechart/build"
	"github.com/breez/feechart/chart"
	"github.com/breez/feechart/config"
	"github.com/breez/feechart/history"
	"github.com/breez/feechart/logger"
	"github.com/breez/feechart/postgresql"
	"github.com/breez/feechart/shared"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCommand = cli.Command{
	Name:   "serve",
	Usage:  "Serve the fee chart http api.",
	Action: serve,
}

func serve(cliCtx *cli.Context) error {
	conf, err := config.Load(cliCtx.GlobalString("config"))
	if err != nil {
		return err
	}

	log, err := logger.New(&conf.Log)
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("starting feechart", zap.String("tag", build.GetTag()), zap.String("revision", build.GetRevision()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store history.Store
	if conf.DatabaseUrl != "" {
		if conf.AutoMigrateDb {
			if err := postgresql.Migrate(conf.DatabaseUrl, log); err != nil {
				return fmt.Errorf("failed to migrate postgres database: %w", err)
			}
		}

		pool, err := postgresql.PgConnect(ctx, conf.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("pgConnect() error: %w", err)
		}
		defer pool.Close()
		store = postgresql.NewForwardStore(pool)
	}

	nodes, closeNodes, err := initializeNodes(ctx, conf.Nodes, store, log)
	if err != nil {
		return fmt.Errorf("failed to initialize nodes: %w", err)
	}
	defer closeNodes()

	nodesService, err := shared.NewNodesService(nodes)
	if err != nil {
		return fmt.Errorf("failed to create nodes service: %w", err)
	}

	var wg sync.WaitGroup
	if store != nil {
		for _, node := range nodes {
			forwardSync := history.NewForwardSync(node.NodeId, node.Client, store, conf.HistorySyncInterval, log)
			wg.Add(1)
			go func() {
				defer wg.Done()
				forwardSync.ForwardsSynchronize(ctx)
			}()
		}
	}

	charts := chart.NewService(chart.WithLogger(log))
	s := api.NewServer(conf.ListenAddress, conf.CertmagicDomain, nodesService, charts, log)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err = <-serveErr:
		log.Error("http api stopped", zap.Error(err))
	}

	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if stopErr := s.Stop(shutdownCtx); stopErr != nil {
		log.Error("failed to stop http api", zap.Error(stopErr))
	}

	wg.Wait()
	log.Info("feechart exited")
	return err
}
