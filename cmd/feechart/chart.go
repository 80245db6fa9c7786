package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/breez/feechart/chart"
	"github.com/breez/feechart/config"
	"github.com/breez/feechart/logger"
	"github.com/breez/feechart/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"
)

var chartCommand = cli.Command{
	Name:   "chart",
	Usage:  "Print the routing fee chart of a node, built from the node directly.",
	Action: printChart,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "node",
			Usage: "Name of the configured node. May be omitted if a single node is configured.",
		},
		cli.IntFlag{
			Name:     "days",
			Usage:    "Number of days to chart, ending now.",
			Required: true,
		},
		cli.BoolFlag{
			Name:  "count",
			Usage: "Chart the number of forwards instead of the fees earned.",
		},
		cli.StringFlag{
			Name:  "via",
			Usage: "Only chart forwards over channels with this peer (hex encoded pubkey).",
		},
		cli.BoolFlag{
			Name:  "json",
			Usage: "Print the chart as json.",
		},
	},
}

func printChart(cliCtx *cli.Context) error {
	conf, err := config.Load(cliCtx.GlobalString("config"))
	if err != nil {
		return err
	}

	log, err := logger.New(&conf.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()
	nodes, closeNodes, err := initializeNodes(ctx, conf.Nodes, nil, log)
	if err != nil {
		return fmt.Errorf("failed to initialize nodes: %w", err)
	}
	defer closeNodes()

	nodesService, err := shared.NewNodesService(nodes)
	if err != nil {
		return fmt.Errorf("failed to create nodes service: %w", err)
	}

	node, err := nodesService.GetNodeByName(cliCtx.String("node"))
	if err != nil {
		return fmt.Errorf("node %q: %w", cliCtx.String("node"), err)
	}

	req := &chart.Request{
		Days:    cliCtx.Int("days"),
		IsCount: cliCtx.Bool("count"),
		Via:     cliCtx.String("via"),
	}

	now := time.Now()
	service := chart.NewService(
		chart.WithClock(func() time.Time { return now }),
		chart.WithLogger(log),
	)
	result, err := service.FeesChart(ctx, node.Backend, req)
	if err != nil {
		return err
	}

	if cliCtx.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	return writeTable(os.Stdout, result, req, now)
}

// writeTable prints one row per bucket, labeled with the time the bucket
// starts.
func writeTable(w io.Writer, result *chart.Result, req *chart.Request, now time.Time) error {
	granularity, _ := chart.SelectGranularity(req.Days)
	window := chart.CalculateWindow(req.Days, now)

	fmt.Fprintln(w, result.Title)
	fmt.Fprintln(w, result.Description)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	unit := "sat"
	if req.IsCount {
		unit = "forwards"
	}
	fmt.Fprintf(tw, "%s\t%s\t\n", granularity, unit)
	for i, v := range result.Data {
		bucketStart := window.Start.Add(time.Duration(i) * granularity.Duration())
		fmt.Fprintf(tw, "%s\t%s\t\n", bucketStart.Format("2006-01-02 15:04"), humanize.Comma(int64(v)))
	}

	return tw.Flush()
}
