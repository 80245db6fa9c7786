package main

import (
	"log"
	"os"

	"github.com/breez/feechart/build"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "feechart"
	app.Version = build.GetVersion()
	app.Usage = "routing fee charts for LND and CLN nodes"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Usage:  "Path to the config file (yaml or json). Settings can also be supplied as FEECHART_ environment variables.",
			EnvVar: "FEECHART_CONFIG",
		},
	}
	app.Commands = []cli.Command{
		serveCommand,
		chartCommand,
		migrateCommand,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
