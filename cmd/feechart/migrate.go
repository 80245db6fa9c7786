package main

import (
	"fmt"

	"github.com/breez/feechart/config"
	"github.com/breez/feechart/logger"
	"github.com/breez/feechart/postgresql"
	"github.com/urfave/cli"
)

var migrateCommand = cli.Command{
	Name:   "migrate",
	Usage:  "Migrate the feechart database to the latest version.",
	Action: migrate,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:     "database-url",
			Usage:    "Postgres database url. The configured user needs permissions to create/drop/modify tables.",
			Required: true,
		},
	},
}

func migrate(cliCtx *cli.Context) error {
	dbUrl := cliCtx.String("database-url")
	if dbUrl == "" {
		return fmt.Errorf("database-url is required")
	}

	log, err := logger.New(&config.LogConfig{Level: "info", Format: "console"})
	if err != nil {
		return err
	}
	defer log.Sync()

	return postgresql.Migrate(dbUrl, log)
}
