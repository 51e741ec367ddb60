package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/indowater/tirta/internal/clock"
	"github.com/indowater/tirta/internal/config"
	"github.com/indowater/tirta/internal/logger"
	"github.com/indowater/tirta/internal/metrics"
	"github.com/indowater/tirta/internal/migration"
	"github.com/indowater/tirta/internal/server"
	"github.com/indowater/tirta/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,

		// Functional domains are wired through server.Module.
		server.Module,
		migration.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
