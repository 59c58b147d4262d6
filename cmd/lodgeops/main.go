package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/lodgeops/lodgeops/internal/clock"
	"github.com/lodgeops/lodgeops/internal/config"
	"github.com/lodgeops/lodgeops/internal/migration"
	"github.com/lodgeops/lodgeops/internal/observability"
	"github.com/lodgeops/lodgeops/internal/server"
	"github.com/lodgeops/lodgeops/pkg/db"
)

func main() {
	app := fx.New(
		fx.Provide(config.Load),
		fx.Provide(config.NewFolioConfigHolder),
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
