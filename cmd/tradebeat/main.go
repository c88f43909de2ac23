package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/smallbiznis/tradebeat/internal/clock"
	"github.com/smallbiznis/tradebeat/internal/config"
	"github.com/smallbiznis/tradebeat/internal/insights"
	"github.com/smallbiznis/tradebeat/internal/migration"
	"github.com/smallbiznis/tradebeat/internal/observability"
	"github.com/smallbiznis/tradebeat/internal/ratelimit"
	"github.com/smallbiznis/tradebeat/internal/record"
	"github.com/smallbiznis/tradebeat/internal/server"
	"github.com/smallbiznis/tradebeat/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		record.Module,
		insights.Module,
		ratelimit.Module,

		server.Module,
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
