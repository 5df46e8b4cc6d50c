package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/failrelay/internal/activitylog"
	"github.com/smallbiznis/failrelay/internal/config"
	"github.com/smallbiznis/failrelay/internal/notifier"
	"github.com/smallbiznis/failrelay/internal/observability"
	"github.com/smallbiznis/failrelay/internal/payments"
	"github.com/smallbiznis/failrelay/internal/providers/airtable"
	"github.com/smallbiznis/failrelay/internal/providers/email"
	"github.com/smallbiznis/failrelay/internal/server"
	"github.com/smallbiznis/failrelay/pkg/telemetry"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		fx.Provide(telemetry.NewMetrics),

		// Functional domains
		activitylog.Module,
		email.Module,
		airtable.Module,
		notifier.Module,
		payments.Module,
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
