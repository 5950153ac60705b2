package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/inkvoice/inkvoice/internal/config"
	"github.com/inkvoice/inkvoice/internal/migration"
	"github.com/inkvoice/inkvoice/internal/observability"
	"github.com/inkvoice/inkvoice/internal/server"
	"github.com/inkvoice/inkvoice/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
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
