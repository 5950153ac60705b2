package db

import (
	"context"
	"time"

	"github.com/inkvoice/inkvoice/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormprom "gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(New),
)

// New opens the shared gorm connection with tracing and metrics plugins.
func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialect, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialect, &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := gdb.Use(otelgorm.NewPlugin(otelgorm.WithDBName(cfg.DBName))); err != nil {
		return nil, err
	}
	if err := gdb.Use(gormprom.New(gormprom.Config{
		DBName:          cfg.DBName,
		RefreshInterval: 15,
	})); err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Second)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("closing database connection")
				return sqlDB.Close()
			},
		})
	}

	return gdb, nil
}
