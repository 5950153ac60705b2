package migration

import (
	"github.com/inkvoice/inkvoice/internal/config"
	invoicedomain "github.com/inkvoice/inkvoice/internal/invoice/domain"
	profiledomain "github.com/inkvoice/inkvoice/internal/profile/domain"
	"go.uber.org/zap"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(Run),
)

// Run applies SQL migrations on postgres; other dialects fall back to
// gorm auto-migration since the embedded SQL targets postgres types.
func Run(cfg config.Config, gdb *gorm.DB, log *zap.Logger) error {
	if cfg.DBType != "postgres" {
		return gdb.AutoMigrate(
			&invoicedomain.Invoice{},
			&profiledomain.Profile{},
		)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	if err := RunMigrations(sqlDB); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}
