package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	accountdomain "github.com/smallbiznis/tradebeat/internal/account/domain"
	"github.com/smallbiznis/tradebeat/internal/config"
	recorddomain "github.com/smallbiznis/tradebeat/internal/record/domain"
	"github.com/smallbiznis/tradebeat/internal/seed"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql installs rely on the ORM schema.
			if err := conn.AutoMigrate(
				&accountdomain.Account{},
				&recorddomain.Invoice{},
				&recorddomain.Job{},
				&recorddomain.Quote{},
			); err != nil {
				return err
			}
		}

		if cfg.DefaultAccountID != 0 {
			return seed.EnsureDefaultAccountWithID(conn, cfg.DefaultAccountID)
		}
		return seed.EnsureDefaultAccount(conn)
	}),
)
