// Package seed bootstraps the default account so a fresh install is
// usable without a provisioning step.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	accountdomain "github.com/smallbiznis/tradebeat/internal/account/domain"
	"github.com/smallbiznis/tradebeat/pkg/db"
)

const defaultAccountName = "Main"

// EnsureDefaultAccount seeds the default account for startup bootstrap.
func EnsureDefaultAccount(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("seed database handle is required")
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}
	return ensureAccount(conn, node.Generate())
}

// EnsureDefaultAccountWithID seeds the default account under a fixed ID,
// used when the operator pins DEFAULT_ACCOUNT.
func EnsureDefaultAccountWithID(conn *gorm.DB, id int64) error {
	if conn == nil {
		return errors.New("seed database handle is required")
	}
	if id == 0 {
		return errors.New("seed account id is required")
	}
	return ensureAccount(conn, snowflake.ID(id))
}

func ensureAccount(conn *gorm.DB, id snowflake.ID) error {
	ctx := context.Background()
	accountSlug := slug.Make(defaultAccountName)
	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing accountdomain.Account
		err := tx.WithContext(ctx).
			Where("slug = ?", accountSlug).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		account := accountdomain.Account{
			ID:   id,
			Name: defaultAccountName,
			Slug: accountSlug,
		}
		if err := tx.WithContext(ctx).Create(&account).Error; err != nil {
			// A concurrent boot may have seeded it first.
			if db.IsDuplicateKeyErr(err) {
				return nil
			}
			return err
		}
		return nil
	})
}
