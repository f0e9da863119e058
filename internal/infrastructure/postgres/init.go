package postgres

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/LavaJover/shvark-commission-service/internal/config"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/models"
)

// Open connects with duplicate-key translation on, so repositories can
// match gorm.ErrDuplicatedKey regardless of driver.
func Open(dialector gorm.Dialector, silent bool) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if silent {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return db, nil
}

// AutoMigrate creates the ledger tables; production schemas go through migrations/.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.SaleModel{}, &models.CouponVendorModel{}, &models.TierRunModel{})
}

func MustInitDB(cfg *config.CommissionConfig) *gorm.DB {
	db, err := Open(postgres.Open(cfg.CommissionDB.Dsn), cfg.Env == "prod")
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err)
	}

	if cfg.CommissionDB.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			log.Fatalf("failed to auto-migrate db: %v\n", err)
		}
	}

	return db
}
