package infra

import (
	"fmt"

	"cantine/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the schema. Also used by the integration tests against
// a fresh container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.DishCategory{},
		&model.Dish{},
		&model.Menu{},
		&model.MenuDish{},
		&model.Order{},
		&model.Review{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches creates partial unique indexes. Soft-deleted rows must not
// participate in uniqueness (a deleted user frees its email, a cancelled order
// frees its (user, menu) slot), which GORM struct tags cannot express.
// Every statement uses IF NOT EXISTS so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"unique email among non-deleted users",
			`CREATE UNIQUE INDEX IF NOT EXISTS uni_users_email_alive
			   ON users (lower(email)) WHERE is_deleted = false`},
		{"one active order per user and menu",
			`CREATE UNIQUE INDEX IF NOT EXISTS uni_orders_user_menu_active
			   ON orders (user_id, menu_id)
			   WHERE is_deleted = false AND status <> 'cancelled'`},
		{"one menu per date, site and weekday",
			`CREATE UNIQUE INDEX IF NOT EXISTS uni_menus_date_site_weekday
			   ON menus (date, site, weekday) WHERE is_deleted = false`},
		{"one review per user and order",
			`CREATE UNIQUE INDEX IF NOT EXISTS uni_reviews_user_order_alive
			   ON reviews (user_id, order_id) WHERE is_deleted = false`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
