package infra

import (
	"fmt"

	"minimarket/internal/catalog"
	"minimarket/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ProductsChannel is the NOTIFY channel the products trigger publishes on.
const ProductsChannel = "products_changes"

// StoreConfig parses the Product Store URL and applies the store key as the
// connection password, so the credential never has to live in the URL.
func StoreConfig(storeURL, storeKey string) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(storeURL)
	if err != nil {
		return nil, fmt.Errorf("parse product store url: %w", err)
	}
	if storeKey != "" {
		cfg.Password = storeKey
	}
	return cfg, nil
}

// NewDatabase establishes a GORM connection backed by the pgx stdlib driver,
// runs AutoMigrate for the products and audit tables, then installs the
// change-notification trigger.
func NewDatabase(storeURL, storeKey string) (*gorm.DB, error) {
	connCfg, err := StoreConfig(storeURL, storeKey)
	if err != nil {
		return nil, err
	}
	sqlDB := stdlib.OpenDB(*connCfg)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema. The notification trigger is only
// installed on Postgres; other dialects (SQLite in tests) get the tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&catalog.Row{}, &model.AuditEntry{}); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"notify function", `
CREATE OR REPLACE FUNCTION notify_products_change() RETURNS trigger AS $$
DECLARE
  payload json;
BEGIN
  IF TG_OP = 'DELETE' THEN
    payload := json_build_object('event', TG_OP, 'row', row_to_json(OLD));
  ELSE
    payload := json_build_object('event', TG_OP, 'row', row_to_json(NEW));
  END IF;
  PERFORM pg_notify('` + ProductsChannel + `', payload::text);
  RETURN NULL;
END;
$$ LANGUAGE plpgsql`},
		{"notify trigger", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'products_notify') THEN
    CREATE TRIGGER products_notify
      AFTER INSERT OR UPDATE OR DELETE ON products
      FOR EACH ROW EXECUTE FUNCTION notify_products_change();
  END IF;
END $$`},
		{"audit timestamp index", `CREATE INDEX IF NOT EXISTS idx_audit_log_entity_ts ON audit_log (entity, timestamp DESC)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
