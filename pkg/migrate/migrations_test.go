package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/angelmondragon/storefront-checkout/pkg/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
	require.NoError(t, migrate.ValidateEmbedded())
}

func TestCheckoutTablesMigrationsContainSchemas(t *testing.T) {
	cases := map[string][]string{
		"*_create_products_table.sql": {
			"CREATE TABLE IF NOT EXISTS products",
			"price NUMERIC(12,2)",
			"CREATE INDEX IF NOT EXISTS idx_products_is_active",
		},
		"*_create_addresses_table.sql": {
			"CREATE TABLE IF NOT EXISTS addresses",
			"user_id TEXT NOT NULL",
			"CREATE INDEX IF NOT EXISTS idx_addresses_user_created",
		},
		"*_create_shipping_settings_table.sql": {
			"CREATE TABLE IF NOT EXISTS shipping_settings",
			"free_shipping_threshold",
			"estimated_days TEXT NOT NULL DEFAULT '2-5'",
		},
	}

	for pattern, checks := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		require.NoError(t, err)
		require.Len(t, matches, 1, pattern)

		data, err := os.ReadFile(matches[0])
		require.NoError(t, err)
		content := string(data)
		for _, sub := range checks {
			assert.Contains(t, content, sub, "%s missing %q", pattern, sub)
		}
	}
}

func TestMigrationsApplyOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	migrator := migrate.New(sqlDB, migrate.DialectSQLite)
	require.NoError(t, migrator.Up(ctx))
	version, err := migrator.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20260105090200), version)

	var estimated string
	require.NoError(t, sqlDB.QueryRowContext(ctx, "SELECT estimated_days FROM shipping_settings WHERE id = 1").Scan(&estimated))
	assert.Equal(t, "2-5", estimated)

	_, err = sqlDB.ExecContext(ctx, "INSERT INTO products (id, name, price) VALUES ('p1', 'Widget', 10)")
	require.NoError(t, err)

	require.NoError(t, migrator.To(ctx, "20260105090000"))
	_, err = sqlDB.ExecContext(ctx, "SELECT 1 FROM addresses")
	assert.Error(t, err, "addresses table should be rolled back")
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, migrate.DialectSQLite, migrate.DialectFor(config.DBConfig{Driver: "SQLite"}))
	assert.Equal(t, migrate.DialectPostgres, migrate.DialectFor(config.DBConfig{Driver: "postgres"}))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Coupons!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_coupons.sql"), path)
	require.NoError(t, migrate.ValidateDir(dir))

	again, err := migrate.CreateSQLMigration(dir, "add coupons")
	require.NoError(t, err)
	assert.NotEqual(t, path, again, "same-second migrations get distinct versions")
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestValidateRejectsDownBeforeUp(t *testing.T) {
	dir := t.TempDir()
	body := "-- +goose Down\nDROP TABLE x;\n-- +goose Up\nCREATE TABLE x (id int);\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_x.sql"), []byte(body), 0o644))
	assert.ErrorContains(t, migrate.ValidateDir(dir), "Down before Up")
}

func TestMigrateToRejectsMalformedVersion(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.Error(t, migrate.New(sqlDB, migrate.DialectSQLite).To(context.Background(), "latest"))
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, migrate.ValidateDir(dir))
}
