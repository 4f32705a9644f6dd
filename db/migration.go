// Package db はスキーマのマイグレーションとsqlcで生成されたクエリを提供します。
package db

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed schema/sqlite/*.sql schema/postgres/*.sql
var embedMigrations embed.FS

// Migrate はSQLiteデータベースに対してマイグレーションを実行します。
func Migrate(conn *sql.DB) error {
	// 外部キー制約を有効化
	_, err := conn.Exec(`PRAGMA foreign_keys = ON;`)
	if err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return up(conn, "sqlite3", "schema/sqlite")
}

// MigratePostgres はPostgreSQLデータベースに対してマイグレーションを実行します。
func MigratePostgres(conn *sql.DB) error {
	return up(conn, "postgres", "schema/postgres")
}

func up(conn *sql.DB, dialect, dir string) error {
	// goose の設定
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	// マイグレーションを実行
	if err := goose.Up(conn, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
