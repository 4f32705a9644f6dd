// Package main はアプリケーションのエントリーポイントを提供します。
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	_ "time/tzdata"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/stsysd/hibi/api"
	"github.com/stsysd/hibi/config"
	"github.com/stsysd/hibi/logger"
	"github.com/stsysd/hibi/store"
)

var CLI struct {
	Version kong.VersionFlag
	EnvFile string `help:"Path to a .env file loaded before reading HIBI_* variables." type:"path" default:".env"`

	Serve   ServeCmd   `cmd:"" help:"Start the HTTP API server." default:"1"`
	Migrate MigrateCmd `cmd:"" help:"Apply database migrations and exit."`
}

// ServeCmd はAPIサーバーを起動します。
type ServeCmd struct{}

func (c *ServeCmd) Run(cfg *config.Config) error {
	// ストアの初期化（マイグレーションもここで行われる）
	s, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	// サーバーインスタンスの作成
	server := api.NewServer(s, cfg)

	// サーバーの起動
	return server.Run(cfg.Addr())
}

// MigrateCmd はマイグレーションのみを実行します。
type MigrateCmd struct{}

func (c *MigrateCmd) Run(cfg *config.Config) error {
	s, err := store.Open(cfg)
	if err != nil {
		return err
	}
	logger.Info("Migration completed")
	return s.Close()
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("hibi"),
		kong.Description("Habit tracker API with streaks and yearly heatmaps"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	// .envが無い場合は環境変数のみを使う
	if err := godotenv.Load(CLI.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: failed to load %s: %v\n", CLI.EnvFile, err)
		os.Exit(1)
	}

	// 設定の読み込み
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := ctx.Run(cfg); err != nil {
		logger.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
