// Package config はアプリケーション設定を管理します。
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	// データディレクトリのパス
	DataDir string `env:"HIBI_DATA_DIR" envDefault:"./data"`

	// PostgreSQLの接続URL（空ならSQLiteを使用）
	DatabaseURL string `env:"HIBI_DATABASE_URL"`

	// HTTPサーバーのポート
	Port string `env:"HIBI_SERVER_PORT" envDefault:"8080"`

	// API認証キー
	APIKey string `env:"HIBI_API_KEY,required,notEmpty"`

	// 「今日」の判定と日時の正規化に使うタイムゾーン
	Timezone string `env:"HIBI_TIMEZONE" envDefault:"UTC"`

	// CORSで許可するオリジン
	AllowedOrigin string `env:"HIBI_ALLOWED_ORIGIN" envDefault:"*"`

	// ログレベル（debug, info, warn, error）
	LogLevel string `env:"HIBI_LOG_LEVEL" envDefault:"info"`

	// ログファイルのパス（空なら標準エラー出力のみ）
	LogFile string `env:"HIBI_LOG_FILE"`

	location *time.Location
}

// NewConfig は環境変数から設定を読み込み、Configインスタンスを生成します。
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid HIBI_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	return cfg, nil
}

// Location は設定されたタイムゾーンを返します。未設定の場合はUTCです。
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// WithLocation はタイムゾーンを差し替えた設定を返します。
func (c *Config) WithLocation(loc *time.Location) *Config {
	cp := *c
	cp.location = loc
	if loc != nil {
		cp.Timezone = loc.String()
	}
	return &cp
}

// Addr はHTTPサーバーの待ち受けアドレスを返します。
func (c *Config) Addr() string {
	return ":" + c.Port
}
