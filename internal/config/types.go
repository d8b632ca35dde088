package config

import (
	"fmt"
	"time"
)

type Config struct {
	Source   SourceConfig `json:"source" validate:"required"`
	Database Database     `json:"database" validate:"required"`
	Redis    RedisConfig  `json:"redis"`
	R2       R2Config     `json:"r2" validate:"required"`
	Sentry   SentryConfig `json:"sentry"`
}

// SourceConfig controls one ingestion run.
type SourceConfig struct {
	Dir        string        `json:"dir"`
	Mode       string        `json:"mode" validate:"omitempty,oneof=occasion product random"`
	BatchSize  int           `json:"batch_size" validate:"gte=0,lte=64"`
	BatchDelay time.Duration `json:"batch_delay"`
	DryRun     bool          `json:"dry_run"`

	// AutoCreateProducts lets the direct matcher create a stub product
	// when the filename references an unknown ID (product mode only).
	AutoCreateProducts bool  `json:"auto_create_products"`
	StubPriceCents     int64 `json:"stub_price_cents" validate:"gte=0"`
}

type Database struct {
	DSN string `json:"dsn" validate:"required"`
}

type RedisConfig struct {
	Password            string        `json:"password"`
	DatabaseID          int           `json:"database_id"`
	HealthCheckInterval time.Duration `json:"health_check_interval"`
	DialTimeout         time.Duration `json:"dial_timeout"`
	ReadTimeout         time.Duration `json:"read_timeout"`
	WriteTimeout        time.Duration `json:"write_timeout"`
	PoolSize            int           `json:"pool_size"`
	Nodes               []RedisNode   `json:"nodes"`
}

type RedisNode struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (n RedisNode) Addr() string { return fmt.Sprintf("%s:%d", n.Host, n.Port) }

type R2Config struct {
	AccountID     string `json:"account_id" validate:"required"`
	BucketName    string `json:"bucket_name" validate:"required"`
	AccessKeyID   string `json:"access_key_id" validate:"required"`
	SecretKey     string `json:"secret_key" validate:"required"`
	PublicBaseURL string `json:"public_base_url" validate:"required,url"`
}

type SentryConfig struct {
	SentryDSN   string `json:"sentry_dsn"`
	Environment string `json:"environment"`
}
