package config

import (
	"time"
)

type AppConfig struct {
	LogLevel    string `json:"logLevel" mapstructure:"logLevel"`
	LogFormat   string `json:"logFormat" mapstructure:"logFormat"`
	Environment string `json:"environment" mapstructure:"environment"`

	PrometheusAddr     string `json:"prometheusAddr" mapstructure:"prometheusAddr"`
	PrometheusEndpoint string `json:"prometheusEndpoint" mapstructure:"prometheusEndpoint"`

	Api        *ApiConfig        `json:"api" mapstructure:"api"`
	Db         *DbConfig         `json:"db" mapstructure:"db"`
	Redis      *RedisConfig      `json:"redis" mapstructure:"redis"`
	Chain      *ChainConfig      `json:"chain" mapstructure:"chain"`
	Reconciler *ReconcilerConfig `json:"reconciler" mapstructure:"reconciler"`
	Webhook    *WebhookConfig    `json:"webhook" mapstructure:"webhook"`
	RateLimit  *RateLimitConfig  `json:"rateLimit" mapstructure:"rateLimit"`
}

// IsProduction reports whether the service runs with production failure
// semantics, e.g. the rate limiter failing closed without a shared store.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

type ApiConfig struct {
	Address       string `json:"address" mapstructure:"address"`
	CronAuthToken string `json:"cronAuthToken" mapstructure:"cronAuthToken"`
}

type DbConfig struct {
	Mode     string          `json:"mode" mapstructure:"mode"`
	Postgres *PostgresConfig `json:"postgres" mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host         string `json:"host" mapstructure:"host"`
	Port         int    `json:"port" mapstructure:"port"`
	Name         string `json:"name" mapstructure:"name"`
	User         string `json:"user" mapstructure:"user"`
	Password     string `json:"password" mapstructure:"password"`
	MaxIdleConns int    `json:"maxIdleConns" mapstructure:"maxIdleConns"`
	MaxOpenConns int    `json:"maxOpenConns" mapstructure:"maxOpenConns"`
	SslMode      string `json:"sslMode" mapstructure:"sslMode"`
}

type RedisConfig struct {
	Addr     string `json:"addr" mapstructure:"addr"`
	Password string `json:"password" mapstructure:"password"`
	Db       int    `json:"db" mapstructure:"db"`
}

type ChainConfig struct {
	RpcURL              string        `json:"rpcURL" mapstructure:"rpcURL"`
	ProgramID           string        `json:"programID" mapstructure:"programID"`
	AuthorityKey        string        `json:"authorityKey" mapstructure:"authorityKey"`
	ConfirmTimeout      time.Duration `json:"confirmTimeout" mapstructure:"confirmTimeout"`
	ConfirmPollInterval time.Duration `json:"confirmPollInterval" mapstructure:"confirmPollInterval"`
}

// HasAuthority reports whether a backend signing key is configured. Without
// one the reconciler skips all on-chain calls.
func (c *ChainConfig) HasAuthority() bool {
	return c != nil && c.AuthorityKey != ""
}

type ReconcilerConfig struct {
	AutoReleaseEnabled  bool          `json:"autoReleaseEnabled" mapstructure:"autoReleaseEnabled"`
	ReleaseDeadline     time.Duration `json:"releaseDeadline" mapstructure:"releaseDeadline"`
	ReleaseBatchSize    int           `json:"releaseBatchSize" mapstructure:"releaseBatchSize"`
	WithdrawalExpiry    time.Duration `json:"withdrawalExpiry" mapstructure:"withdrawalExpiry"`
	WithdrawalBatchSize int           `json:"withdrawalBatchSize" mapstructure:"withdrawalBatchSize"`
	StaleClaimAge       time.Duration `json:"staleClaimAge" mapstructure:"staleClaimAge"`
	LockTTL             time.Duration `json:"lockTTL" mapstructure:"lockTTL"`
}

type WebhookConfig struct {
	MaxAttempts       int           `json:"maxAttempts" mapstructure:"maxAttempts"`
	Timeout           time.Duration `json:"timeout" mapstructure:"timeout"`
	RetryBaseDelay    time.Duration `json:"retryBaseDelay" mapstructure:"retryBaseDelay"`
	RetryMaxDelay     time.Duration `json:"retryMaxDelay" mapstructure:"retryMaxDelay"`
	DispatchBatchSize int           `json:"dispatchBatchSize" mapstructure:"dispatchBatchSize"`
	DispatchInterval  time.Duration `json:"dispatchInterval" mapstructure:"dispatchInterval"`
	SecretKey         string        `json:"secretKey" mapstructure:"secretKey"`
}

type RateLimitConfig struct {
	Window  time.Duration  `json:"window" mapstructure:"window"`
	Presets map[string]int `json:"presets" mapstructure:"presets"`
}
