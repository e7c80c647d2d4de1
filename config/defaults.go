package config

import "time"

func getDefaultAppConfig() *AppConfig {
	return &AppConfig{
		LogLevel:           "INFO",
		LogFormat:          "text",
		Environment:        "development",
		PrometheusEndpoint: "/metrics",
		Api: &ApiConfig{
			Address: "localhost:8040",
		},
		Db: &DbConfig{
			Mode: "postgres",
			Postgres: &PostgresConfig{
				Host:         "localhost",
				Port:         5432,
				Name:         "settler",
				User:         "settler",
				Password:     "settler",
				MaxIdleConns: 10,
				MaxOpenConns: 80,
				SslMode:      "disable",
			},
		},
		Redis: &RedisConfig{
			Addr: "",
		},
		Chain: &ChainConfig{
			RpcURL:              "http://localhost:8899",
			ConfirmTimeout:      60 * time.Second,
			ConfirmPollInterval: 2 * time.Second,
		},
		Reconciler: &ReconcilerConfig{
			AutoReleaseEnabled:  true,
			ReleaseDeadline:     7 * 24 * time.Hour,
			ReleaseBatchSize:    100,
			WithdrawalExpiry:    time.Hour,
			WithdrawalBatchSize: 10,
			StaleClaimAge:       2 * time.Hour,
			LockTTL:             15 * time.Minute,
		},
		Webhook: &WebhookConfig{
			MaxAttempts:       5,
			Timeout:           10 * time.Second,
			RetryBaseDelay:    time.Minute,
			RetryMaxDelay:     time.Hour,
			DispatchBatchSize: 50,
			DispatchInterval:  10 * time.Second,
		},
		RateLimit: &RateLimitConfig{
			Window: time.Minute,
			Presets: map[string]int{
				"auth":   10,
				"write":  30,
				"search": 60,
				"read":   120,
				"static": 300,
			},
		},
	}
}
