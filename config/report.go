package config

import "time"

// ReportConfig resolves links to the externally hosted report files.
type ReportConfig struct {
	BaseURL          string        `env:"BASE_URL"`
	GoogleCredential string        `env:"GOOGLE_CREDENTIAL"`
	Storage          StorageConfig `envPrefix:"STORAGE_"`
}

type StorageConfig struct {
	BucketName  string        `env:"BUCKET_NAME"`
	ExpiredTime time.Duration `env:"EXPIRED_TIME" envDefault:"15m"`
}
