package config

const (
	SessionStoreRedis  = "redis"
	SessionStoreFile   = "file"
	SessionStoreMemory = "memory"
)

type SessionConfig struct {
	Store     string `env:"STORE" envDefault:"file"`
	FilePath  string `env:"FILE_PATH" envDefault:".session.json"`
	Namespace string `env:"NAMESPACE" envDefault:"default"`
}
