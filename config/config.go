package config

type Config struct {
	App     AppConfig     `envPrefix:"APP_"`
	API     APIConfig     `envPrefix:"API_"`
	Session SessionConfig `envPrefix:"SESSION_"`
	Redis   RedisConfig   `envPrefix:"REDIS_"`
	Report  ReportConfig  `envPrefix:"REPORT_"`
}
