package envconfig

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// Parse loads the given dotenv files (".env" when none are given) and then
// fills cfg from the process environment.
func Parse[T any](cfg *T, filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		log.Warnf("unable to load configuration: %+v", err)
	}

	return env.Parse(cfg)
}
