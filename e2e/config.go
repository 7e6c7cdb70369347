package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	APIBaseURL string `envconfig:"E2E_API_BASE_URL"`
	ChannelURL string `envconfig:"E2E_CHANNEL_URL"`
	// Two live accounts of the same organization, so the suite can exercise
	// both ends of a direct conversation.
	AliceToken string `envconfig:"E2E_ALICE_TOKEN"`
	BobToken   string `envconfig:"E2E_BOB_TOKEN"`
	// E2E_DEBUG enables verbose client logging during scenarios
	Debug bool `envconfig:"E2E_DEBUG" default:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
