package internal

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	// APIBaseURL is the REST base, e.g. http://localhost:8080/api. The
	// attachment file base is derived from it by stripping the API prefix.
	APIBaseURL string `env:"API_BASE_URL,required=true" validate:"required,url"`
	// ChannelURL is the websocket endpoint of the messaging channel.
	ChannelURL string `env:"CHANNEL_URL,required=true" validate:"required,url"`
	// SessionToken is supplied by the identity collaborator; this subsystem
	// never stores or refreshes it.
	SessionToken string `env:"SESSION_TOKEN,required=true" validate:"required"`

	LogLevel         string        `env:"LOG_LEVEL,required=true"`
	SearchDebounce   time.Duration `env:"SEARCH_DEBOUNCE,default=300ms"`
	TransitionBuffer int           `env:"TRANSITION_BUFFER,default=256" validate:"gte=1"`
}

// Validate applies the cross-field rules the env tags cannot express.
func (c Config) Validate() error {
	return validator.New().Struct(c)
}
