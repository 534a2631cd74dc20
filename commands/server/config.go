package server

import (
	"time"

	"github.com/arbee-network/arbee/errors"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the daemon settings. Values are read from the environment
// and may be overridden by command line flags.
type Config struct {
	Home     string `envconfig:"ARBEE_HOME"`
	Bind     string `envconfig:"ARBEE_BIND" default:"tcp://localhost:26658"`
	Debug    bool   `envconfig:"ARBEE_DEBUG" default:"false"`
	LogLevel string `envconfig:"ARBEE_LOG_LEVEL" default:"info"`

	// AMQPURI enables publishing of notifications when set.
	AMQPURI       string `envconfig:"ARBEE_AMQP_URI"`
	AMQPExchange  string `envconfig:"ARBEE_AMQP_EXCHANGE" default:"arbee_events"`
	AMQPKeyPrefix string `envconfig:"ARBEE_AMQP_KEY_PREFIX" default:"invoice"`
	AMQPQueueSize int    `envconfig:"ARBEE_AMQP_QUEUE_SIZE" default:"1024"`
	// AMQPDrainTimeout bounds how long shutdown waits for queued
	// notifications to be published.
	AMQPDrainTimeout time.Duration `envconfig:"ARBEE_AMQP_DRAIN_TIMEOUT" default:"5s"`
}

// LoadConfig reads the configuration from ARBEE_* environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if c.AMQPQueueSize <= 0 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "amqp queue size %d", c.AMQPQueueSize)
	}
	if c.AMQPDrainTimeout < 0 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "amqp drain timeout %s", c.AMQPDrainTimeout)
	}
	return &c, nil
}
