package main

import (
	"time"

	"github.com/dmitrymomot/thicket/core/router"
	"github.com/dmitrymomot/thicket/core/server"
)

type Config struct {
	AppName     string        `env:"APP_NAME" envDefault:"thicket"`
	Environment string        `env:"APP_ENV" envDefault:"development"`
	SlowRequest time.Duration `env:"APP_SLOW_REQUEST" envDefault:"500ms"`
	MaxBodySize int64         `env:"APP_MAX_BODY_SIZE" envDefault:"1048576"`
	LogFile     string        `env:"APP_LOG_FILE"`

	Tracing TracingConfig

	Router router.Config
	Server server.Config
}

type TracingConfig struct {
	Stdout      bool    `env:"TRACE_STDOUT" envDefault:"false"`
	PrettyPrint bool    `env:"TRACE_PRETTY_PRINT" envDefault:"false"`
	SampleRate  float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1"`
}
