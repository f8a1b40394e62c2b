package internal

import "time"

type Config struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,required=true"`

	BufferSize      int           `env:"BUFFER_SIZE,required=true"`
	SinkTimeout     time.Duration `env:"SINK_TIMEOUT,required=true"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,required=true"`

	// MessageLimit caps the recent-messages read path; nil keeps the
	// service default.
	MessageLimit *int `env:"MESSAGE_LIMIT"`

	PresenceSweepInterval time.Duration `env:"PRESENCE_SWEEP_INTERVAL,required=true"`
	PresenceStaleAfter    time.Duration `env:"PRESENCE_STALE_AFTER,required=true"`

	DebugPort int `env:"DEBUG_PORT"`
}
