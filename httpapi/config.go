package httpapi

import "time"

// Config defines HTTP API settings.
type Config struct {
	Addr            string
	BaseURL         string
	BasePath        string
	ShutdownTimeout time.Duration
}

const defaultShutdownTimeout = 5 * time.Second
