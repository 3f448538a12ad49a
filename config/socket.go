package config

import (
	"os"
	"strconv"
)

// ServerConfig holds the web server configuration. One process serves both
// the HTTP API and the WebSocket endpoint on the same port.
type ServerConfig struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	ReadBufferSize  int    `json:"read_buffer_size"`
	WriteBufferSize int    `json:"write_buffer_size"`
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Host:            "localhost",
		Port:            3080,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// FromEnv loads the server configuration from environment variables, falling
// back to defaults for any missing values.
func FromEnv() *ServerConfig {
	cfg := DefaultConfig()

	if host := os.Getenv("CARDINAL_HOST"); host != "" {
		cfg.Host = host
	}
	if portStr := os.Getenv("CARDINAL_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Port = port
		}
	}
	return cfg
}

// Addr returns the host:port address the server listens on.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
