package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/linectl/internal/logging"
	"github.com/danmuck/linectl/internal/session"
)

// clientConfig holds process tunables. None of it changes the stdin or wire
// protocol; the endpoint always comes from the two startup lines.
type clientConfig struct {
	BufferSize  int
	QuitToken   string
	LogLevel    string
	MetricsAddr string
}

type fileConfig struct {
	BufferSize  int    `toml:"buffer_size"`
	QuitToken   string `toml:"quit_token"`
	LogLevel    string `toml:"log_level"`
	MetricsAddr string `toml:"metrics_addr"`
}

func defaultClientConfig() clientConfig {
	return clientConfig{
		BufferSize: session.DefaultBufferSize,
		QuitToken:  session.DefaultQuitToken,
	}
}

// loadClientConfig returns defaults for an empty path.
func loadClientConfig(path string) (clientConfig, error) {
	cfg := defaultClientConfig()
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return clientConfig{}, fmt.Errorf("load linectl config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return clientConfig{}, fmt.Errorf("load linectl config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("buffer_size") {
		if raw.BufferSize <= 0 {
			return clientConfig{}, fmt.Errorf("parse buffer_size: must be positive, got %d", raw.BufferSize)
		}
		cfg.BufferSize = raw.BufferSize
	}

	if meta.IsDefined("quit_token") {
		token := strings.TrimSpace(raw.QuitToken)
		if token == "" {
			return clientConfig{}, errors.New("parse quit_token: must not be blank")
		}
		cfg.QuitToken = token
	}

	if meta.IsDefined("log_level") {
		level := strings.TrimSpace(raw.LogLevel)
		if _, ok := logging.ParseLevel(level); !ok {
			return clientConfig{}, fmt.Errorf("parse log_level: unknown level %q", level)
		}
		cfg.LogLevel = level
	}

	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	return cfg, nil
}

func (c clientConfig) sessionConfig(observer session.Observer) session.Config {
	cfg := session.DefaultConfig()
	cfg.BufferSize = c.BufferSize
	cfg.QuitToken = c.QuitToken
	if observer != nil {
		cfg.Observer = observer
	}
	return cfg
}
