// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/units"

	"github.com/ava-labs/calcvm/pebble"
	"github.com/ava-labs/calcvm/trace"
)

const defaultMaxAccountSpace = 10 * units.KiB

type Config struct {
	// Logging
	LogLevel        logging.Level `json:"logLevel"`
	LogDisplayLevel logging.Level `json:"logDisplayLevel"`

	// Runtime
	MaxAccountSpace int `json:"maxAccountSpace"`

	// Storage
	Database pebble.Config `json:"database"`

	// Tracing
	Trace trace.Config `json:"trace"`
}

func New(b []byte) (*Config, error) {
	c := &Config{
		LogLevel:        logging.Info,
		LogDisplayLevel: logging.Info,
		MaxAccountSpace: defaultMaxAccountSpace,
		Database:        pebble.NewDefaultConfig(),
		Trace:           trace.Config{Enabled: false},
	}

	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, err
		}
	}
	if c.MaxAccountSpace <= 0 {
		return nil, fmt.Errorf("%w: maxAccountSpace must be positive but got %d", ErrInvalidConfig, c.MaxAccountSpace)
	}
	return c, nil
}

// Load reads the config at [path]. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return New(nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(b)
}
