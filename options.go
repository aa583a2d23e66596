// Copyright (c) 2026, The Dockwin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dockwin

import (
	"os"

	"github.com/dockwin/dockwin/base/errors"
	"github.com/pelletier/go-toml/v2"
)

// OpenConfig reads a [Config] from the given TOML file. Fields absent
// from the file keep their defaults; a missing file returns the
// defaults with no error.
func OpenConfig(file string) (*Config, error) {
	cf := &Config{}
	cf.defaults()
	b, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return cf, nil
		}
		return nil, errors.Wrap(err, "dockwin: read config")
	}
	if err := toml.Unmarshal(b, cf); err != nil {
		return nil, errors.Wrap(err, "dockwin: parse config")
	}
	if cf.MaxRetries <= 0 {
		cf.MaxRetries = 3
	}
	return cf, nil
}

// SaveConfig writes the config to the given TOML file.
func SaveConfig(cf *Config, file string) error {
	b, err := toml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "dockwin: marshal config")
	}
	return errors.Wrap(os.WriteFile(file, b, 0666), "dockwin: write config")
}
