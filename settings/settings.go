/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

// Package settings holds the agent's read-only configuration, loaded once
// at process start and never mutated afterwards.
package settings

import (
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Polling holds the settings.polling.* section.
type Polling struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// Storage holds the settings.storage.* section.
type Storage struct {
	ReadOnly bool `mapstructure:"read_only"`
}

// Update holds the settings.update.* section.
type Update struct {
	DownloadDir string `mapstructure:"download_dir"`
}

// Firmware holds the settings.firmware.* section.
type Firmware struct {
	MetadataPath string `mapstructure:"metadata_path"`
}

// Settings is the immutable, read-only-after-load agent configuration.
type Settings struct {
	Polling  Polling  `mapstructure:"polling"`
	Storage  Storage  `mapstructure:"storage"`
	Update   Update   `mapstructure:"update"`
	Firmware Firmware `mapstructure:"firmware"`
}

// Default returns the server-recommended defaults used when a setting is
// absent from the config file.
func Default() Settings {
	return Settings{
		Polling: Polling{
			Enabled:  true,
			Interval: 1 * time.Hour,
		},
		Update: Update{
			DownloadDir: "/var/cache/updateagent/downloads",
		},
		Firmware: Firmware{
			MetadataPath: "/usr/share/updateagent",
		},
	}
}

// Load reads path (any format viper supports: ini, json, yaml, toml) through
// fsBackend and decodes it over the defaults.
func Load(fsBackend afero.Fs, path string) (Settings, error) {
	s := Default()

	v := viper.New()
	v.SetFs(fsBackend)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Settings{}, err
	}

	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, err
	}

	return s, nil
}
