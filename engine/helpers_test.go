/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

package engine

import (
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/OSSystems/updateagent/activeinactive"
	"github.com/OSSystems/updateagent/firmware"
	"github.com/OSSystems/updateagent/installifdifferent"
	"github.com/OSSystems/updateagent/runtimesettings"
	"github.com/OSSystems/updateagent/settings"
)

func existsFile(ctx Context, path string) (bool, error) {
	return afero.Exists(ctx.FS, path)
}

func newTestContext(t *testing.T, baseURL string) Context {
	t.Helper()

	fs := afero.NewMemMapFs()

	s := settings.Default()
	s.Polling.Interval = 1 * time.Second
	s.Update.DownloadDir = "/downloads"
	s.Firmware.MetadataPath = "/metadata"

	return Context{
		Settings:        s,
		RuntimeSettings: runtimesettings.New(fs, "/runtime-settings"),
		Firmware: firmware.Metadata{
			ProductUID: "229ffd7e08721d716163fc81a2dbaf6c90d449f0a3b009b6a2defe8a0b0d7381",
			Hardware:   "board-x",
			Version:    "0.9.0",
		},
		FS:                 fs,
		BaseURL:            baseURL,
		ActiveInactive:     activeinactive.NoopBackend{},
		InstallIfDifferent: installifdifferent.AlwaysProceed{},
	}
}
