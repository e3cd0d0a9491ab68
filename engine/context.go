/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

// Package engine implements the update lifecycle state machine: the single
// piece of this agent that decides when to probe, download, install and
// reboot. It is single-threaded and cooperative — each state runs to
// completion and hands the (moved, never shared) context to the next one.
package engine

import (
	"github.com/spf13/afero"

	"github.com/OSSystems/updateagent/activeinactive"
	"github.com/OSSystems/updateagent/client"
	"github.com/OSSystems/updateagent/firmware"
	"github.com/OSSystems/updateagent/installifdifferent"
	"github.com/OSSystems/updateagent/runtimesettings"
	"github.com/OSSystems/updateagent/settings"
)

// Context is the shared, move-only state threaded from state to state. A
// state object exclusively owns it until Handle returns; nothing ever
// holds two live references to the same Context.
type Context struct {
	Settings        settings.Settings
	RuntimeSettings *runtimesettings.RuntimeSettings
	Firmware        firmware.Metadata

	FS      afero.Fs
	BaseURL string

	ActiveInactive     activeinactive.Backend
	InstallIfDifferent installifdifferent.Backend

	// ShutdownC, when non-nil, interrupts Poll's sleep and Probe's
	// retry delay so the process can exit promptly. The core never reads
	// it as a cancellation signal for a transition — only as a wake-up.
	ShutdownC <-chan struct{}
}

// NewAPI builds the HTTP collaborator for this context.
func (c *Context) NewAPI() *client.Api {
	return client.New(c.BaseURL, c.Firmware, c.FS, c.Settings.Update.DownloadDir)
}

// Save persists RuntimeSettings unless the deployment is read-only,
// matching spec §3's "runtime_settings is persisted whenever it is
// mutated in a non-read-only deployment" invariant.
func (c *Context) Save() error {
	if c.Settings.Storage.ReadOnly {
		return nil
	}
	return c.RuntimeSettings.Save()
}
