/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

// Package runtimesettings implements the small persisted key/value file
// that survives agent restarts: the last successful probe time, the
// "probe as soon as possible" flag, any server-requested extra interval
// and the contiguous probe-failure counter.
package runtimesettings

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/OSSystems/updateagent/internal/log"
)

// Polling is the polling.* section of the runtime-settings file.
type Polling struct {
	Last          *time.Time
	Now           bool
	ExtraInterval *time.Duration
	Retries       int
}

// RuntimeSettings is the mutable state persisted across restarts.
type RuntimeSettings struct {
	Polling Polling

	fsBackend afero.Fs
	path      string
}

// New returns an empty RuntimeSettings bound to path, not yet loaded.
func New(fsBackend afero.Fs, path string) *RuntimeSettings {
	return &RuntimeSettings{fsBackend: fsBackend, path: path}
}

// Load reads rs.path if it exists; a missing file is not an error (a fresh
// device has never polled before).
func (rs *RuntimeSettings) Load() error {
	f, err := rs.fsBackend.Open(rs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key, value := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if err := rs.setField(key, value); err != nil {
			return fmt.Errorf("parsing runtime settings key %q: %w", key, err)
		}
	}

	return scanner.Err()
}

func (rs *RuntimeSettings) setField(key, value string) error {
	switch key {
	case "polling.last":
		if value == "" {
			return nil
		}
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return err
		}
		rs.Polling.Last = &t
	case "polling.now":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		rs.Polling.Now = b
	case "polling.extra_interval":
		if value == "" {
			return nil
		}
		seconds, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		d := time.Duration(seconds) * time.Second
		rs.Polling.ExtraInterval = &d
	case "polling.retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		rs.Polling.Retries = n
	}

	return nil
}

// Save atomically replaces the runtime-settings file with the current
// in-memory state (write to a temp file, then rename over the target).
func (rs *RuntimeSettings) Save() error {
	tmpPath := rs.path + ".tmp"

	f, err := rs.fsBackend.Create(tmpPath)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "polling.last=%s\n", formatTime(rs.Polling.Last))
	fmt.Fprintf(w, "polling.now=%t\n", rs.Polling.Now)
	fmt.Fprintf(w, "polling.extra_interval=%s\n", formatDurationSeconds(rs.Polling.ExtraInterval))
	fmt.Fprintf(w, "polling.retries=%d\n", rs.Polling.Retries)

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if err := rs.fsBackend.Rename(tmpPath, rs.path); err != nil {
		return err
	}

	log.Debug("runtime settings saved")
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatDurationSeconds(d *time.Duration) string {
	if d == nil {
		return ""
	}
	return strconv.FormatInt(int64(*d/time.Second), 10)
}

