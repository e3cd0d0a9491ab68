/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

package engine

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withFakeReboot puts a script named "reboot" at the front of PATH so the
// Reboot state's "sh -c reboot" call succeeds under test without touching
// the real machine.
func withFakeReboot(t *testing.T, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake reboot script requires a POSIX shell")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "reboot")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"+body), 0755))

	original := os.Getenv("PATH")
	t.Setenv("PATH", dir+string(os.PathListSeparator)+original)
}

func TestRebootReturnsToIdle(t *testing.T) {
	withFakeReboot(t, "echo rebooting-now\n")

	ctx := newTestContext(t, "")
	uid := "package-uid-xyz"

	next, err := NewReboot(ctx, &uid).Handle()
	require.NoError(t, err)
	assert.Equal(t, KindIdle, next.Kind())

	idle, ok := next.(*Idle)
	require.True(t, ok)
	require.NotNil(t, idle.AppliedPackageUID)
	assert.Equal(t, uid, *idle.AppliedPackageUID)
}

func TestRebootFailureIsPropagated(t *testing.T) {
	withFakeReboot(t, "exit 1\n")

	ctx := newTestContext(t, "")

	_, err := NewReboot(ctx, nil).Handle()
	assert.Error(t, err)
}
