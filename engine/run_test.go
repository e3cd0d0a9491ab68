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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OSSystems/updateagent/client/testserver"
)

func TestRunExitsWhenPollingDisabled(t *testing.T) {
	ctx := newTestContext(t, "")
	ctx.Settings.Polling.Enabled = false

	done := make(chan error, 1)
	go func() { done <- Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not park within the timeout")
	}
}

// forceIdle is a pure function of the in-flight state, so its branch for
// every concrete state is tested directly rather than through Run, whose
// only exit is Park and which otherwise loops for the life of the process.
func TestForceIdlePreservesAppliedPackageUIDExceptMidInstall(t *testing.T) {
	ctx := newTestContext(t, "")
	uid := "applied-uid"
	pkg := downloadTestPackage(t)

	cases := []struct {
		name       string
		state      State
		wantUID    *string
	}{
		{"idle", NewIdle(ctx, &uid), &uid},
		{"poll", NewPoll(ctx, &uid), &uid},
		{"probe", NewProbe(ctx, &uid), &uid},
		{"reboot", NewReboot(ctx, &uid), &uid},
		{"download", NewDownload(ctx, pkg), nil},
		{"install", NewInstall(ctx, pkg), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := forceIdle(tc.state)
			assert.Equal(t, KindIdle, next.Kind())

			idle, ok := next.(*Idle)
			require.True(t, ok)
			if tc.wantUID == nil {
				assert.Nil(t, idle.AppliedPackageUID)
			} else {
				require.NotNil(t, idle.AppliedPackageUID)
				assert.Equal(t, *tc.wantUID, *idle.AppliedPackageUID)
			}
		})
	}
}

// TestFullUpdateCycleEndToEnd walks Idle through Poll, Probe, Download and
// Install up to Reboot by calling Handle directly, the same sequence Run
// drives, without Run's unbounded polling loop. Reboot itself is not
// handled, so no reboot command is run.
func TestFullUpdateCycleEndToEnd(t *testing.T) {
	srv := testserver.New(testserver.HasUpdate)
	defer srv.Close()

	ctx := newTestContext(t, srv.URL)
	past := time.Now().Add(-1 * time.Hour)
	ctx.RuntimeSettings.Polling.Last = &past

	var current State = NewIdle(ctx, nil)
	var kinds []Kind

	for i := 0; i < 10; i++ {
		kinds = append(kinds, current.Kind())
		if current.Kind() == KindReboot {
			break
		}
		next, err := current.Handle()
		require.NoError(t, err)
		current = next
	}

	assert.Equal(t, []Kind{KindIdle, KindPoll, KindProbe, KindDownload, KindInstall, KindReboot}, kinds)

	reboot, ok := current.(*Reboot)
	require.True(t, ok)
	require.NotNil(t, reboot.AppliedPackageUID)

	content, err := afero.ReadFile(ctx.FS, "/dev/fake")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", string(content))

	assert.True(t, ctx.RuntimeSettings.Polling.Now)
}
