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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OSSystems/updateagent/client/testserver"
)

func TestProbeNoUpdate(t *testing.T) {
	srv := testserver.New(testserver.NoUpdate)
	defer srv.Close()

	ctx := newTestContext(t, srv.URL)

	next, err := NewProbe(ctx, nil).Handle()
	require.NoError(t, err)
	assert.Equal(t, KindIdle, next.Kind())
	assert.Equal(t, 0, ctx.RuntimeSettings.Polling.Retries)
}

func TestProbeUpdateAvailable(t *testing.T) {
	srv := testserver.New(testserver.HasUpdate)
	defer srv.Close()

	ctx := newTestContext(t, srv.URL)

	next, err := NewProbe(ctx, nil).Handle()
	require.NoError(t, err)
	assert.Equal(t, KindDownload, next.Kind())
}

func TestProbeIncompatibleHardwareIsFatal(t *testing.T) {
	srv := testserver.New(testserver.InvalidHardware)
	defer srv.Close()

	ctx := newTestContext(t, srv.URL)

	_, err := NewProbe(ctx, nil).Handle()
	assert.Error(t, err, "hardware incompatibility must be fatal to the cycle")
}

func TestProbeExtraPollInterval(t *testing.T) {
	srv := testserver.New(testserver.ExtraPoll)
	defer srv.Close()

	ctx := newTestContext(t, srv.URL)

	next, err := NewProbe(ctx, nil).Handle()
	require.NoError(t, err)
	assert.Equal(t, KindPoll, next.Kind())
	require.NotNil(t, ctx.RuntimeSettings.Polling.ExtraInterval)
	assert.Equal(t, int64(300), int64(ctx.RuntimeSettings.Polling.ExtraInterval.Seconds()))
}

func TestProbeSkipsAppliedPackage(t *testing.T) {
	srv := testserver.New(testserver.HasUpdate)
	defer srv.Close()

	ctx := newTestContext(t, srv.URL)
	api := ctx.NewAPI()
	resp, err := api.Probe()
	require.NoError(t, err)
	require.Equal(t, 1, len(resp.Package.Objects()))
	appliedUID := resp.Package.PackageUID()

	next, err := NewProbe(ctx, &appliedUID).Handle()
	require.NoError(t, err)
	assert.Equal(t, KindIdle, next.Kind(), "server re-advertising the applied package must not trigger a download")
}

func TestProbeRetriesOnTransientError(t *testing.T) {
	srv := testserver.New(testserver.ErrorOnce)
	defer srv.Close()

	ctx := newTestContext(t, srv.URL)

	next, err := NewProbe(ctx, nil).Handle()
	require.NoError(t, err)
	assert.Equal(t, KindIdle, next.Kind())
	assert.Equal(t, 0, ctx.RuntimeSettings.Polling.Retries, "a successful retry resets the counter")
}

func TestProbeReadOnlyDoesNotPersist(t *testing.T) {
	srv := testserver.New(testserver.NoUpdate)
	defer srv.Close()

	ctx := newTestContext(t, srv.URL)
	ctx.Settings.Storage.ReadOnly = true

	_, err := NewProbe(ctx, nil).Handle()
	require.NoError(t, err)

	exists, err := existsFile(ctx, "/runtime-settings")
	require.NoError(t, err)
	assert.False(t, exists, "read-only deployments must never write the runtime settings file")
}
