/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

package updatepackage

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OSSystems/updateagent/firmware"
)

const samplePackage = `{
	"product-uid": "229ffd7e08721d716163fc81a2dbaf6c90d449f0a3b009b6a2defe8a0b0d7381",
	"supported-hardware": ["board-x"],
	"objects": [
		{"sha256sum": "c775e7b757ede630cd0aa1113bd102661ab38829ca52a6422ab782862f268646", "size": 10, "mode": "raw", "target": "/dev/mmcblk0p1"}
	]
}`

func TestNewAndPackageUID(t *testing.T) {
	pkg, err := New([]byte(samplePackage))
	require.NoError(t, err)

	assert.Len(t, pkg.Objects(), 1)
	assert.NotEmpty(t, pkg.PackageUID())

	pkg2, err := New([]byte(samplePackage))
	require.NoError(t, err)
	assert.Equal(t, pkg.PackageUID(), pkg2.PackageUID(), "same bytes must yield the same package uid")
}

func TestCompatibleWith(t *testing.T) {
	pkg, err := New([]byte(samplePackage))
	require.NoError(t, err)

	assert.NoError(t, pkg.CompatibleWith(firmware.Metadata{Hardware: "board-x"}))
	assert.Error(t, pkg.CompatibleWith(firmware.Metadata{Hardware: "board-y"}))
}

func TestCompatibleWithAny(t *testing.T) {
	pkg, err := New([]byte(`{"product-uid": "p", "supported-hardware": "any", "objects": []}`))
	require.NoError(t, err)

	assert.NoError(t, pkg.CompatibleWith(firmware.Metadata{Hardware: "anything"}))
}

func TestObjectStatus(t *testing.T) {
	fs := afero.NewMemMapFs()
	pkg, err := New([]byte(samplePackage))
	require.NoError(t, err)

	obj := pkg.Objects()[0]

	status, err := obj.Status(fs, "/downloads")
	require.NoError(t, err)
	assert.Equal(t, StatusMissing, status)

	require.NoError(t, afero.WriteFile(fs, "/downloads/"+obj.Sha256sum, []byte("123"), 0644))
	status, err = obj.Status(fs, "/downloads")
	require.NoError(t, err)
	assert.Equal(t, StatusIncomplete, status)

	require.NoError(t, afero.WriteFile(fs, "/downloads/"+obj.Sha256sum, []byte("wrong-data"), 0644))
	status, err = obj.Status(fs, "/downloads")
	require.NoError(t, err)
	assert.Equal(t, StatusCorrupted, status)

	require.NoError(t, afero.WriteFile(fs, "/downloads/"+obj.Sha256sum, []byte("1234567890"), 0644))
	status, err = obj.Status(fs, "/downloads")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, status)
}

func TestFilterObjectsAndAllReady(t *testing.T) {
	fs := afero.NewMemMapFs()
	pkg, err := New([]byte(samplePackage))
	require.NoError(t, err)

	ready, err := pkg.AllReady(fs, "/downloads")
	require.NoError(t, err)
	assert.False(t, ready)

	missing, err := pkg.FilterObjects(fs, "/downloads", StatusMissing)
	require.NoError(t, err)
	assert.Len(t, missing, 1)

	require.NoError(t, afero.WriteFile(fs, "/downloads/"+pkg.Objects()[0].Sha256sum, []byte("1234567890"), 0644))

	ready, err = pkg.AllReady(fs, "/downloads")
	require.NoError(t, err)
	assert.True(t, ready)
}
