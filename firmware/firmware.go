/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

// Package firmware discovers device identity (product UID, hardware
// identifier, running firmware version) by executing the metadata hooks
// found under settings.firmware.metadata_path.
package firmware

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/OSSystems/updateagent/internal/log"
)

// Metadata is the device identity used to talk to the update server and to
// test package/hardware compatibility.
type Metadata struct {
	ProductUID string
	Hardware   string
	Version    string

	// DeviceIdentity holds every key=value pair emitted by the
	// device-identity hooks, used verbatim by the update server request.
	DeviceIdentity map[string]string
}

// Load runs the metadata hooks under metadataPath and assembles a Metadata.
//
// Expected layout, mirroring the reference agent:
//
//	<metadataPath>/product-uid            (executable script)
//	<metadataPath>/version                (executable script)
//	<metadataPath>/hardware-identity.d/*   (scripts, last non-empty line wins)
//	<metadataPath>/device-identity.d/*     (scripts, each emits key=value lines)
func Load(fsBackend afero.Fs, metadataPath string) (Metadata, error) {
	productUID, err := runHook(fsBackend, filepath.Join(metadataPath, "product-uid"))
	if err != nil {
		return Metadata{}, fmt.Errorf("reading product-uid: %w", err)
	}

	version, err := runHook(fsBackend, filepath.Join(metadataPath, "version"))
	if err != nil {
		return Metadata{}, fmt.Errorf("reading version: %w", err)
	}

	hardware, err := runHooksFromDirLastLine(fsBackend, filepath.Join(metadataPath, "hardware-identity.d"))
	if err != nil {
		return Metadata{}, fmt.Errorf("reading hardware-identity.d: %w", err)
	}

	identityOutput, err := runHooksFromDir(fsBackend, filepath.Join(metadataPath, "device-identity.d"))
	if err != nil {
		return Metadata{}, fmt.Errorf("reading device-identity.d: %w", err)
	}

	return Metadata{
		ProductUID:     strings.TrimSpace(productUID),
		Hardware:       strings.TrimSpace(hardware),
		Version:        strings.TrimSpace(version),
		DeviceIdentity: parseKeyValueLines(identityOutput),
	}, nil
}

// runHook executes path as a shell command if it exists, returning "" for a
// hook that is absent entirely (spec §4.2's "does not exist -> Continue"
// rule applies just as much to metadata hooks as to the callback).
func runHook(fsBackend afero.Fs, path string) (string, error) {
	if exists, err := afero.Exists(fsBackend, path); err != nil || !exists {
		return "", err
	}

	return runScript(path)
}

func runHooksFromDir(fsBackend afero.Fs, dir string) (string, error) {
	entries, err := afero.ReadDir(fsBackend, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	outputs := make([]string, 0, len(names))
	for _, name := range names {
		out, err := runScript(filepath.Join(dir, name))
		if err != nil {
			return "", err
		}
		outputs = append(outputs, out)
	}

	return strings.Join(outputs, "\n"), nil
}

func runHooksFromDirLastLine(fsBackend afero.Fs, dir string) (string, error) {
	out, err := runHooksFromDir(fsBackend, dir)
	if err != nil {
		return "", err
	}

	lines := nonEmptyLines(out)
	if len(lines) == 0 {
		return "", nil
	}

	return lines[len(lines)-1], nil
}

func runScript(path string) (string, error) {
	cmd := exec.Command("sh", "-c", path)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	for _, line := range nonEmptyLines(stderr.String()) {
		log.WithFields(log.Fields{"hook": path}).Error(line)
	}

	if err != nil {
		return "", err
	}

	return strings.TrimSpace(stdout.String()), nil
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func parseKeyValueLines(s string) map[string]string {
	result := map[string]string{}
	for _, line := range nonEmptyLines(s) {
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		result[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return result
}
