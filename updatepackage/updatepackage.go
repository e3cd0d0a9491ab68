/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

// Package updatepackage models the server-returned update manifest: a
// package UID, a hardware compatibility predicate and an ordered list of
// content-addressed objects.
package updatepackage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/OSSystems/updateagent/firmware"
	"github.com/OSSystems/updateagent/utils"
)

// ObjectStatus is the on-disk state of an Object, computed on demand from
// the download directory; it is never itself persisted.
type ObjectStatus int

const (
	// StatusMissing means the object's file is absent.
	StatusMissing ObjectStatus = iota
	// StatusIncomplete means the file is present but shorter than declared.
	StatusIncomplete
	// StatusCorrupted means the file reached its declared size but the
	// hash does not match.
	StatusCorrupted
	// StatusReady means the file is present and its hash matches.
	StatusReady
)

// Object is a single content-addressed payload within a package.
type Object struct {
	Sha256sum string          `json:"sha256sum"`
	Size      int64           `json:"size"`
	Mode      string          `json:"mode"`
	Target    string          `json:"target"`
	Metadata  json.RawMessage `json:"-"`
}

// Status inspects downloadDir through fsBackend and returns o's status.
func (o Object) Status(fsBackend afero.Fs, downloadDir string) (ObjectStatus, error) {
	path := filepath.Join(downloadDir, o.Sha256sum)

	info, err := fsBackend.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusMissing, nil
		}
		return StatusMissing, err
	}

	if info.Size() < o.Size {
		return StatusIncomplete, nil
	}

	sum, err := utils.FileSha256sum(fsBackend, path)
	if err != nil {
		return StatusMissing, err
	}

	if sum != o.Sha256sum {
		return StatusCorrupted, nil
	}

	return StatusReady, nil
}

// SupportedHardware is the package's hardware compatibility predicate: an
// explicit allow-list, or "any" when compatible with everything.
type SupportedHardware struct {
	Any          bool
	HardwareList []string
}

// UpdatePackage is the server's update manifest.
type UpdatePackage struct {
	ProductUID        string            `json:"product-uid"`
	SupportedHardware SupportedHardware `json:"-"`
	ObjectsList       []Object          `json:"objects"`

	raw []byte
}

type wireFormat struct {
	ProductUID        string   `json:"product-uid"`
	SupportedHardware any      `json:"supported-hardware"`
	Objects           []Object `json:"objects"`
}

// New parses a server response body into an UpdatePackage.
func New(body []byte) (UpdatePackage, error) {
	var wire wireFormat
	if err := json.Unmarshal(body, &wire); err != nil {
		return UpdatePackage{}, fmt.Errorf("parsing update package: %w", err)
	}

	sh := SupportedHardware{Any: true}
	switch v := wire.SupportedHardware.(type) {
	case string:
		sh.Any = v == "any" || v == ""
	case []any:
		sh.Any = false
		for _, item := range v {
			if s, ok := item.(string); ok {
				sh.HardwareList = append(sh.HardwareList, s)
			}
		}
	}

	return UpdatePackage{
		ProductUID:        wire.ProductUID,
		SupportedHardware: sh,
		ObjectsList:       wire.Objects,
		raw:               body,
	}, nil
}

// Objects returns the package's ordered object list.
func (p UpdatePackage) Objects() []Object {
	return p.ObjectsList
}

// PackageUID is a stable identifier derived from the manifest's raw bytes,
// matching the teacher's hash-derived package UID.
func (p UpdatePackage) PackageUID() string {
	return utils.SHA256Bytes(p.raw)
}

// CompatibleWith reports whether p declares support for fw's hardware.
func (p UpdatePackage) CompatibleWith(fw firmware.Metadata) error {
	if p.SupportedHardware.Any {
		return nil
	}

	for _, hw := range p.SupportedHardware.HardwareList {
		if hw == fw.Hardware {
			return nil
		}
	}

	return fmt.Errorf("this hardware version (%s) does not match the hardware supported by the update", fw.Hardware)
}

// FilterObjects returns the objects in p whose current status equals want.
func (p UpdatePackage) FilterObjects(fsBackend afero.Fs, downloadDir string, want ObjectStatus) ([]Object, error) {
	var out []Object
	for _, o := range p.ObjectsList {
		status, err := o.Status(fsBackend, downloadDir)
		if err != nil {
			return nil, err
		}
		if status == want {
			out = append(out, o)
		}
	}
	return out, nil
}

// AllReady reports whether every object in p is ready for use.
func (p UpdatePackage) AllReady(fsBackend afero.Fs, downloadDir string) (bool, error) {
	for _, o := range p.ObjectsList {
		status, err := o.Status(fsBackend, downloadDir)
		if err != nil {
			return false, err
		}
		if status != StatusReady {
			return false, nil
		}
	}
	return true, nil
}

