/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

// Package handlers defines the installer plugin contract the core hands
// ready objects off to. The core only knows "install succeeded/failed";
// everything here is out of core scope but still needs a concrete home so
// the agent is runnable end-to-end.
package handlers

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/OSSystems/updateagent/updatepackage"
)

// InstallUpdateHandler is the per-object installer plugin contract.
type InstallUpdateHandler interface {
	Setup() error
	Install(downloadDir string) error
	Cleanup() error
}

// Raw writes an object's bytes directly onto a block device or file target.
type Raw struct {
	FS     afero.Fs
	Object updatepackage.Object
}

func (h *Raw) Setup() error { return nil }

func (h *Raw) Install(downloadDir string) error {
	return copyFile(h.FS, filepath.Join(downloadDir, h.Object.Sha256sum), h.Object.Target)
}

func (h *Raw) Cleanup() error { return nil }

// Copy installs an object by copying it onto a regular file target.
type Copy struct {
	FS     afero.Fs
	Object updatepackage.Object
}

func (h *Copy) Setup() error { return nil }

func (h *Copy) Install(downloadDir string) error {
	return copyFile(h.FS, filepath.Join(downloadDir, h.Object.Sha256sum), h.Object.Target)
}

func (h *Copy) Cleanup() error { return nil }

// Tarball installs an object by extracting a gzipped tar archive into its
// target directory.
type Tarball struct {
	FS     afero.Fs
	Object updatepackage.Object
}

func (h *Tarball) Setup() error { return nil }

func (h *Tarball) Install(downloadDir string) error {
	f, err := h.FS.Open(filepath.Join(downloadDir, h.Object.Sha256sum))
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("opening tarball object: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		dest := filepath.Join(h.Object.Target, hdr.Name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := h.FS.MkdirAll(dest, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := h.FS.MkdirAll(filepath.Dir(dest), 0755); err != nil {
				return err
			}
			out, err := h.FS.Create(dest)
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		}
	}
}

func (h *Tarball) Cleanup() error { return nil }

func copyFile(fsBackend afero.Fs, src, dst string) error {
	in, err := fsBackend.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := fsBackend.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := fsBackend.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

// For selects the handler implementation for object's declared mode.
func For(fsBackend afero.Fs, object updatepackage.Object) (InstallUpdateHandler, error) {
	switch object.Mode {
	case "raw":
		return &Raw{FS: fsBackend, Object: object}, nil
	case "copy":
		return &Copy{FS: fsBackend, Object: object}, nil
	case "tarball":
		return &Tarball{FS: fsBackend, Object: object}, nil
	default:
		return nil, fmt.Errorf("unsupported install mode %q", object.Mode)
	}
}
