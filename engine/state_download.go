/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

package engine

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/OSSystems/updateagent/internal/log"
	"github.com/OSSystems/updateagent/updatepackage"
)

// Download reconciles the download directory against the package manifest:
// prunes foreign files and corrupted objects, fetches what's missing or
// incomplete, then gates on every object being ready.
type Download struct {
	Ctx     Context
	Package updatepackage.UpdatePackage
}

// NewDownload builds a Download state carrying ctx and pkg forward.
func NewDownload(ctx Context, pkg updatepackage.UpdatePackage) *Download {
	return &Download{Ctx: ctx, Package: pkg}
}

func (s *Download) Kind() Kind           { return KindDownload }
func (s *Download) CallbackName() string { return "download" }
func (s *Download) Context() Context     { return s.Ctx }

// Handle implements spec.md §4.7.
func (s *Download) Handle() (State, error) {
	ctx := s.Ctx
	downloadDir := ctx.Settings.Update.DownloadDir

	if err := s.pruneForeignFiles(downloadDir); err != nil {
		return nil, err
	}

	if err := s.pruneCorruptedObjects(downloadDir); err != nil {
		return nil, err
	}

	if err := s.fetchMissingAndIncomplete(downloadDir); err != nil {
		return nil, err
	}

	ready, err := s.Package.AllReady(ctx.FS, downloadDir)
	if err != nil {
		return nil, err
	}
	if !ready {
		return nil, errors.New("not all objects are ready for use")
	}

	log.Debug("moving to Install state, all objects are ready")
	return NewInstall(ctx, s.Package), nil
}

// pruneForeignFiles removes every regular file directly under downloadDir
// whose name isn't one of the package's declared sha256sums. Pruning must
// precede fetching, both to free space and to avoid re-hashing doomed
// bytes.
func (s *Download) pruneForeignFiles(downloadDir string) error {
	wanted := make(map[string]bool, len(s.Package.Objects()))
	for _, o := range s.Package.Objects() {
		wanted[o.Sha256sum] = true
	}

	entries, err := afero.ReadDir(s.Ctx.FS, downloadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if wanted[entry.Name()] {
			continue
		}
		if err := s.Ctx.FS.Remove(filepath.Join(downloadDir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func (s *Download) pruneCorruptedObjects(downloadDir string) error {
	corrupted, err := s.Package.FilterObjects(s.Ctx.FS, downloadDir, updatepackage.StatusCorrupted)
	if err != nil {
		return err
	}

	for _, o := range corrupted {
		if err := s.Ctx.FS.Remove(filepath.Join(downloadDir, o.Sha256sum)); err != nil {
			return err
		}
	}

	return nil
}

func (s *Download) fetchMissingAndIncomplete(downloadDir string) error {
	api := s.Ctx.NewAPI()

	missing, err := s.Package.FilterObjects(s.Ctx.FS, downloadDir, updatepackage.StatusMissing)
	if err != nil {
		return err
	}
	incomplete, err := s.Package.FilterObjects(s.Ctx.FS, downloadDir, updatepackage.StatusIncomplete)
	if err != nil {
		return err
	}

	for _, o := range append(missing, incomplete...) {
		if err := api.DownloadObject(s.Package.PackageUID(), o.Sha256sum); err != nil {
			return err
		}
	}

	return nil
}
