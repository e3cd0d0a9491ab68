/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

package engine

import (
	"fmt"
	"path/filepath"

	"github.com/OSSystems/updateagent/activeinactive"
	"github.com/OSSystems/updateagent/handlers"
	"github.com/OSSystems/updateagent/internal/log"
	"github.com/OSSystems/updateagent/updatepackage"
	"github.com/OSSystems/updateagent/utils"
)

// Install marks the package as installed and hands its ready objects off
// to the installer collaborator.
type Install struct {
	Ctx     Context
	Package updatepackage.UpdatePackage
}

// NewInstall builds an Install state carrying ctx and pkg forward.
func NewInstall(ctx Context, pkg updatepackage.UpdatePackage) *Install {
	return &Install{Ctx: ctx, Package: pkg}
}

func (s *Install) Kind() Kind           { return KindInstall }
func (s *Install) CallbackName() string { return "install" }
func (s *Install) Context() Context     { return s.Ctx }

// Handle implements spec.md §4.8.
func (s *Install) Handle() (State, error) {
	ctx := s.Ctx
	pkg := s.Package

	log.Info("installing update: ", pkg.PackageUID())

	downloadDir := ctx.Settings.Update.DownloadDir
	objects := pkg.Objects()

	index, err := activeinactive.SelectObjectIndex(ctx.ActiveInactive, len(objects))
	if err != nil {
		return nil, err
	}

	o := objects[index]

	sum, err := utils.FileSha256sum(ctx.FS, filepath.Join(downloadDir, o.Sha256sum))
	if err != nil {
		return nil, fmt.Errorf("verifying downloaded object before install: %w", err)
	}
	if sum != o.Sha256sum {
		return nil, fmt.Errorf("sha256sum's don't match. expected: %s / calculated: %s", o.Sha256sum, sum)
	}

	handler, err := handlers.For(ctx.FS, o)
	if err != nil {
		return nil, err
	}

	// Register the applied package uid and force an immediate next probe
	// before the installer runs at all, not after: a crash mid-install must
	// not leave the device waiting a full polling interval to report back.
	ctx.RuntimeSettings.Polling.Now = true
	appliedPackageUID := pkg.PackageUID()

	if err := ctx.Save(); err != nil {
		return nil, fmt.Errorf("saving runtime settings before install: %w", err)
	}

	var errs []error

	if err := handler.Setup(); err != nil {
		errs = append(errs, fmt.Errorf("installer setup failed: %w", err))
	}

	if len(errs) == 0 {
		proceed, err := ctx.InstallIfDifferent.Proceed(o)
		if err != nil {
			errs = append(errs, err)
		} else if proceed {
			if err := handler.Install(downloadDir); err != nil {
				errs = append(errs, fmt.Errorf("installer failed: %w", err))
			}
		}
	}

	if err := handler.Cleanup(); err != nil {
		errs = append(errs, fmt.Errorf("installer cleanup failed: %w", err))
	}

	if err := utils.MergeErrorList(errs); err != nil {
		return nil, err
	}

	if len(objects) == 2 {
		if err := ctx.ActiveInactive.SetActive(index); err != nil {
			return nil, err
		}
	}

	log.Info("update installed successfully")
	return NewReboot(ctx, &appliedPackageUID), nil
}
