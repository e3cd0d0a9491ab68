/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

// Package installifdifferent reserves the "skip installing an object whose
// target already matches" policy hook. The core always calls it, but never
// implements the comparison itself.
package installifdifferent

import "github.com/OSSystems/updateagent/updatepackage"

// Backend decides whether an object's install step should actually run.
type Backend interface {
	Proceed(object updatepackage.Object) (bool, error)
}

// AlwaysProceed is the default Backend: every object is installed
// unconditionally. A real backend might compare the object's declared
// content hash against what is already flashed at its target.
type AlwaysProceed struct{}

func (AlwaysProceed) Proceed(updatepackage.Object) (bool, error) {
	return true, nil
}
