/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

// Package activeinactive reserves the A/B slot selection hook the core
// dispatches to during Install. It implements no policy of its own: the
// core only needs to know which of a two-object package's objects targets
// the currently inactive slot.
package activeinactive

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/OSSystems/updateagent/internal/log"
)

// Backend selects which slot is active/inactive. A real implementation
// reads this from bootloader environment variables or a GPT attribute;
// this package only defines the contract the core depends on.
type Backend interface {
	// Active returns the index (0 or 1) of the currently active slot.
	Active() (int, error)
	// SetActive marks index as the active slot, called after a
	// successful two-object install.
	SetActive(index int) error
}

// NoopBackend always reports slot 0 active and accepts SetActive without
// persisting anything. It exists so the core is exercisable end-to-end
// without committing to a real A/B policy, per the spec's explicit
// reservation of this hook.
type NoopBackend struct{}

func (NoopBackend) Active() (int, error) { return 0, nil }

func (NoopBackend) SetActive(index int) error {
	log.WithFields(log.Fields{
		"correlation_id": uuid.NewString(),
		"slot":           index,
	}).Debug("active/inactive backend is a no-op; not persisting slot selection")
	return nil
}

// SelectObjectIndex picks which of a package's objects should be installed:
// for a single-object package it is always index 0; for a two-object
// (active/inactive) package it is the slot currently NOT active.
func SelectObjectIndex(backend Backend, objectCount int) (int, error) {
	switch objectCount {
	case 1:
		return 0, nil
	case 2:
		active, err := backend.Active()
		if err != nil {
			return 0, err
		}
		return (active - 1) * -1, nil
	default:
		return 0, fmt.Errorf("update metadata must have 1 or 2 objects, found %d", objectCount)
	}
}
