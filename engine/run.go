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

	"github.com/OSSystems/updateagent/internal/log"
)

// Run drives the state machine starting from Idle until it reaches Park,
// invoking the transition-hook engine between every pair of states
// (spec.md §4.1). Any error is fatal: all recoverable conditions must be
// handled within a state, so an error escaping here is a bug.
func Run(ctx Context) error {
	var current State = NewIdle(ctx, nil)

	for {
		stateCtx := current.Context()

		verdict, err := stateChangeCallback(stateCtx.FS, stateCtx.Settings.Firmware.MetadataPath, current)
		if err != nil {
			return fmt.Errorf("state-change-callback for state %q: %w", current.Kind(), err)
		}

		var next State
		if verdict == transitionCancel {
			log.WithFields(log.Fields{"state": current.Kind().String()}).Info("transition cancelled, forcing Idle")
			next = forceIdle(current)
		} else {
			next, err = current.Handle()
			if err != nil {
				return fmt.Errorf("state %q: %w", current.Kind(), err)
			}
		}

		if next.Kind() == KindPark {
			log.Debug("parking state machine")
			return nil
		}

		current = next
	}
}

// forceIdle builds an Idle state from whatever state was about to run,
// discarding any in-flight computation (e.g. a partial UpdatePackage) but
// leaving on-disk artifacts untouched for the next cycle to reconcile.
func forceIdle(s State) State {
	switch st := s.(type) {
	case *Idle:
		return NewIdle(st.Ctx, st.AppliedPackageUID)
	case *Poll:
		return NewIdle(st.Ctx, st.AppliedPackageUID)
	case *Probe:
		return NewIdle(st.Ctx, st.AppliedPackageUID)
	case *Download:
		return NewIdle(st.Ctx, nil)
	case *Install:
		return NewIdle(st.Ctx, nil)
	case *Reboot:
		return NewIdle(st.Ctx, st.AppliedPackageUID)
	default:
		return NewIdle(s.Context(), nil)
	}
}
