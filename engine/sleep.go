/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

package engine

import "time"

// sleepInterruptible blocks for d, or until shutdownC fires, whichever
// comes first. A nil shutdownC degrades to a plain blocking sleep. This is
// the only suspension mechanism in the core (spec §5): a direct blocking
// wait, not an async await.
func sleepInterruptible(d time.Duration, shutdownC <-chan struct{}) {
	if shutdownC == nil {
		time.Sleep(d)
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-shutdownC:
	}
}
