/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

package engine

import "time"

// now is overridden in tests to make Poll's time-based branching
// deterministic.
var now = time.Now
