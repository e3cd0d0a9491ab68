/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

package activeinactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectObjectIndexSingleObject(t *testing.T) {
	idx, err := SelectObjectIndex(NoopBackend{}, 1)
	assert.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestSelectObjectIndexTwoObjects(t *testing.T) {
	idx, err := SelectObjectIndex(NoopBackend{}, 2)
	assert.NoError(t, err)
	assert.Equal(t, 1, idx, "inactive slot is the complement of active slot 0")
}

func TestSelectObjectIndexInvalidCount(t *testing.T) {
	_, err := SelectObjectIndex(NoopBackend{}, 3)
	assert.Error(t, err)
}
