/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

package engine

import "github.com/OSSystems/updateagent/internal/log"

// Idle gates whether polling is enabled. No side effects, no network.
type Idle struct {
	Ctx               Context
	AppliedPackageUID *string
}

// NewIdle builds an Idle state carrying ctx and the applied package uid
// forward.
func NewIdle(ctx Context, appliedPackageUID *string) *Idle {
	return &Idle{Ctx: ctx, AppliedPackageUID: appliedPackageUID}
}

func (s *Idle) Kind() Kind           { return KindIdle }
func (s *Idle) CallbackName() string { return "" }
func (s *Idle) Context() Context     { return s.Ctx }

// Handle implements spec.md §4.3.
func (s *Idle) Handle() (State, error) {
	if !s.Ctx.Settings.Polling.Enabled {
		log.Debug("polling is disabled, moving to Park state")
		return NewPark(s.Ctx, s.AppliedPackageUID), nil
	}

	log.Debug("polling is enabled, moving to Poll state")
	return NewPoll(s.Ctx, s.AppliedPackageUID), nil
}
