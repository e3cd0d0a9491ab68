/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

package engine

import "github.com/OSSystems/updateagent/internal/log"

// Park is terminal: handling it is a no-op that returns itself. The
// driver's Run loop detects KindPark and exits.
type Park struct {
	Ctx               Context
	AppliedPackageUID *string
}

// NewPark builds a Park state, preserving the applied package uid so
// diagnostics can report what was last applied.
func NewPark(ctx Context, appliedPackageUID *string) *Park {
	return &Park{Ctx: ctx, AppliedPackageUID: appliedPackageUID}
}

func (s *Park) Kind() Kind           { return KindPark }
func (s *Park) CallbackName() string { return "" }
func (s *Park) Context() Context     { return s.Ctx }

// Handle implements spec.md §4.4.
func (s *Park) Handle() (State, error) {
	log.Debug("staying on Park state")
	return s, nil
}
