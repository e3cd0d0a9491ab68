/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

package engine

import (
	"math/rand"
	"time"

	"github.com/OSSystems/updateagent/internal/log"
)

// Poll schedules the next Probe using persistent interval accounting plus
// a randomized first-poll offset.
type Poll struct {
	Ctx               Context
	AppliedPackageUID *string
}

// NewPoll builds a Poll state carrying ctx forward.
func NewPoll(ctx Context, appliedPackageUID *string) *Poll {
	return &Poll{Ctx: ctx, AppliedPackageUID: appliedPackageUID}
}

func (s *Poll) Kind() Kind           { return KindPoll }
func (s *Poll) CallbackName() string { return "" }
func (s *Poll) Context() Context     { return s.Ctx }

// Handle implements spec.md §4.5.
func (s *Poll) Handle() (State, error) {
	rs := s.Ctx.RuntimeSettings

	if rs.Polling.Now {
		log.Debug("moving to Probe state as soon as possible")
		return NewProbe(s.Ctx, s.AppliedPackageUID), nil
	}

	current := now()

	last := rs.Polling.Last
	if last == nil {
		// When no polling has been done before, choose an offset between
		// the current time and the configured interval so freshly
		// provisioned cohorts don't all probe simultaneously. This
		// synthesized value is used only for the computation below — it
		// is never written back to rs.Polling.Last.
		interval := s.Ctx.Settings.Polling.Interval
		var offset time.Duration
		if interval > 0 {
			offset = time.Duration(rand.Int63n(int64(interval))) //nolint:gosec
		}
		synthesized := current.Add(offset)
		last = &synthesized
	}

	if last.After(current) {
		log.Info("forcing Probe state as last polling seems to have happened in the future")
		return NewProbe(s.Ctx, s.AppliedPackageUID), nil
	}

	deadline := *last
	if rs.Polling.ExtraInterval != nil {
		deadline = deadline.Add(*rs.Polling.ExtraInterval)
	}

	if deadline.Before(current) {
		log.Debug("moving to Probe state as the polling's due interval has elapsed")
		return NewProbe(s.Ctx, s.AppliedPackageUID), nil
	}

	log.Debug("sleeping for the polling interval before probing")
	sleepInterruptible(s.Ctx.Settings.Polling.Interval, s.Ctx.ShutdownC)

	return NewProbe(s.Ctx, s.AppliedPackageUID), nil
}
