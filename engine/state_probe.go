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
	"time"

	"github.com/OSSystems/updateagent/client"
	"github.com/OSSystems/updateagent/internal/log"
	"github.com/OSSystems/updateagent/runtimesettings"
)

// Probe is the retrying network interaction with the update server.
type Probe struct {
	Ctx               Context
	AppliedPackageUID *string
}

// NewProbe builds a Probe state carrying ctx forward.
func NewProbe(ctx Context, appliedPackageUID *string) *Probe {
	return &Probe{Ctx: ctx, AppliedPackageUID: appliedPackageUID}
}

func (s *Probe) Kind() Kind           { return KindProbe }
func (s *Probe) CallbackName() string { return "probe" }
func (s *Probe) Context() Context     { return s.Ctx }

// Handle implements spec.md §4.6.
func (s *Probe) Handle() (State, error) {
	ctx := s.Ctx
	rs := ctx.RuntimeSettings
	api := ctx.NewAPI()

	resp, err := retryProbe(api, rs, ctx.ShutdownC)
	if err != nil {
		return nil, err
	}

	// Record the successful probe time, consume the "probe now" flag set by
	// Install, clear any previously set extra interval and persist once,
	// before matching on the response, so every branch below — including
	// the dedup path that returns before reaching the bottom of the Update
	// case — saves the reset retry counter and the cleared interval.
	probedAt := now()
	rs.Polling.Last = &probedAt
	rs.Polling.Now = false
	rs.Polling.ExtraInterval = nil
	if err := ctx.Save(); err != nil {
		return nil, fmt.Errorf("saving runtime settings after probe: %w", err)
	}

	switch resp.Kind {
	case client.ExtraPoll:
		d := time.Duration(resp.ExtraPollSeconds) * time.Second
		rs.Polling.ExtraInterval = &d

		if err := ctx.Save(); err != nil {
			return nil, fmt.Errorf("saving runtime settings after extra poll: %w", err)
		}

		log.Info("delaying the probing as requested by the server")
		return NewPoll(ctx, s.AppliedPackageUID), nil

	case client.Update:
		pkg := resp.Package

		if err := pkg.CompatibleWith(ctx.Firmware); err != nil {
			return nil, fmt.Errorf("update incompatible with this device: %w", err)
		}

		if s.AppliedPackageUID != nil && *s.AppliedPackageUID == pkg.PackageUID() {
			log.Info("not applying the update package, it has already been installed")
			return NewIdle(ctx, s.AppliedPackageUID), nil
		}

		log.Debug("moving to Download state to process the update package")
		return NewDownload(ctx, pkg), nil

	default: // client.NoUpdate
		log.Debug("moving to Idle state, no update is available")
		return NewIdle(ctx, s.AppliedPackageUID), nil
	}
}

// retryProbe calls api.Probe() until it succeeds, sleeping 1s between
// attempts and counting failures in rs.Polling.Retries. There is no
// maximum retry count by design (spec.md §4.6, §9): giving up on the
// control plane is worse than looping cheaply on an embedded device.
func retryProbe(api *client.Api, rs *runtimesettings.RuntimeSettings, shutdownC <-chan struct{}) (client.ProbeResponse, error) {
	for {
		resp, err := api.Probe()
		if err != nil {
			log.Error(err)
			rs.Polling.Retries++
			sleepInterruptible(1*time.Second, shutdownC)
			continue
		}

		rs.Polling.Retries = 0
		return resp, nil
	}
}
