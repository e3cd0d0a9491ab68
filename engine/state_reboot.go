/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

package engine

import (
	"os/exec"
	"strings"

	"github.com/OSSystems/updateagent/internal/log"
)

// Reboot invokes the platform reboot command and returns to Idle.
type Reboot struct {
	Ctx               Context
	AppliedPackageUID *string
}

// NewReboot builds a Reboot state carrying ctx forward.
func NewReboot(ctx Context, appliedPackageUID *string) *Reboot {
	return &Reboot{Ctx: ctx, AppliedPackageUID: appliedPackageUID}
}

func (s *Reboot) Kind() Kind           { return KindReboot }
func (s *Reboot) CallbackName() string { return "reboot" }
func (s *Reboot) Context() Context     { return s.Ctx }

// Handle implements spec.md §4.9.
func (s *Reboot) Handle() (State, error) {
	log.Info("triggering reboot")

	cmd := exec.Command("sh", "-c", "reboot")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, err
	}

	if trimmed := strings.TrimSpace(string(output)); trimmed != "" {
		log.Info("reboot output: ", trimmed)
	}

	// If the reboot call returns without actually rebooting (e.g. under
	// test), the machine remains well-defined by continuing to Idle.
	return NewIdle(s.Ctx, s.AppliedPackageUID), nil
}
