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
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/OSSystems/updateagent/internal/log"
)

const stateChangeCallbackName = "state-change-callback"

// transition is the verdict the state-change-callback hook returns.
type transition int

const (
	transitionContinue transition = iota
	transitionCancel
)

// stateChangeCallback implements spec.md §4.2 exactly: a state with no
// callback name never touches the filesystem; a missing hook continues;
// otherwise the hook is run as a shell command with the state name as its
// single argument, stderr is logged line by line, and stdout is parsed
// under a strict two-token protocol.
func stateChangeCallback(fsBackend afero.Fs, metadataPath string, s State) (transition, error) {
	name := s.CallbackName()
	if name == "" {
		return transitionContinue, nil
	}

	callback := filepath.Join(metadataPath, stateChangeCallbackName)
	exists, err := afero.Exists(fsBackend, callback)
	if err != nil {
		return transitionContinue, err
	}
	if !exists {
		return transitionContinue, nil
	}

	cmd := exec.Command("sh", "-c", fmt.Sprintf("%s %s", callback, name))
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return transitionContinue, fmt.Errorf("running state-change-callback for state %q: %w", name, err)
	}

	for _, line := range strings.Split(stderr.String(), "\n") {
		if line == "" {
			continue
		}
		log.WithFields(log.Fields{"callback": callback}).Error(line)
	}

	tokens := strings.SplitN(strings.TrimSpace(stdout.String()), " ", 2)
	switch {
	case len(tokens) == 1 && tokens[0] == "cancel":
		return transitionCancel, nil
	case len(tokens) == 1 && tokens[0] == "":
		return transitionContinue, nil
	default:
		return transitionContinue, fmt.Errorf(
			"invalid format found while running 'state-change-callback' hook for state %q", name)
	}
}
