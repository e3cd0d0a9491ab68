/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

// Package utils holds the small filesystem and error helpers shared by the
// other packages in this module, mirroring the teacher's own "utils"
// sibling package.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// FileSha256sum returns the lowercase hex SHA-256 digest of path as seen
// through fsBackend.
func FileSha256sum(fsBackend afero.Fs, path string) (string, error) {
	f, err := fsBackend.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// SHA256Bytes returns the lowercase hex SHA-256 digest of data.
func SHA256Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// MergeErrorList joins a list of errors into a single error, one per line.
func MergeErrorList(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}

	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}
