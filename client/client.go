/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

// Package client is the collaborator that talks to the remote update
// server: a single probe() call and a download_object() call, exactly the
// two operations spec.md §6 names. Request framing follows the teacher's
// client/update.go closely; only the response shape is generalized into
// the engine's NoUpdate/ExtraPoll/Update sum type.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"github.com/OSSystems/updateagent/firmware"
	"github.com/OSSystems/updateagent/updatepackage"
)

const (
	contentType    = "application/json"
	apiContentType = "application/vnd.updatehub-v1+json"
)

// ProbeKind discriminates a ProbeResponse.
type ProbeKind int

const (
	NoUpdate ProbeKind = iota
	ExtraPoll
	Update
)

// ProbeResponse is the sum type spec.md §6 describes:
// {NoUpdate, ExtraPoll(seconds), Update(UpdatePackage)}.
type ProbeResponse struct {
	Kind             ProbeKind
	ExtraPollSeconds int64
	Package          updatepackage.UpdatePackage
}

// Api is the HTTP collaborator used by the engine's Probe and Download
// states.
type Api struct {
	BaseURL     string
	Firmware    firmware.Metadata
	FS          afero.Fs
	DownloadDir string
	HTTPClient  *http.Client
}

// New builds an Api bound to fw's identity.
func New(baseURL string, fw firmware.Metadata, fsBackend afero.Fs, downloadDir string) *Api {
	return &Api{
		BaseURL:     baseURL,
		Firmware:    fw,
		FS:          fsBackend,
		DownloadDir: downloadDir,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

type probeRequest struct {
	ProductUID     string            `json:"product_uid"`
	Version        string            `json:"version"`
	Hardware       string            `json:"hardware"`
	DeviceIdentity map[string]string `json:"device_identity"`
}

// Probe asks the update server whether a new package is available.
func (a *Api) Probe() (ProbeResponse, error) {
	payload := probeRequest{
		ProductUID:     a.Firmware.ProductUID,
		Version:        a.Firmware.Version,
		Hardware:       a.Firmware.Hardware,
		DeviceIdentity: a.Firmware.DeviceIdentity,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ProbeResponse{}, fmt.Errorf("encoding probe request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, a.BaseURL+"/upgrades", bytes.NewReader(body))
	if err != nil {
		return ProbeResponse{}, fmt.Errorf("creating probe request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Api-Content-Type", apiContentType)

	res, err := a.HTTPClient.Do(req)
	if err != nil {
		return ProbeResponse{}, fmt.Errorf("probe request failed: %w", err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return ProbeResponse{}, fmt.Errorf("reading probe response: %w", err)
	}

	extraPoll := parseExtraPoll(res.Header.Get("Add-Extra-Poll"))

	switch res.StatusCode {
	case http.StatusOK:
		pkg, err := updatepackage.New(respBody)
		if err != nil {
			return ProbeResponse{}, fmt.Errorf("parsing update package: %w", err)
		}
		return ProbeResponse{Kind: Update, Package: pkg}, nil

	case http.StatusNotFound:
		if extraPoll > 0 {
			return ProbeResponse{Kind: ExtraPoll, ExtraPollSeconds: extraPoll}, nil
		}
		return ProbeResponse{Kind: NoUpdate}, nil

	default:
		return ProbeResponse{}, fmt.Errorf("invalid response received from the server, status %d", res.StatusCode)
	}
}

func parseExtraPoll(header string) int64 {
	if header == "" {
		return 0
	}
	v, err := strconv.ParseInt(header, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// DownloadObject streams the object named sha256sum from package
// packageUID into <DownloadDir>/<sha256sum>.
func (a *Api) DownloadObject(packageUID, sha256sum string) error {
	url := fmt.Sprintf("%s/products/%s/packages/%s/objects/%s", a.BaseURL, a.Firmware.ProductUID, packageUID, sha256sum)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Api-Content-Type", apiContentType)

	res, err := a.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download object %s: status %d", sha256sum, res.StatusCode)
	}

	if err := a.FS.MkdirAll(a.DownloadDir, 0755); err != nil {
		return err
	}

	out, err := a.FS.Create(filepath.Join(a.DownloadDir, sha256sum))
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, res.Body); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
