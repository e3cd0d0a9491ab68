/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

// Package testserver is an in-repo fake update server used by the engine's
// tests, playing the same role mockito plays in original_source's test
// suites.
package testserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
)

// Scenario selects the canned response the fake server returns.
type Scenario int

const (
	NoUpdate Scenario = iota
	HasUpdate
	InvalidHardware
	ExtraPoll
	ErrorOnce
	SamePackage
)

const samplePackageBody = `{
	"product-uid": "229ffd7e08721d716163fc81a2dbaf6c90d449f0a3b009b6a2defe8a0b0d7381",
	"supported-hardware": ["board-x"],
	"objects": [
		{"sha256sum": "c775e7b757ede630cd0aa1113bd102661ab38829ca52a6422ab782862f268646", "size": 10, "mode": "raw", "target": "/dev/fake"}
	]
}`

const incompatibleHardwarePackageBody = `{
	"product-uid": "229ffd7e08721d716163fc81a2dbaf6c90d449f0a3b009b6a2defe8a0b0d7381",
	"supported-hardware": ["board-z"],
	"objects": [
		{"sha256sum": "c775e7b757ede630cd0aa1113bd102661ab38829ca52a6422ab782862f268646", "size": 10, "mode": "raw", "target": "/dev/fake"}
	]
}`

// New starts an httptest server implementing scenario and the object
// download endpoint (always returning "1234567890" for any sha256sum).
func New(scenario Scenario) *httptest.Server {
	requests := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/upgrades", func(w http.ResponseWriter, r *http.Request) {
		requests++

		switch scenario {
		case HasUpdate, SamePackage:
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, samplePackageBody)
		case InvalidHardware:
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, incompatibleHardwarePackageBody)
		case ExtraPoll:
			w.Header().Set("Add-Extra-Poll", "300")
			w.WriteHeader(http.StatusNotFound)
		case ErrorOnce:
			if requests == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "1234567890")
	})

	return httptest.NewServer(mux)
}
