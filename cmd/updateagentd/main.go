/*
 * UpdateAgent
 * Copyright (C) 2026
 * O.S. Systems Sofware LTDA: contato@ossystems.com.br
 *
 * SPDX-License-Identifier:     GPL-2.0
 */

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/OSSystems/updateagent/activeinactive"
	"github.com/OSSystems/updateagent/client"
	"github.com/OSSystems/updateagent/engine"
	"github.com/OSSystems/updateagent/firmware"
	"github.com/OSSystems/updateagent/installifdifferent"
	"github.com/OSSystems/updateagent/internal/log"
	"github.com/OSSystems/updateagent/runtimesettings"
	"github.com/OSSystems/updateagent/settings"
)

var (
	configPath          string
	runtimeSettingsPath string
	baseURL             string
	verbose             bool
)

func main() {
	root := &cobra.Command{
		Use:   "updateagentd",
		Short: "On-device firmware update agent",
	}

	root.PersistentFlags().StringVar(&configPath, "config", "/etc/updateagent.conf", "path to the agent configuration file")
	root.PersistentFlags().StringVar(&runtimeSettingsPath, "runtime-settings", "/var/lib/updateagent/runtime-settings", "path to the persisted runtime settings file")
	root.PersistentFlags().StringVar(&baseURL, "server", "https://api.updatehub.io", "update server base URL")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	root.AddCommand(runCmd(), probeCmd(), infoCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupContext() (engine.Context, error) {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	fs := afero.NewOsFs()

	s, err := settings.Load(fs, configPath)
	if err != nil {
		return engine.Context{}, fmt.Errorf("loading settings: %w", err)
	}

	fw, err := firmware.Load(fs, s.Firmware.MetadataPath)
	if err != nil {
		return engine.Context{}, fmt.Errorf("loading firmware metadata: %w", err)
	}

	rs := runtimesettings.New(fs, runtimeSettingsPath)
	if err := rs.Load(); err != nil {
		return engine.Context{}, fmt.Errorf("loading runtime settings: %w", err)
	}

	return engine.Context{
		Settings:           s,
		RuntimeSettings:    rs,
		Firmware:           fw,
		FS:                 fs,
		BaseURL:            baseURL,
		ActiveInactive:     activeinactive.NoopBackend{},
		InstallIfDifferent: installifdifferent.AlwaysProceed{},
	}, nil
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the update agent's state machine until it parks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := setupContext()
			if err != nil {
				return err
			}

			shutdownC := make(chan struct{})
			ctx.ShutdownC = shutdownC

			sigC := make(chan os.Signal, 1)
			signal.Notify(sigC, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigC
				log.Info("shutdown signal received, interrupting any pending sleep")
				close(shutdownC)
			}()

			return engine.Run(ctx)
		},
	}
}

func probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Force a single probe against the update server and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := setupContext()
			if err != nil {
				return err
			}

			resp, err := ctx.NewAPI().Probe()
			if err != nil {
				return err
			}

			switch resp.Kind {
			case client.NoUpdate:
				fmt.Println("no update available")
			case client.ExtraPoll:
				fmt.Printf("server requested an extra poll delay of %d seconds\n", resp.ExtraPollSeconds)
			case client.Update:
				fmt.Printf("update available: %s\n", resp.Package.PackageUID())
			}

			return nil
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the device's firmware metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := setupContext()
			if err != nil {
				return err
			}

			fmt.Printf("product-uid: %s\n", ctx.Firmware.ProductUID)
			fmt.Printf("hardware: %s\n", ctx.Firmware.Hardware)
			fmt.Printf("version: %s\n", ctx.Firmware.Version)
			for k, v := range ctx.Firmware.DeviceIdentity {
				fmt.Printf("device-identity.%s: %s\n", k, v)
			}

			return nil
		},
	}
}
