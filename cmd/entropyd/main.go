/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package main is the entrypoint for the entropyd binary.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/entrolab/entropyd/common/metadata"
	"github.com/entrolab/entropyd/drng/chacha20"
	"github.com/entrolab/entropyd/drng/factory"
	"github.com/entrolab/entropyd/drng/manager"
	"github.com/entrolab/entropyd/internal/daemon"
)

const programName = "entropyd"

var configFile string

func main() {
	mainCmd := &cobra.Command{Use: programName}

	mainFlags := mainCmd.PersistentFlags()
	mainFlags.StringVar(&configFile, "config", "", "Path to the configuration file")

	mainCmd.AddCommand(serveCmd())
	mainCmd.AddCommand(generateCmd())
	mainCmd.AddCommand(selftestCmd())
	mainCmd.AddCommand(versionCmd())
	mainCmd.AddCommand(configCmd())

	// On failure Cobra prints the usage message and error string, so we only
	// need to exit with a non-0 status
	if mainCmd.Execute() != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the entropyd daemon.",
		Long:  "Run the entropyd daemon until SIGINT or SIGTERM. SIGHUP reloads the configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("trailing args detected")
			}
			cmd.SilenceUsage = true

			conf, err := daemon.Load(configFile)
			if err != nil {
				return err
			}
			return daemon.New(conf, configFile).Run()
		},
	}
}

type generateOptions struct {
	size   int
	full   bool
	hexOut bool
}

func (o *generateOptions) attach(flags *pflag.FlagSet) {
	flags.IntVar(&o.size, "size", 32, "Number of bytes to generate")
	flags.BoolVar(&o.full, "full", false, "Use the full-strength output path")
	flags.BoolVar(&o.hexOut, "hex", false, "Hex encode the output")
}

func generateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write generator output to stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("trailing args detected")
			}
			cmd.SilenceUsage = true

			if opts.size < 0 {
				return fmt.Errorf("invalid size: %d", opts.size)
			}
			conf, err := daemon.Load(configFile)
			if err != nil {
				return err
			}
			if err := factory.InitFactories(conf.DRNG); err != nil {
				return err
			}
			managed, err := manager.New(manager.Options{Provider: factory.GetDefault()})
			if err != nil {
				return err
			}
			defer managed.Close()

			out := make([]byte, opts.size)
			if opts.full {
				_, err = managed.GenerateFull(out)
			} else {
				_, err = managed.Generate(out)
			}
			if err != nil {
				return err
			}

			if opts.hexOut {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	opts.attach(cmd.Flags())
	return cmd
}

func selftestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Run the block function known answer test.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("trailing args detected")
			}
			cmd.SilenceUsage = true

			if err := chacha20.SelfTest(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "self-test passed")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print entropyd version.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("trailing args detected")
			}
			fmt.Fprint(cmd.OutOrStdout(), getInfo())
			return nil
		},
	}
}

func getInfo() string {
	return fmt.Sprintf("%s:\n Version: %s\n Commit SHA: %s\n Go version: %s\n OS/Arch: %s\n",
		programName, metadata.Version, metadata.CommitSHA, runtime.Version(),
		fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH))
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("trailing args detected")
			}
			cmd.SilenceUsage = true

			conf, err := daemon.Load(configFile)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(conf)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
