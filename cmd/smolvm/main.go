// Command smolvm loads and runs a smol object file.
package main

import (
	"fmt"
	"os"

	"github.com/marysaka/smol/config"
	"github.com/marysaka/smol/loader"
	"github.com/marysaka/smol/objfile"
	"github.com/marysaka/smol/vm"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "smolvm <object-file-path>",
		Short: "Run a smol object file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := runFile(args[0], configPath)
			if err != nil {
				return err
			}
			os.Exit(int(status))
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a smol.toml config file (defaults to the platform config location)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runFile(path, configPath string) (byte, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return 0, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied object file path
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	file, err := objfile.Decode(data)
	if err != nil {
		return 0, fmt.Errorf("failed to decode object file: %w", err)
	}

	machine := vm.New()
	machine.MaxCycles = cfg.Execution.MaxCycles
	for _, fd := range cfg.Syscall.AllowedWriteFDs {
		switch fd {
		case 1:
			machine.WriteFDs[1] = os.Stdout
		case 2:
			machine.WriteFDs[2] = os.Stderr
		}
	}

	if err := loader.LoadIntoVM(machine, file); err != nil {
		return 0, fmt.Errorf("failed to load object file: %w", err)
	}

	if err := machine.Run(); err != nil {
		return 0, err
	}

	return machine.ExitStatus, nil
}
