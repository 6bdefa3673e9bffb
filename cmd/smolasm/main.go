// Command smolasm assembles smol source text into an object file.
package main

import (
	"fmt"
	"os"

	"github.com/marysaka/smol/asm"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "smolasm <input-source-path>",
		Short: "Assemble smol source into an object file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return assembleFile(args[0])
		},
		SilenceUsage: true,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func assembleFile(path string) error {
	source, err := os.ReadFile(path) // #nosec G304 -- user-supplied source path
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	file, err := asm.Assemble(string(source))
	if err != nil {
		return fmt.Errorf("assembly failed: %w", err)
	}

	outPath := path + ".obj"
	if err := os.WriteFile(outPath, file.Encode(), 0644); err != nil { // #nosec G306 -- object file is not sensitive
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	return nil
}
