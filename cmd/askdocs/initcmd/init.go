// Package initcmder provides the init command for writing a starter
// config.toml into the current working directory.
package initcmder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papergrid/askdocs/pkg/config"
)

const initLongDesc string = `Write a starter config.toml into the current working directory.

The generated file carries the default provider settings for the completion
model, embedding model, and vector store. Edit it to point at your own
services, or override individual values with ASKDOCS_* environment variables.

Examples:
  askdocs init`

const initShortDesc string = "Write a starter config.toml"

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit()
		},
	}

	return cmd
}

func runInit() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	path := filepath.Join(cwd, "config.toml")
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Already initialized: %s\n", path)
		return nil
	}

	written, err := config.Save(config.NewDefaultConfig(), cwd)
	if err != nil {
		return err
	}

	fmt.Printf("Initialized config: %s\n", written)
	return nil
}
