package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/turhancan97/paper-ready-architecture/pkg/config"
	apperrors "github.com/turhancan97/paper-ready-architecture/pkg/errors"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and inspect figure configurations",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

// newConfigInitCmd writes a fresh default configuration. The encoding
// follows the file extension, so "config init figure.toml" writes TOML.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "figure.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return apperrors.New(apperrors.ErrCodeInvalidInput,
					"%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			printFile(path)
			printNextStep("Render it", fmt.Sprintf("nnfig render %s", path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// newConfigShowCmd prints a configuration after validation, optionally
// re-encoded in another format.
func newConfigShowCmd() *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Validate and print a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			ext := filepath.Ext(args[0])
			if as != "" {
				ext = "." + as
			}
			data, err := config.Encode(cfg, ext)
			if err != nil {
				return err
			}

			fmt.Print(string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "re-encode as: yaml, json, or toml")
	return cmd
}
