package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errInvalidMapping = errors.New("mapping file is invalid")

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a mapping file against the sample types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.mapping == "" {
				return errors.New("--mapping is required")
			}

			cfg, err := newConfig(opts)
			if err != nil {
				return err
			}

			diags := cfg.Validate()
			for _, line := range diags.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}

			if err := cfg.AssertValid(); err != nil {
				return err
			}

			if diags.HasErrors() {
				return fmt.Errorf("%w: %s", errInvalidMapping, opts.mapping)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "ok")

			return nil
		},
	}
}
