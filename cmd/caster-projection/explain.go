package main

import (
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"caster-projection/internal/sample"
)

func newExplainCmd(opts *options) *cobra.Command {
	var export bool

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print how Record fields resolve onto RecordDTO fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := newConfig(opts)
			if err != nil {
				return err
			}

			if export {
				data, err := cfg.ExportYAML()
				if err != nil {
					return err
				}

				_, err = cmd.OutOrStdout().Write(data)

				return err
			}

			text, err := cfg.Explain(reflect.TypeFor[sample.Record](), reflect.TypeFor[sample.RecordDTO]())
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), text)

			return err
		},
	}

	cmd.Flags().BoolVar(&export, "export", false, "print the resolved maps as a YAML mapping file")

	return cmd
}
