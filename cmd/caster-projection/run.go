package main

import (
	"encoding/json"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"caster-projection/internal/sample"
	"caster-projection/mapper"
	"caster-projection/query"
)

func newRunCmd(opts *options) *cobra.Command {
	var (
		contains string
		first    bool
		dump     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Filter the sample records by email and project them to RecordDTO",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := newConfig(opts)
			if err != nil {
				return err
			}

			db := sample.NewMemoryContext(sample.Records())

			filtered, err := query.Where(db.Records(cmd.Context()), func(r sample.Record) bool {
				return strings.Contains(r.Email, contains)
			})
			if err != nil {
				return err
			}

			projected, err := mapper.ProjectTo[sample.RecordDTO](filtered, cfg)
			if err != nil {
				return err
			}

			var out any

			if first {
				out, err = query.First(cmd.Context(), projected)
			} else {
				out, err = query.ToList(cmd.Context(), projected)
			}

			if err != nil {
				return err
			}

			if dump {
				spew.Fdump(cmd.OutOrStdout(), out)

				return nil
			}

			return writeJSONLines(cmd, out)
		},
	}

	cmd.Flags().StringVar(&contains, "contains", "example", "substring the email must contain")
	cmd.Flags().BoolVar(&first, "first", false, "print only the first matching record")
	cmd.Flags().BoolVar(&dump, "dump", false, "print a Go value dump instead of JSON")

	return cmd
}

func writeJSONLines(cmd *cobra.Command, out any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())

	list, ok := out.([]sample.RecordDTO)
	if !ok {
		return enc.Encode(out)
	}

	for _, dto := range list {
		if err := enc.Encode(dto); err != nil {
			return err
		}
	}

	return nil
}
