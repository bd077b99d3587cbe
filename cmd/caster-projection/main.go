// Package main provides the CLI entrypoint for caster-projection.
//
// caster-projection runs the sample record query through the mapper:
//   - run filters the records by email and projects them to RecordDTO
//   - explain prints how Record fields resolve onto RecordDTO fields
//   - check validates a YAML mapping file against the sample types
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"caster-projection/internal/sample"
	"caster-projection/mapper"
	"caster-projection/primitive"
	"caster-projection/query"
)

type options struct {
	verbose    bool
	categories string
	mapping    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "caster-projection",
		Short:         "Project sample records through the struct mapper",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setupLogging(opts.verbose)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable development logging")
	flags.StringVar(&opts.categories, "categories", "default",
		"comma separated scalar conversion categories allowed without a transform")
	flags.StringVarP(&opts.mapping, "mapping", "m", "", "YAML mapping file")

	root.AddCommand(newRunCmd(opts), newExplainCmd(opts), newCheckCmd(opts))

	return root
}

func setupLogging(verbose bool) error {
	var (
		logger *zap.Logger
		err    error
	)

	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}

	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	query.SetLogger(logger)
	mapper.SetLogger(logger)

	return nil
}

// transforms are available to mapping files by name.
var transforms = map[string]any{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
}

// newConfig builds the Record <-> RecordDTO maps from the flags.
func newConfig(opts *options) (*mapper.Configuration, error) {
	categories, err := primitive.ParseCategories(opts.categories)
	if err != nil {
		return nil, err
	}

	cfg := mapper.NewConfiguration(mapper.WithCategories(categories))

	for name, fn := range transforms {
		if err := cfg.RegisterTransform(name, fn); err != nil {
			return nil, err
		}
	}

	if opts.mapping != "" {
		if err := cfg.LoadFile(opts.mapping); err != nil {
			return nil, err
		}
	}

	mapper.RegisterType[sample.Record](cfg)
	mapper.RegisterType[sample.RecordDTO](cfg)

	if err := mapper.CreateMap[sample.Record, sample.RecordDTO](cfg); err != nil {
		return nil, err
	}

	if err := mapper.CreateMap[sample.RecordDTO, sample.Record](cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
