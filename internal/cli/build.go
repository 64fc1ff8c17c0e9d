package cli

import (
	"errors"
	"fmt"

	"github.com/nlstn/odataquery"
	"github.com/nlstn/odataquery/internal/definition"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var errMissingBase = errors.New("a base URL is required as argument or as base in the definition file")

type buildOptions struct {
	file        string
	selects     []string
	expand      []string
	orderBy     string
	desc        bool
	top         int
	skip        int
	count       bool
	encode      bool
	fingerprint bool
}

func newBuildCmd(logLevel *string) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build [base-url]",
		Short: "Build a query URL",
		Long: `Build a query URL from flags and an optional YAML query definition.

Flags that are set explicitly override the matching definition entries.
Filters are only read from the definition file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, opts, *logLevel)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "YAML query definition")
	flags.StringSliceVar(&opts.selects, "select", nil, "Comma-separated properties for $select")
	flags.StringSliceVar(&opts.expand, "expand", nil, "Comma-separated navigation properties for $expand")
	flags.StringVar(&opts.orderBy, "orderby", "", "Property for $orderby")
	flags.BoolVar(&opts.desc, "desc", false, "Sort $orderby descending")
	flags.IntVar(&opts.top, "top", 0, "Value for $top")
	flags.IntVar(&opts.skip, "skip", 0, "Value for $skip")
	flags.BoolVar(&opts.count, "count", false, "Add $count=true")
	flags.BoolVar(&opts.encode, "encode", false, "Percent-encode option values")
	flags.BoolVar(&opts.fingerprint, "fingerprint", false, "Also print the query fingerprint")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string, opts *buildOptions, logLevel string) error {
	logger, err := newLogger(logLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	doc := &definition.Document{}
	if opts.file != "" {
		doc, err = definition.Load(opts.file)
		if err != nil {
			return err
		}
		logger.Debug("loaded query definition", "file", opts.file, "filters", len(doc.Filters))
	}
	overrideDocument(doc, cmd.Flags(), args, opts)

	if doc.Base == "" {
		return errMissingBase
	}

	q, err := doc.NewBuilder(odataquery.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to apply query definition: %w", err)
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, q.Build()); err != nil {
		return err
	}
	if opts.fingerprint {
		if _, err := fmt.Fprintf(out, "fingerprint: %016x\n", q.Fingerprint()); err != nil {
			return err
		}
	}
	return nil
}

// overrideDocument copies explicitly set flags over the definition.
func overrideDocument(doc *definition.Document, flags *pflag.FlagSet, args []string, opts *buildOptions) {
	if len(args) > 0 {
		doc.Base = args[0]
	}
	if flags.Changed("select") {
		doc.Select = opts.selects
	}
	if flags.Changed("expand") {
		doc.Expand = opts.expand
	}
	if flags.Changed("orderby") || flags.Changed("desc") {
		orderBy := definition.OrderBy{Direction: string(odataquery.Asc)}
		if doc.OrderBy != nil {
			orderBy = *doc.OrderBy
		}
		if flags.Changed("orderby") {
			orderBy.Field = opts.orderBy
		}
		if flags.Changed("desc") {
			orderBy.Direction = string(odataquery.Asc)
			if opts.desc {
				orderBy.Direction = string(odataquery.Desc)
			}
		}
		doc.OrderBy = &orderBy
	}
	if flags.Changed("top") {
		top := opts.top
		doc.Top = &top
	}
	if flags.Changed("skip") {
		skip := opts.skip
		doc.Skip = &skip
	}
	if flags.Changed("count") {
		doc.Count = opts.count
	}
	if flags.Changed("encode") {
		doc.Encode = opts.encode
	}
}
