package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shape-mapper/diagnostic"
	"shape-mapper/mapper"
	"shape-mapper/profile"
)

var errCheckFailed = errors.New("check failed")

func checkCmd(opts *rootOptions) *cobra.Command {
	var nocolor, strict bool

	cmd := &cobra.Command{
		Use:   "check [profile.yaml...]",
		Short: "Validate profiles and apply them to the catalog",
		Long: `Validate profile files against the schema, resolve their type names
against the catalog and build every configuration they describe.

Without arguments the profiles of the configuration are checked.

Examples:
  shapemap check orders.yaml
  shapemap check --strict orders.yaml customers.yaml
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true
			}

			if len(args) == 0 {
				cfg, err := opts.load()
				if err != nil {
					return err
				}

				args = cfg.Profiles
			}

			if len(args) == 0 {
				return errors.New("no profiles to check")
			}

			failed := false
			for _, path := range args {
				if !runCheck(cmd.OutOrStdout(), path, strict) {
					failed = true
				}
			}

			if failed {
				return errCheckFailed
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat unmapped destination members as errors")

	return cmd
}

// runCheck reports on one profile and returns whether it passed.
func runCheck(w io.Writer, path string, strict bool) bool {
	f, err := profile.LoadFile(path)
	if err != nil {
		color.New(color.FgRed).Fprintf(w, "%s: %v\n", path, err)
		return false
	}

	diags := f.Validate()
	if !diags.IsValid() {
		color.New(color.FgRed).Fprintf(w, "%s: invalid profile\n", path)
		printDiagnostics(w, diags)

		return false
	}

	m := mapper.New()
	registerCatalog(m)

	if err := mapper.ApplyProfile(m, f, catalogTypes()); err != nil {
		color.New(color.FgRed).Fprintf(w, "%s: %v\n", path, err)
		return false
	}

	if err := m.Initialize(); err != nil {
		color.New(color.FgRed).Fprintf(w, "%s: %v\n", path, err)
		return false
	}

	types := catalogTypes()

	for i := range f.Mappings {
		pm := &f.Mappings[i]

		src, _ := types.Lookup(pm.Source)
		dst, _ := types.Lookup(pm.Target)

		cfg, ok := m.Configuration(mapper.NewKey(src, dst, pm.Name))
		if !ok {
			continue
		}

		r, err := cfg.Report()
		if err != nil {
			color.New(color.FgRed).Fprintf(w, "%s: %v\n", path, err)
			return false
		}

		for _, warn := range r.Diagnostics.Warnings {
			if strict {
				warn.Severity = diagnostic.SeverityError
			}

			diags.Add(warn)
		}
	}

	printDiagnostics(w, diags)

	if !diags.IsValid() {
		color.New(color.FgRed).Fprintf(w, "%s: %s\n", path, english.Plural(len(diags.Errors), "error", ""))
		return false
	}

	color.New(color.FgGreen).Fprintf(w, "%s: ok (%s)\n", path, english.Plural(len(f.Mappings), "mapping", ""))

	return true
}

func printDiagnostics(w io.Writer, d *diagnostic.Diagnostics) {
	for _, e := range d.Errors {
		color.New(color.FgRed).Fprintf(w, "  error: %s\n", e)
	}

	for _, warn := range d.Warnings {
		color.New(color.FgYellow).Fprintf(w, "  warning: %s\n", warn)
	}

	for _, info := range d.Infos {
		fmt.Fprintf(w, "  info: %s\n", info)
	}
}
