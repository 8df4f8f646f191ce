package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"shape-mapper/mapper"
)

func showCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print resolved bindings and unmapped members",
		Long: `Build the catalog configurations with the configured profiles applied
and print, for every type pair, how each destination member is produced.

Formats:
  table   one table per type pair (default)
  yaml    the unmapped member reports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			m, buildErr := buildMapper(cfg)
			if m == nil {
				return buildErr
			}

			w := cmd.OutOrStdout()
			if buildErr != nil {
				color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "warning: %v\n", buildErr)
			}

			switch format {
			case "table":
				return writeTables(w, m)
			case "yaml":
				return writeReports(w, m)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table or yaml")

	return cmd
}

func writeTables(w io.Writer, m *mapper.Mapper) error {
	for _, cfg := range m.Registry().All() {
		r, err := cfg.Report()
		if err != nil {
			color.New(color.FgRed).Fprintf(w, "%s: %v\n\n", cfg, err)
			continue
		}

		title := cfg.String()
		if cfg.Implicit() {
			title += " (implicit)"
		}

		color.New(color.Bold).Fprintln(w, title)

		tbl := table.NewWriter()
		tbl.SetStyle(table.StyleLight)
		tbl.AppendHeader(table.Row{"Member", "Source", "Origin", "Null safe"})

		for _, b := range cfg.Bindings() {
			source := b.SourcePath()
			if source == "" {
				source = b.Value.String()
			}

			if b.Via != "" {
				source += " via " + b.Via
			}

			tbl.AppendRow(table.Row{b.Dest, source, b.Origin, b.CheckNull})
		}

		for _, d := range r.Diagnostics.Warnings {
			hint := "-"
			if len(d.Suggestions) > 0 {
				hint = "did you mean " + strings.Join(d.Suggestions, ", ") + "?"
			}

			tbl.AppendRow(table.Row{d.Member, hint, "unmapped", ""})
		}

		for _, name := range r.Ignored {
			tbl.AppendRow(table.Row{name, "-", "ignored", ""})
		}

		tbl.AppendFooter(table.Row{fmt.Sprintf("%d bound", len(cfg.Bindings())), "", "", ""})

		fmt.Fprintln(w, tbl.Render())
		fmt.Fprintln(w)
	}

	return nil
}

func writeReports(w io.Writer, m *mapper.Mapper) error {
	var reports []mapper.Report

	for _, cfg := range m.Registry().All() {
		r, err := cfg.Report()
		if err != nil {
			return err
		}

		reports = append(reports, r)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}

	return enc.Close()
}
