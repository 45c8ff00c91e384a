// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/political-dashboard/cliparse"
	"github.com/danielhkuo/political-dashboard/export"
	"github.com/danielhkuo/political-dashboard/survey"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "political-dashboard",
		Short:         "Serve survey views of a political attitudes workbook",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runServe,
	}
	cliparse.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server (default)",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "countries",
			Short: "Print the countries present on both sheets",
			Args:  cobra.NoArgs,
			RunE:  runCountries,
		},
		newExportCmd(),
	)
	return root
}

func loadDataset(cmd *cobra.Command) (*survey.Dataset, error) {
	cfg, err := cliparse.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	return survey.Load(cfg.DataFile, loadOptions(cfg))
}

func loadOptions(cfg cliparse.Config) survey.LoadOptions {
	return survey.LoadOptions{
		ProblemsSheet:    cfg.ProblemsSheet,
		OrientationSheet: cfg.OrientationSheet,
	}
}

func runCountries(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}
	for _, c := range ds.Countries() {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the normalized dataset as an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := loadDataset(cmd)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return errors.Wrapf(err, "create %q", out)
			}
			if err := export.Workbook(f, ds); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return errors.Wrapf(err, "close %q", out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", export.WorkbookFilename, "Output file")
	return cmd
}
