package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucasjlepore/huawei-weight-export/internal/cliutil"
	"github.com/lucasjlepore/huawei-weight-export/internal/logging"
	"github.com/lucasjlepore/huawei-weight-export/pipeline"
)

func main() {
	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:           "weight_notes [--json] <json_folder>",
		Short:         "Print per-user weight notes for a Huawei Health export folder",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputDir, err := cliutil.ResolveInputDir(args[0])
			if err != nil {
				return err
			}
			log := logging.New(logging.Options{Level: "warn", Writer: stderr})
			res, err := pipeline.Collect(pipeline.Options{InputDir: inputDir, Logger: &log})
			if err != nil {
				return fmt.Errorf("read exports: %w", err)
			}
			summaries := pipeline.Summaries(res.Table)

			if jsonOut {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(summaries); err != nil {
					return fmt.Errorf("json encode failed: %w", err)
				}
				return nil
			}

			if len(summaries) == 0 {
				fmt.Fprintln(stdout, "No weight measurements found.")
				return nil
			}
			for i, s := range summaries {
				if i > 0 {
					fmt.Fprintln(stdout)
				}
				fmt.Fprintln(stdout, s.Notes)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit summaries as JSON")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}
