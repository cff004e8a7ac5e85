package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucasjlepore/huawei-weight-export/internal/cliutil"
	"github.com/lucasjlepore/huawei-weight-export/internal/logging"
	"github.com/lucasjlepore/huawei-weight-export/pipeline"
)

const usageLine = "usage: weight_export <json_folder> [<out_folder>]"

var errUsage = errors.New(usageLine)

func main() {
	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}

// newRootCommand takes its arguments verbatim: the tool has no flags, so a
// folder named "-x" or "--help" is still a folder.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weight_export <json_folder> [<out_folder>]",
		Short: "Export Huawei Health weight and body-fat readings to per-user CSV files",
		Long: "Without <out_folder>, files go to an \"out\" folder next to the executable.\n" +
			"Under \"go run\" that is a temporary build directory, so pass <out_folder> explicitly.",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableFlagParsing: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return errUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			outArg := ""
			if len(args) == 2 {
				outArg = args[1]
			}
			return export(args[0], outArg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func export(inArg, outArg string, stdout, stderr io.Writer) error {
	inputDir, err := cliutil.ResolveInputDir(inArg)
	if err != nil {
		return err
	}
	outDir, err := cliutil.ResolveOutDir(outArg)
	if err != nil {
		return err
	}

	log := logging.New(logging.Options{Level: "warn", Writer: stderr})
	_, err = pipeline.Run(pipeline.Options{
		InputDir: inputDir,
		OutDir:   outDir,
		Format:   pipeline.FormatCSV,
		Report:   stdout,
		Logger:   &log,
	})
	return err
}
