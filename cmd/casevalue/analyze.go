package main

import (
	"context"
	"os"
	"time"

	"casevalue-backend/bootstrap"
	"casevalue-backend/logging"
	"casevalue-backend/service"

	"github.com/spf13/cobra"
)

var (
	analyzeTopK    int
	analyzeTimeout time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <case.json|->",
	Short: "Run a full settlement analysis for a case",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeTopK, "top-k", "k", 0, "Number of comparable cases (defaults to config)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "Overall analysis timeout")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	c, err := readCase(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	app, err := bootstrap.New(ctx, cfg, logging.Component("cli"))
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.Service.AnalyzeCase(ctx, service.AnalyzeCaseRequest{Case: c, TopK: analyzeTopK})
	if res != nil {
		var printErr error
		if output == outputJSON {
			printErr = printJSON(res.Analysis)
		} else {
			printErr = printAnalysis(os.Stdout, res.Analysis)
		}
		if err == nil {
			err = printErr
		}
	}
	return err
}
