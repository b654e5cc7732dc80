package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"casevalue-backend/config"
	"casevalue-backend/logging"
	"casevalue-backend/models"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

var (
	cfg     *config.Config
	output  string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:           "casevalue",
	Short:         "Predict legal settlement values from comparable cases",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		_ = godotenv.Load()

		loaded, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		if err := logging.Setup(loaded.LogLevel, loaded.LogFormat); err != nil {
			return err
		}
		cfg = loaded

		switch strings.ToLower(output) {
		case outputTable, outputJSON:
		default:
			return fmt.Errorf("unknown output format %q", output)
		}
		if noColor {
			color.NoColor = true
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", outputTable, "Output format: table or json")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.SetContext(context.Background())
}

// readCase loads a case record from a JSON file, or stdin for "-".
func readCase(path string) (models.CaseRecord, error) {
	var c models.CaseRecord

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return c, fmt.Errorf("failed to read case file: %w", err)
	}

	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse case file: %w", err)
	}
	return c, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
