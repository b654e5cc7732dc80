package main

import (
	"fmt"

	"casevalue-backend/features"
	"casevalue-backend/logging"

	"github.com/spf13/cobra"
)

var featuresCmd = &cobra.Command{
	Use:   "features <case.json|->",
	Short: "Extract case features without contacting any external service",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		c, err := readCase(args[0])
		if err != nil {
			return err
		}

		f := features.NewExtractor(features.WithLogger(logging.Component("cli"))).Extract(c)
		if output == outputJSON {
			return printJSON(f)
		}
		fmt.Print(features.Format(f))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}
