// Command casevalue runs settlement analyses and schema maintenance from the shell.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
