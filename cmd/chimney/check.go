package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Derive without writing and print the full report",
	Long: `check runs derivation for every transformer pair and prints the
report, including notes and suggestions, without writing any files.
It exits non-zero when any pair fails to derive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		format := viper.GetString("format")
		if format != "text" && format != "json" {
			return fmt.Errorf("unknown format %q: want text or json", format)
		}

		s, err := loadSession(viper.GetString("rules"))
		if err != nil {
			return err
		}

		derr := s.derive()
		if s.funcErr != nil {
			cmd.PrintErrln("warning:", s.funcErr)
		}

		if format == "json" {
			data, err := s.report.JSON()
			if err != nil {
				return err
			}
			cmd.Println(string(data))
		} else {
			cmd.Print(s.report.Text())
		}

		return derr
	},
}

func init() {
	checkCmd.Flags().StringP("rules", "f", "chimney.yaml", "rules file to derive from")
	checkCmd.Flags().String("format", "text", "report format: text or json")
}
