package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eugkhp/chimney/internal/gen"
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Derive every transformer pair and write the generated Go file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		s, err := loadSession(viper.GetString("rules"))
		if err != nil {
			return err
		}

		derr := s.derive()
		if s.funcErr != nil {
			cmd.PrintErrln("warning:", s.funcErr)
		}
		if derr != nil {
			cmd.PrintErr(s.report.Text())
			return derr
		}

		outputDir := viper.GetString("output")
		files, err := s.generate(outputDir, viper.GetString("package"))
		if err != nil {
			return err
		}
		if err := gen.WriteFiles(files, outputDir); err != nil {
			return err
		}

		for _, f := range files {
			cmd.Println("wrote", filepath.Join(outputDir, f.Filename))
		}
		return nil
	},
}

func init() {
	genCmd.Flags().StringP("rules", "f", "chimney.yaml", "rules file to derive from")
	genCmd.Flags().StringP("output", "o", ".", "directory for generated files")
	genCmd.Flags().StringP("package", "p", "", "package name of the generated file")
}
