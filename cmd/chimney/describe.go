package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eugkhp/chimney/internal/shape"
)

// describeMaxDepth bounds the rendered shape tree.
const describeMaxDepth = 4

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Inspect one type and print its shape tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		ref := viper.GetString("type")
		pkgPath, ok := pkgOfTypeRef(ref)
		if !ok {
			return fmt.Errorf("invalid type reference %q: want pkgpath.TypeName", ref)
		}

		loader := shape.NewLoader()
		if err := loader.Load(pkgPath); err != nil {
			return err
		}
		t, err := loader.ResolveType(ref)
		if err != nil {
			return err
		}

		opt := shape.Options{
			Getters: viper.GetBool("getters"),
			Setters: viper.GetBool("setters"),
		}
		ins := shape.NewInspector()
		sh := ins.Inspect(t, opt)

		if viper.GetBool("raw") {
			cmd.Print(spew.Sdump(sh))
			return nil
		}

		cmd.Print(ins.Describe(sh, opt, describeMaxDepth))
		return nil
	},
}

func init() {
	describeCmd.Flags().StringP("type", "t", "", "type to inspect, as pkgpath.TypeName")
	describeCmd.Flags().Bool("raw", false, "dump the raw shape model")
	describeCmd.Flags().Bool("getters", false, "admit accessor methods as source members")
	describeCmd.Flags().Bool("setters", false, "admit Set* methods as destination members")
	_ = describeCmd.MarkFlagRequired("type")
}
