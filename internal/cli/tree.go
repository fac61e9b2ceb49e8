package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/sinew/skelfile"
)

func (a *app) newTreeCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "tree SKELETON",
		Short: "Print the joint hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skel, err := a.loadSkeleton(args[0])
			if err != nil {
				return err
			}
			if asYAML {
				return skelfile.Write(cmd.OutOrStdout(), skelfile.FromSkeleton(baseName(args[0]), skel))
			}
			skel.DumpTree(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the normalized definition instead")
	return cmd
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
