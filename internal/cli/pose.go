package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/phanxgames/sinew"
	"github.com/phanxgames/sinew/skelfile"
)

func (a *app) newPoseCmd() *cobra.Command {
	var (
		edits         poseFlags
		asYAML        bool
		showOverrides bool
	)
	cmd := &cobra.Command{
		Use:   "pose SKELETON",
		Short: "Print world transforms after overrides and IK",
		Example: `  sinew pose avatar.yaml --override mChest=0,0,0.12@shirt
  sinew pose arm.yaml --ik mShoulderLeft,mElbowLeft,mWristLeft --goal 0.3,0.2,1.1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skel, err := a.loadSkeleton(args[0])
			if err != nil {
				return err
			}
			if err := edits.apply(skel, a.log); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if showOverrides {
				skel.DumpAttachmentOverrides(out)
			}
			if asYAML {
				return skelfile.Write(out, skelfile.FromSkeleton(baseName(args[0]), skel))
			}
			printPose(out, skel)
			return nil
		},
	}
	edits.register(cmd.Flags())
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the posed skeleton as a definition")
	cmd.Flags().BoolVar(&showOverrides, "show-overrides", false, "list attachment overrides before the pose")
	return cmd
}

func printPose(w io.Writer, skel *sinew.Skeleton) {
	skel.UpdateWorldMatrices()
	header := color.New(color.Bold)
	_, _ = header.Fprintf(w, "%-24s %-32s %s\n", "JOINT", "WORLD POSITION", "WORLD ROTATION (w x y z)")
	for i := 0; i < skel.NumJoints(); i++ {
		j := skel.JointAt(i)
		if j.Kind() != sinew.JointKindBone {
			continue
		}
		p, q := j.WorldPosition(), j.WorldRotation()
		name := color.CyanString("%-24s", j.Name)
		if _, _, ok := j.HasAttachmentPosOverride(); ok {
			name = color.YellowString("%-24s", j.Name)
		}
		_, _ = fmt.Fprintf(w, "%s %-32s %.4f %.4f %.4f %.4f\n", name,
			fmt.Sprintf("%.4f %.4f %.4f", p[0], p[1], p[2]),
			q.W, q.V[0], q.V[1], q.V[2])
	}
}
