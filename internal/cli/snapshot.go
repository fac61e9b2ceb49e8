package cli

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/phanxgames/sinew"
	"github.com/phanxgames/sinew/snapshot"
)

func (a *app) newSnapshotCmd() *cobra.Command {
	var (
		edits  poseFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "snapshot SKELETON",
		Short: "Render the posed skeleton to WebP",
		Long: `snapshot renders the skeleton after overrides and IK to a lossless WebP
image. With --frames above one it writes a turntable of that many images,
rotating the camera about +Z, into the --output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skel, err := a.loadSkeleton(args[0])
			if err != nil {
				return err
			}
			if err := edits.apply(skel, a.log); err != nil {
				return err
			}

			opts := snapshot.Options{
				Size:  a.v.GetInt("snapshot.size"),
				Yaw:   a.v.GetFloat64("snapshot.yaw"),
				Pitch: a.v.GetFloat64("snapshot.pitch"),
			}
			if a.v.GetBool("snapshot.volumes") {
				opts.Kinds = []sinew.JointKind{sinew.JointKindBone, sinew.JointKindCollisionVolume}
			}

			frames := a.v.GetInt("snapshot.frames")
			if frames <= 1 {
				if err := snapshot.WriteWebP(output, snapshot.Render(skel, opts)); err != nil {
					return err
				}
				a.log.WithField("file", output).Info("snapshot written")
				return nil
			}

			base := baseName(args[0])
			list := make([]snapshot.Frame, frames)
			yaw := opts.Yaw
			for i := range list {
				opts.Yaw = yaw + 360*float64(i)/float64(frames)
				list[i] = snapshot.Frame{
					Name:  fmt.Sprintf("%s_%03d", base, i),
					Image: snapshot.Render(skel, opts),
				}
			}
			if err := snapshot.EncodeFrames(cmd.Context(), output, list, a.v.GetInt("snapshot.workers")); err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{
				"dir":    filepath.Clean(output),
				"frames": frames,
			}).Info("turntable written")
			return nil
		},
	}
	edits.register(cmd.Flags())
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "pose.webp", "output file, or directory with --frames")
	f.Int("size", 256, "image width and height in pixels")
	f.Float64("yaw", 0, "camera yaw in degrees")
	f.Float64("pitch", 0, "camera pitch in degrees")
	f.Int("frames", 1, "turntable frame count")
	f.Int("workers", 0, "parallel encoders (default GOMAXPROCS)")
	f.Bool("volumes", false, "draw collision volumes too")
	for _, key := range []string{"size", "yaw", "pitch", "frames", "workers", "volumes"} {
		_ = a.v.BindPFlag("snapshot."+key, f.Lookup(key))
	}
	return cmd
}
