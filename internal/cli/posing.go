package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/phanxgames/sinew"
)

// meshNamespace derives stable mesh ids from mesh names given on the
// command line.
var meshNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/phanxgames/sinew/mesh"))

// poseFlags are the pose edits shared by the pose and snapshot commands.
type poseFlags struct {
	posOverrides   []string
	scaleOverrides []string
	ik             string
	goal           string
	pole           string
	bendAxis       string
	twist          float64
}

func (p *poseFlags) register(fs *pflag.FlagSet) {
	fs.StringArrayVar(&p.posOverrides, "override", nil,
		"attachment position override JOINT=X,Y,Z[@MESH] (repeatable)")
	fs.StringArrayVar(&p.scaleOverrides, "scale-override", nil,
		"attachment scale override JOINT=X,Y,Z[@MESH] (repeatable)")
	fs.StringVar(&p.ik, "ik", "", "IK chain A,B,C solved toward --goal")
	fs.StringVar(&p.goal, "goal", "", "IK goal world position X,Y,Z")
	fs.StringVar(&p.pole, "pole", "", "IK pole vector X,Y,Z (default 1,0,0)")
	fs.StringVar(&p.bendAxis, "bend-axis", "", "force the IK mid joint to bend about X,Y,Z")
	fs.Float64Var(&p.twist, "twist", 0, "IK twist in degrees")
}

// apply edits skel in place: overrides first, then IK.
func (p *poseFlags) apply(skel *sinew.Skeleton, log *logrus.Logger) error {
	for _, s := range p.posOverrides {
		j, id, v, err := parseOverride(skel, s)
		if err != nil {
			return err
		}
		if j.AddAttachmentPosOverride(id, v) {
			log.WithFields(logrus.Fields{"joint": j.Name, "mesh": id}).Debug("position override active")
		}
	}
	for _, s := range p.scaleOverrides {
		j, id, v, err := parseOverride(skel, s)
		if err != nil {
			return err
		}
		if j.AddAttachmentScaleOverride(id, v) {
			log.WithFields(logrus.Fields{"joint": j.Name, "mesh": id}).Debug("scale override active")
		}
	}
	if p.ik == "" {
		if p.goal != "" {
			return errors.New("--goal requires --ik")
		}
		return nil
	}
	return p.solve(skel)
}

func (p *poseFlags) solve(skel *sinew.Skeleton) error {
	names := strings.Split(p.ik, ",")
	if len(names) != 3 {
		return fmt.Errorf("--ik: want three joint names, got %q", p.ik)
	}
	var chain [3]*sinew.Joint
	for i, n := range names {
		chain[i] = skel.Joint(strings.TrimSpace(n))
		if chain[i] == nil {
			return fmt.Errorf("--ik: joint %q: %w", n, sinew.ErrJointNotFound)
		}
	}
	if p.goal == "" {
		return errors.New("--ik requires --goal")
	}
	target, err := parseVec3(p.goal)
	if err != nil {
		return fmt.Errorf("--goal: %w", err)
	}

	// The goal lives in its own skeleton so the posed one keeps its capacity.
	goalSkel := sinew.NewSkeleton(sinew.SkeletonConfig{MaxJoints: 1})
	goal, err := goalSkel.AddJoint("goal", sinew.JointKindAttachmentPoint, nil)
	if err != nil {
		return err
	}
	goal.SetPosition(target, false)

	solver := sinew.NewTwoBoneSolver()
	solver.SetupJoints(chain[0], chain[1], chain[2], goal)
	if p.pole != "" {
		v, err := parseVec3(p.pole)
		if err != nil {
			return fmt.Errorf("--pole: %w", err)
		}
		solver.SetPoleVector(v)
	}
	if p.bendAxis != "" {
		v, err := parseVec3(p.bendAxis)
		if err != nil {
			return fmt.Errorf("--bend-axis: %w", err)
		}
		solver.SetBAxis(v)
	}
	solver.SetTwist(mgl64.DegToRad(p.twist))
	solver.Solve()
	return nil
}

func parseOverride(skel *sinew.Skeleton, s string) (*sinew.Joint, uuid.UUID, mgl64.Vec3, error) {
	name, rest, ok := strings.Cut(s, "=")
	if !ok {
		return nil, uuid.Nil, mgl64.Vec3{}, fmt.Errorf("override %q: want JOINT=X,Y,Z[@MESH]", s)
	}
	j := skel.Joint(name)
	if j == nil {
		return nil, uuid.Nil, mgl64.Vec3{}, fmt.Errorf("override %q: %w", s, sinew.ErrJointNotFound)
	}
	vec, mesh, _ := strings.Cut(rest, "@")
	v, err := parseVec3(vec)
	if err != nil {
		return nil, uuid.Nil, mgl64.Vec3{}, fmt.Errorf("override %q: %w", s, err)
	}
	return j, meshID(mesh), v, nil
}

// meshID accepts a UUID or derives one from a mesh name. An empty name is
// the mesh "cli".
func meshID(mesh string) uuid.UUID {
	if id, err := uuid.Parse(mesh); err == nil {
		return id
	}
	if mesh == "" {
		mesh = "cli"
	}
	return uuid.NewSHA1(meshNamespace, []byte(mesh))
}

func parseVec3(s string) (mgl64.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("vector %q: want X,Y,Z", s)
	}
	var v mgl64.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = f
	}
	return v, nil
}
