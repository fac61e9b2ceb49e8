// Package skelfile reads and writes skeleton definitions as YAML.
//
// A definition is a tree of joints. Each joint gives its local position,
// rotation as XYZ Euler angles in degrees, scale, skin pivot and bone end:
//
//	name: avatar
//	joints:
//	  - name: mPelvis
//	    pos: [0, 0, 1.067]
//	    pivot: [0, 0, 1.067]
//	    aliases: [hip]
//	    children:
//	      - name: mTorso
//	        pos: [0, 0, 0.084]
//	        pivot: [0, 0, 0.084]
//	      - name: PELVIS
//	        kind: collision_volume
//	        scale: [0.12, 0.16, 0.17]
package skelfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/sinew"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("skelfile: invalid definition")

// Vec3 is a YAML sequence of three numbers.
type Vec3 [3]float64

// Definition is a whole skeleton.
type Definition struct {
	Name      string     `yaml:"name"`
	MaxJoints int        `yaml:"max_joints,omitempty"`
	Joints    []JointDef `yaml:"joints"`
}

// JointDef is one joint and its subtree. Nil vectors take their defaults:
// zero for Pos, Rot, Pivot and End, one for Scale.
type JointDef struct {
	Name     string     `yaml:"name"`
	Kind     string     `yaml:"kind,omitempty"`
	Support  string     `yaml:"support,omitempty"`
	Pos      *Vec3      `yaml:"pos,omitempty,flow"`
	Rot      *Vec3      `yaml:"rot,omitempty,flow"`
	Scale    *Vec3      `yaml:"scale,omitempty,flow"`
	Pivot    *Vec3      `yaml:"pivot,omitempty,flow"`
	End      *Vec3      `yaml:"end,omitempty,flow"`
	Aliases  []string   `yaml:"aliases,omitempty,flow"`
	Children []JointDef `yaml:"children,omitempty"`
}

// Load reads a definition from a file.
func Load(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("skelfile: %w", err)
	}
	defer f.Close()
	def, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a definition. Unknown fields are rejected.
func Parse(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("skelfile: parse: %w", err)
	}
	return &def, nil
}

// Write encodes def as YAML.
func Write(w io.Writer, def *Definition) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(def); err != nil {
		return fmt.Errorf("skelfile: encode: %w", err)
	}
	return enc.Close()
}

// Build creates a skeleton from def. A zero cfg.MaxJoints takes the
// definition's max_joints, then sinew.MaxAnimatedJoints. Every joint's
// current position and scale become its defaults.
func Build(def *Definition, cfg sinew.SkeletonConfig) (*sinew.Skeleton, error) {
	if cfg.MaxJoints == 0 {
		cfg.MaxJoints = def.MaxJoints
	}
	skel := sinew.NewSkeleton(cfg)
	for i := range def.Joints {
		if err := build(skel, &def.Joints[i], nil); err != nil {
			return nil, err
		}
	}
	return skel, nil
}

func build(skel *sinew.Skeleton, jd *JointDef, parent *sinew.Joint) error {
	if jd.Name == "" {
		return fmt.Errorf("%w: joint without a name", ErrInvalid)
	}
	kind, ok := sinew.ParseJointKind(jd.Kind)
	if !ok {
		return fmt.Errorf("%w: joint %q: unknown kind %q", ErrInvalid, jd.Name, jd.Kind)
	}
	j, err := skel.AddJoint(jd.Name, kind, parent)
	if err != nil {
		return fmt.Errorf("skelfile: %w", err)
	}

	j.SetSupport(sinew.ParseSupport(jd.Support))
	j.SetPosition(jd.Pos.or(0), false)
	if jd.Rot != nil {
		r := jd.Rot.or(0)
		j.SetRotation(sinew.EulerToQuat(
			mgl64.DegToRad(r[0]), mgl64.DegToRad(r[1]), mgl64.DegToRad(r[2])))
	}
	j.SetScale(jd.Scale.or(1), false)
	j.SetSkinOffset(jd.Pivot.or(0))
	j.SetEnd(jd.End.or(0))
	j.SetDefaultFromCurrent()

	for _, a := range jd.Aliases {
		if err := skel.AddAlias(a, jd.Name); err != nil {
			return fmt.Errorf("skelfile: %w", err)
		}
	}
	for i := range jd.Children {
		if err := build(skel, &jd.Children[i], j); err != nil {
			return err
		}
	}
	return nil
}

func (v *Vec3) or(def float64) mgl64.Vec3 {
	if v == nil {
		return mgl64.Vec3{def, def, def}
	}
	return mgl64.Vec3(*v)
}

// FromSkeleton captures skel's current local transforms as a definition.
// Aliases are not recorded.
func FromSkeleton(name string, skel *sinew.Skeleton) *Definition {
	def := &Definition{Name: name, MaxJoints: skel.MaxJoints()}
	for _, r := range skel.Roots() {
		def.Joints = append(def.Joints, fromJoint(r))
	}
	return def
}

func fromJoint(j *sinew.Joint) JointDef {
	jd := JointDef{Name: j.Name}
	if j.Kind() != sinew.JointKindBone {
		jd.Kind = j.Kind().String()
	}
	if j.Support() != sinew.SupportBase {
		jd.Support = j.Support().String()
	}
	jd.Pos = vecOrNil(j.Position(), 0)
	jd.Scale = vecOrNil(j.Scale(), 1)
	jd.Pivot = vecOrNil(j.SkinOffset(), 0)
	jd.End = vecOrNil(j.End(), 0)
	if j.Rotation() != mgl64.QuatIdent() {
		x, y, z := quatToEuler(j.Rotation())
		jd.Rot = &Vec3{mgl64.RadToDeg(x), mgl64.RadToDeg(y), mgl64.RadToDeg(z)}
	}
	for _, c := range j.Children() {
		jd.Children = append(jd.Children, fromJoint(c))
	}
	return jd
}

func vecOrNil(v mgl64.Vec3, def float64) *Vec3 {
	if v == (mgl64.Vec3{def, def, def}) {
		return nil
	}
	out := Vec3(v)
	return &out
}

// quatToEuler inverts sinew.EulerToQuat, returning radians.
func quatToEuler(q mgl64.Quat) (x, y, z float64) {
	m := q.Normalize().Mat4().Mat3()
	y = math.Asin(math.Max(-1, math.Min(1, -m.At(2, 0))))
	x = math.Atan2(m.At(2, 1), m.At(2, 2))
	z = math.Atan2(m.At(1, 0), m.At(0, 0))
	return x, y, z
}
