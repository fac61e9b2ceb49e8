package sinew

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 64

func debugCheckTreeDepth(j *Joint) {
	depth := 0
	for p := j; p != nil; p = p.Parent() {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[sinew] warning: tree depth %d exceeds %d (joint %q)\n",
			depth, debugMaxTreeDepth, j.Name)
	}
}

// debugCheckChildCount warns on stderr if a joint has an unusual number of
// children.
const debugMaxChildCount = 32

func debugCheckChildCount(j *Joint) {
	if len(j.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[sinew] warning: joint %q has %d children (threshold %d)\n",
			j.Name, len(j.children), debugMaxChildCount)
	}
}

// DumpTree writes the joint hierarchy with local and world positions, one
// joint per line, indented by depth.
func (s *Skeleton) DumpTree(w io.Writer) {
	for _, r := range s.Roots() {
		dumpJoint(w, r, 0)
	}
}

func dumpJoint(w io.Writer, j *Joint, depth int) {
	p, wp := j.Position(), j.WorldPosition()
	_, _ = fmt.Fprintf(w, "%s%s [%s] pos=(%.4f %.4f %.4f) world=(%.4f %.4f %.4f)\n",
		strings.Repeat("  ", depth), j.Name, j.kind,
		p[0], p[1], p[2], wp[0], wp[1], wp[2])
	for _, c := range j.Children() {
		dumpJoint(w, c, depth+1)
	}
}

// DumpAttachmentOverrides writes every position and scale override on the
// skeleton, marking the active one of each joint.
func (s *Skeleton) DumpAttachmentOverrides(w io.Writer) {
	for i := range s.joints {
		j := &s.joints[i]
		dumpOverrides(w, j, "pos", &j.posOverrides)
		dumpOverrides(w, j, "scale", &j.scaleOverrides)
	}
}

func dumpOverrides(w io.Writer, j *Joint, channel string, o *OverrideMap) {
	if o.Count() == 0 {
		return
	}
	active := o.activeID()
	for _, e := range o.Entries() {
		mark := " "
		if e.ID == active {
			mark = "*"
		}
		_, _ = fmt.Fprintf(w, "%s %s %s mesh=%s (%.4f %.4f %.4f)\n",
			mark, j.Name, channel, e.ID, e.Value[0], e.Value[1], e.Value[2])
	}
}
