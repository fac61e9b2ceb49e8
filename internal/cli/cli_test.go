package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/webp"

	"github.com/phanxgames/sinew"
)

const armFile = "testdata/arm.yaml"

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { sinew.SetLogger(nil) })

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestTree(t *testing.T) {
	out, _, err := run(t, "tree", armFile)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "mShoulderLeft [bone]") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  mElbowLeft [bone]") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "    mWristLeft [bone]") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestTreeYAML(t *testing.T) {
	out, _, err := run(t, "tree", "--yaml", armFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "name: arm\n") {
		t.Errorf("output should start with the definition name:\n%s", out)
	}
	if !strings.Contains(out, "kind: collision_volume") {
		t.Errorf("output missing collision volume kind:\n%s", out)
	}
}

func TestTreeMissingFile(t *testing.T) {
	if _, _, err := run(t, "tree", "testdata/missing.yaml"); err == nil {
		t.Error("expected error")
	}
}

func poseLine(t *testing.T, out, joint string) string {
	t.Helper()
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, joint+" ") {
			return l
		}
	}
	t.Fatalf("no line for %s in:\n%s", joint, out)
	return ""
}

// worldPos parses the world position columns of a pose line.
func worldPos(t *testing.T, line string) mgl64.Vec3 {
	t.Helper()
	f := strings.Fields(line)
	if len(f) < 4 {
		t.Fatalf("short pose line %q", line)
	}
	var v mgl64.Vec3
	for i := range v {
		x, err := strconv.ParseFloat(f[i+1], 64)
		if err != nil {
			t.Fatal(err)
		}
		v[i] = x
	}
	return v
}

func assertPos(t *testing.T, out, joint string, want mgl64.Vec3) {
	t.Helper()
	if got := worldPos(t, poseLine(t, out, joint)); !got.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("%s world = %v, want %v", joint, got, want)
	}
}

func TestPose(t *testing.T) {
	out, _, err := run(t, "pose", armFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "JOINT") {
		t.Errorf("missing header:\n%s", out)
	}
	if strings.Contains(out, "L_LOWER_ARM") {
		t.Error("collision volumes should not be listed")
	}
	assertPos(t, out, "mWristLeft", mgl64.Vec3{-0.2, 0.33, 1.2})
}

func TestPoseOverride(t *testing.T) {
	out, _, err := run(t, "pose", armFile, "--show-overrides",
		"--override", "mElbowLeft=0,0.3,0@sleeve",
		"--override", "mElbowLeft=0,0.5,0@cuff")
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out, "mElbowLeft pos mesh="); n != 2 {
		t.Errorf("override lines = %d, want 2:\n%s", n, out)
	}
	sleeve, cuff := meshID("sleeve"), meshID("cuff")
	want := mgl64.Vec3{0, 0.38, 1.2}
	if bytes.Compare(cuff[:], sleeve[:]) > 0 {
		want = mgl64.Vec3{0, 0.58, 1.2}
	}
	assertPos(t, out, "mElbowLeft", want)
}

func TestPoseOverrideUnknownJoint(t *testing.T) {
	_, _, err := run(t, "pose", armFile, "--override", "mTail=0,0,1")
	if !errors.Is(err, sinew.ErrJointNotFound) {
		t.Errorf("err = %v, want ErrJointNotFound", err)
	}
}

func TestPoseIK(t *testing.T) {
	out, _, err := run(t, "pose", armFile,
		"--ik", "mShoulderLeft,mElbowLeft,mWristLeft",
		"--goal", "0,0.35,1.4")
	if err != nil {
		t.Fatal(err)
	}
	assertPos(t, out, "mWristLeft", mgl64.Vec3{0, 0.35, 1.4})
}

func TestPoseIKRequiresGoal(t *testing.T) {
	if _, _, err := run(t, "pose", armFile, "--ik", "mShoulderLeft,mElbowLeft,mWristLeft"); err == nil {
		t.Error("expected error without --goal")
	}
	if _, _, err := run(t, "pose", armFile, "--goal", "1,2,3"); err == nil {
		t.Error("expected error without --ik")
	}
}

func TestSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.webp")
	_, _, err := run(t, "snapshot", armFile, "-o", path, "--size", "48")
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := webp.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 48 || cfg.Height != 48 {
		t.Errorf("size = %dx%d, want 48x48", cfg.Width, cfg.Height)
	}
}

func TestSnapshotTurntable(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, "snapshot", armFile, "-o", dir, "--size", "16", "--frames", "4", "--workers", "2")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"arm_000.webp", "arm_003.webp"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Error(err)
		}
	}
}

func TestSnapshotSizeFromEnv(t *testing.T) {
	t.Setenv("SINEW_SNAPSHOT_SIZE", "24")
	path := filepath.Join(t.TempDir(), "env.webp")
	if _, _, err := run(t, "snapshot", armFile, "-o", path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := webp.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 24 {
		t.Errorf("width = %d, want 24", cfg.Width)
	}
}

func TestConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "sinew.yaml")
	if err := os.WriteFile(cfg, []byte("max_joints: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := run(t, "--config", cfg, "tree", armFile)
	if !errors.Is(err, sinew.ErrTooManyJoints) {
		t.Errorf("err = %v, want ErrTooManyJoints", err)
	}
}

func TestConfigFileMissing(t *testing.T) {
	if _, _, err := run(t, "--config", "testdata/nope.yaml", "tree", armFile); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestBadVerbosity(t *testing.T) {
	if _, _, err := run(t, "-v", "chatty", "tree", armFile); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestDebugLogsGoToStderr(t *testing.T) {
	_, errOut, err := run(t, "-v", "debug", "tree", armFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut, "skeleton loaded") {
		t.Errorf("stderr = %q, want skeleton loaded", errOut)
	}
}

func TestParseVec3(t *testing.T) {
	v, err := parseVec3("1, -2.5,3e-1")
	if err != nil {
		t.Fatal(err)
	}
	if v[0] != 1 || v[1] != -2.5 || v[2] != 0.3 {
		t.Errorf("parseVec3 = %v", v)
	}
	for _, bad := range []string{"", "1,2", "1,2,x", "1,2,3,4"} {
		if _, err := parseVec3(bad); err == nil {
			t.Errorf("parseVec3(%q) should fail", bad)
		}
	}
}

func TestMeshID(t *testing.T) {
	if meshID("shirt") != meshID("shirt") {
		t.Error("mesh ids should be stable")
	}
	if meshID("shirt") == meshID("pants") {
		t.Error("different meshes should differ")
	}
	if meshID("") != meshID("cli") {
		t.Error("empty mesh should map to cli")
	}
	const raw = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	if meshID(raw).String() != raw {
		t.Error("UUID mesh names should be used verbatim")
	}
}
