package sinew

import (
	"bytes"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// OverrideMap holds values proposed by attachments for one joint channel,
// keyed by the attachment's mesh id. When several attachments propose a
// value, the entry with the greatest key wins.
//
// The zero value is an empty map ready to use.
type OverrideMap struct {
	m map[uuid.UUID]mgl64.Vec3
}

// OverrideEntry is one key/value pair of an OverrideMap.
type OverrideEntry struct {
	ID    uuid.UUID
	Value mgl64.Vec3
}

// Add inserts or replaces the value proposed by id.
func (o *OverrideMap) Add(id uuid.UUID, v mgl64.Vec3) {
	if o.m == nil {
		o.m = make(map[uuid.UUID]mgl64.Vec3)
	}
	o.m[id] = v
}

// Remove deletes id and reports whether it was present.
func (o *OverrideMap) Remove(id uuid.UUID) bool {
	if _, ok := o.m[id]; !ok {
		return false
	}
	delete(o.m, id)
	return true
}

// Count returns the number of entries.
func (o *OverrideMap) Count() int { return len(o.m) }

// Clear removes every entry.
func (o *OverrideMap) Clear() { clear(o.m) }

// FindActiveOverride returns the entry with the greatest key. ok is false
// when the map is empty.
func (o *OverrideMap) FindActiveOverride() (id uuid.UUID, v mgl64.Vec3, ok bool) {
	for k, val := range o.m {
		if !ok || bytes.Compare(k[:], id[:]) > 0 {
			id, v, ok = k, val, true
		}
	}
	return id, v, ok
}

// Entries returns every entry ordered by ascending key.
func (o *OverrideMap) Entries() []OverrideEntry {
	out := make([]OverrideEntry, 0, len(o.m))
	for k, v := range o.m {
		out = append(out, OverrideEntry{ID: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out
}

// distinctValues returns the set of values in key order.
func (o *OverrideMap) distinctValues() []mgl64.Vec3 {
	var out []mgl64.Vec3
	for _, e := range o.Entries() {
		seen := false
		for _, v := range out {
			if v == e.Value {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, e.Value)
		}
	}
	return out
}

// activeID returns the winning key, or uuid.Nil when empty.
func (o *OverrideMap) activeID() uuid.UUID {
	id, _, _ := o.FindActiveOverride()
	return id
}

// --- Joint position overrides ---

// AddAttachmentPosOverride pins the joint's position to pos on behalf of
// the attachment mesh id. The first override records the current position
// so it can be restored once all overrides are gone. The nil UUID is
// ignored. It reports whether the winning override changed.
func (j *Joint) AddAttachmentPosOverride(id uuid.UUID, pos mgl64.Vec3) bool {
	if id == uuid.Nil {
		return false
	}
	if j.posOverrides.Count() == 0 {
		j.posBeforeOverrides = j.xform.position
	}
	before := j.posOverrides.activeID()
	j.posOverrides.Add(id, pos)
	after := j.posOverrides.activeID()
	j.updatePos()
	if before != after {
		j.overrideChanged(OverridePosition, after)
	}
	return before != after
}

// RemoveAttachmentPosOverride drops the override proposed by id. It reports
// whether the winning override changed.
func (j *Joint) RemoveAttachmentPosOverride(id uuid.UUID) bool {
	if id == uuid.Nil {
		return false
	}
	before := j.posOverrides.activeID()
	if !j.posOverrides.Remove(id) {
		return false
	}
	after := j.posOverrides.activeID()
	j.updatePos()
	if before != after {
		j.overrideChanged(OverridePosition, after)
	}
	return before != after
}

// HasAttachmentPosOverride returns the winning position override.
func (j *Joint) HasAttachmentPosOverride() (pos mgl64.Vec3, id uuid.UUID, ok bool) {
	id, pos, ok = j.posOverrides.FindActiveOverride()
	return pos, id, ok
}

// ClearAttachmentPosOverrides drops every position override and restores
// the position recorded before the first one was added.
func (j *Joint) ClearAttachmentPosOverrides() {
	if j.posOverrides.Count() == 0 {
		return
	}
	j.posOverrides.Clear()
	j.SetPosition(j.posBeforeOverrides, false)
	j.overrideChanged(OverridePosition, uuid.Nil)
}

// AllAttachmentPosOverrides returns the number of position overrides and
// the distinct values they propose.
func (j *Joint) AllAttachmentPosOverrides() (int, []mgl64.Vec3) {
	return j.posOverrides.Count(), j.posOverrides.distinctValues()
}

// PosOverrides exposes the position override map for inspection.
func (j *Joint) PosOverrides() *OverrideMap { return &j.posOverrides }

// AboveJointPosThreshold reports whether pos differs from the default
// position by more than JointPosThreshold.
func (j *Joint) AboveJointPosThreshold(pos mgl64.Vec3) bool {
	d := pos.Sub(j.defaultPos)
	return d.Dot(d) > JointPosThreshold*JointPosThreshold
}

func (j *Joint) updatePos() {
	pos := j.posBeforeOverrides
	if _, active, ok := j.posOverrides.FindActiveOverride(); ok {
		pos = active
	}
	j.SetPosition(pos, false)
}

// --- Joint scale overrides ---

// AddAttachmentScaleOverride pins the joint's scale to scale on behalf of
// the attachment mesh id. See AddAttachmentPosOverride.
func (j *Joint) AddAttachmentScaleOverride(id uuid.UUID, scale mgl64.Vec3) bool {
	if id == uuid.Nil {
		return false
	}
	if j.scaleOverrides.Count() == 0 {
		j.scaleBeforeOverrides = j.xform.scale
	}
	before := j.scaleOverrides.activeID()
	j.scaleOverrides.Add(id, scale)
	after := j.scaleOverrides.activeID()
	j.updateScale()
	if before != after {
		j.overrideChanged(OverrideScale, after)
	}
	return before != after
}

// RemoveAttachmentScaleOverride drops the scale override proposed by id.
// It reports whether the winning override changed.
func (j *Joint) RemoveAttachmentScaleOverride(id uuid.UUID) bool {
	if id == uuid.Nil {
		return false
	}
	before := j.scaleOverrides.activeID()
	if !j.scaleOverrides.Remove(id) {
		return false
	}
	after := j.scaleOverrides.activeID()
	j.updateScale()
	if before != after {
		j.overrideChanged(OverrideScale, after)
	}
	return before != after
}

// HasAttachmentScaleOverride returns the winning scale override.
func (j *Joint) HasAttachmentScaleOverride() (scale mgl64.Vec3, id uuid.UUID, ok bool) {
	id, scale, ok = j.scaleOverrides.FindActiveOverride()
	return scale, id, ok
}

// ClearAttachmentScaleOverrides drops every scale override and restores the
// scale recorded before the first one was added.
func (j *Joint) ClearAttachmentScaleOverrides() {
	if j.scaleOverrides.Count() == 0 {
		return
	}
	j.scaleOverrides.Clear()
	j.SetScale(j.scaleBeforeOverrides, false)
	j.overrideChanged(OverrideScale, uuid.Nil)
}

// AllAttachmentScaleOverrides returns the number of scale overrides and the
// distinct values they propose.
func (j *Joint) AllAttachmentScaleOverrides() (int, []mgl64.Vec3) {
	return j.scaleOverrides.Count(), j.scaleOverrides.distinctValues()
}

// ScaleOverrides exposes the scale override map for inspection.
func (j *Joint) ScaleOverrides() *OverrideMap { return &j.scaleOverrides }

// AboveJointScaleThreshold reports whether scale differs from the default
// scale by more than JointPosThreshold.
func (j *Joint) AboveJointScaleThreshold(scale mgl64.Vec3) bool {
	d := scale.Sub(j.defaultScale)
	return d.Dot(d) > JointPosThreshold*JointPosThreshold
}

func (j *Joint) updateScale() {
	scale := j.scaleBeforeOverrides
	if _, active, ok := j.scaleOverrides.FindActiveOverride(); ok {
		scale = active
	}
	j.SetScale(scale, false)
}
