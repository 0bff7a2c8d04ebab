package render

import (
	"math"

	"github.com/taigrr/gravity/pkg/geom"
	"github.com/taigrr/gravity/pkg/math3d"
)

// DefaultPitchLimit keeps the look vector away from the poles.
const DefaultPitchLimit = 89 * math.Pi / 180

// Camera is a yaw/pitch camera with an orthonormal look/up/side basis.
//
// The basis is only refreshed by ApplyDirectionAdjustment, which every
// orientation setter calls. Transforms read the basis as-is.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3

	// Orientation in radians. Yaw turns around world Y, pitch tilts up.
	Yaw   float64
	Pitch float64

	Look math3d.Vec3
	Up   math3d.Vec3
	Side math3d.Vec3

	FOV         float64 // vertical field of view in radians
	AspectRatio float64 // width / height
	Width       float64 // screen width in pixels
	Height      float64 // screen height in pixels

	// PitchLimit clamps Pitch to [-PitchLimit, PitchLimit].
	PitchLimit float64
	// Sensitivity converts mouse deltas to radians.
	Sensitivity float64

	Frustum Frustum

	proj    math3d.Mat4
	scratch []geom.Polygon
}

// NewCamera creates a camera at position looking at target. fov is the
// vertical field of view in radians; width and height are the screen size
// in pixels.
func NewCamera(position, target math3d.Vec3, fov float64, width, height int, near, far float64) *Camera {
	c := &Camera{
		Position:    position,
		FOV:         fov,
		Width:       float64(width),
		Height:      float64(height),
		AspectRatio: float64(width) / float64(max(height, 1)),
		PitchLimit:  DefaultPitchLimit,
		Sensitivity: 0.003,
	}
	c.Frustum = NewFrustum(c.FOV, c.AspectRatio, near, far)
	c.updateProjection()
	c.LookAt(target)
	return c
}

// Near returns the near clip distance.
func (c *Camera) Near() float64 { return c.Frustum.Near }

// Far returns the far clip distance.
func (c *Camera) Far() float64 { return c.Frustum.Far }

// LookAt points the camera at target. A target at the camera position
// leaves the orientation unchanged.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
	dir := target.Sub(c.Position)
	if dir.LenSq() == 0 {
		c.ApplyDirectionAdjustment()
		return
	}
	dir = dir.Normalize()
	c.Pitch = math.Asin(math.Max(-1, math.Min(1, dir.Y)))
	c.Yaw = math.Atan2(dir.X, dir.Z)
	c.ApplyDirectionAdjustment()
}

// ApplyDirectionAdjustment clamps pitch and recomputes the basis from yaw
// and pitch.
func (c *Camera) ApplyDirectionAdjustment() {
	if c.PitchLimit > 0 {
		c.Pitch = math.Max(-c.PitchLimit, math.Min(c.PitchLimit, c.Pitch))
	}
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)

	c.Look = math3d.V3(cp*sy, sp, cp*cy)
	c.Side = math3d.Up().Cross(c.Look).Normalize()
	c.Up = c.Look.Cross(c.Side)
}

// Rotate adds yaw and pitch increments in radians.
func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch += dPitch
	c.ApplyDirectionAdjustment()
	c.Target = c.Position.Add(c.Look)
}

// MouseMove turns the camera by a mouse delta in pixels. Moving the mouse
// up looks up.
func (c *Camera) MouseMove(dx, dy float64) {
	c.Rotate(dx*c.Sensitivity, -dy*c.Sensitivity)
}

// Move translates the camera along its look and side vectors and world up.
func (c *Camera) Move(forward, right, up float64) {
	delta := c.Look.Scale(forward).Add(c.Side.Scale(right)).Add(math3d.Up().Scale(up))
	c.Position = c.Position.Add(delta)
	c.Target = c.Target.Add(delta)
}

// SetFOV sets the field of view in radians and rebuilds the frustum.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.Frustum = NewFrustum(c.FOV, c.AspectRatio, c.Frustum.Near, c.Frustum.Far)
	c.updateProjection()
}

// SetAspectRatio sets the aspect ratio and rebuilds the frustum.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.Frustum = NewFrustum(c.FOV, c.AspectRatio, c.Frustum.Near, c.Frustum.Far)
	c.updateProjection()
}

// SetClipPlanes moves the near and far planes of the existing frustum.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Frustum.SetNear(near)
	c.Frustum.SetFar(far)
	c.updateProjection()
}

func (c *Camera) updateProjection() {
	c.proj = math3d.Perspective(c.FOV, c.AspectRatio, c.Frustum.Near, c.Frustum.Far)
}

// Resize updates the screen size and the aspect ratio.
func (c *Camera) Resize(width, height int) {
	c.Width = float64(width)
	c.Height = float64(height)
	c.SetAspectRatio(float64(width) / float64(max(height, 1)))
}

// ApplyViewTransform converts a world point to camera space:
// X along Side, Y along Up and Z along Look.
func (c *Camera) ApplyViewTransform(p math3d.Vec3) math3d.Vec3 {
	v := p.Sub(c.Position)
	return math3d.V3(v.Dot(c.Side), v.Dot(c.Up), v.Dot(c.Look))
}

// CalculatePerspectiveProjection maps a camera-space point to screen
// pixels. The returned Z is the NDC depth in [-1, 1] for points between
// the clip planes.
func (c *Camera) CalculatePerspectiveProjection(v math3d.Vec3) math3d.Vec3 {
	// The projection expects -Z forward.
	clip := c.proj.MulVec4(math3d.V4(v.X, v.Y, -v.Z, 1))
	w := clip.W
	if w == 0 {
		w = math.SmallestNonzeroFloat64
	}
	ndc := math3d.V3(clip.X/w, clip.Y/w, clip.Z/w)
	return math3d.V3(
		(ndc.X+1)*0.5*c.Width,
		(1-ndc.Y)*0.5*c.Height,
		ndc.Z,
	)
}

// WorldToScreen projects a world point. ok is false when the point is
// outside the frustum.
func (c *Camera) WorldToScreen(p math3d.Vec3) (screen math3d.Vec3, ok bool) {
	v := c.ApplyViewTransform(p)
	if !c.Frustum.ContainsPoint(v) {
		return math3d.Vec3{}, false
	}
	return c.CalculatePerspectiveProjection(v), true
}

// ProjectLine projects a world-space segment after clipping it to the near
// plane. ok is false when the whole segment is behind the near plane.
func (c *Camera) ProjectLine(a, b math3d.Vec3) (math3d.Vec2, math3d.Vec2, bool) {
	va := c.ApplyViewTransform(a)
	vb := c.ApplyViewTransform(b)

	near := &c.Frustum.Planes[PlaneNear]
	da, db := near.DistanceToPoint(va), near.DistanceToPoint(vb)
	switch {
	case da < 0 && db < 0:
		return math3d.Vec2{}, math3d.Vec2{}, false
	case da < 0:
		va = va.Lerp(vb, near.Intersect(va, vb))
	case db < 0:
		vb = vb.Lerp(va, near.Intersect(vb, va))
	}

	pa := c.CalculatePerspectiveProjection(va)
	pb := c.CalculatePerspectiveProjection(vb)
	return math3d.XY(pa), math3d.XY(pb), true
}

// ApplyProjectionPolygons runs every world-space polygon through the view
// transform and the frustum: polygons outside a plane are dropped, polygons
// crossing a plane are clipped, and the survivors are projected to screen
// space (X, Y in pixels, Z the NDC depth).
//
// The result reuses a camera-owned buffer and is only valid until the next
// call.
func (c *Camera) ApplyProjectionPolygons(polygons []geom.Polygon) []geom.Polygon {
	out := c.scratch[:0]
	for i := range polygons {
		p := polygons[i]
		p.Transform(c.ApplyViewTransform)

		switch {
		case c.Frustum.IsPolygonOutside(&p):
			continue
		case c.Frustum.IsPolygonCrossing(&p):
			start := len(out)
			out = c.Frustum.ClipPolygon(out, p)
			for j := start; j < len(out); j++ {
				out[j].Transform(c.CalculatePerspectiveProjection)
			}
		default:
			p.Transform(c.CalculatePerspectiveProjection)
			out = append(out, p)
		}
	}
	c.scratch = out
	return out
}
