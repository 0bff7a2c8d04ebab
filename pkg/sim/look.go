package sim

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/gravity/pkg/render"
)

// Spring settings. A damping ratio of 1 is critically damped, so the
// camera never overshoots.
const (
	lookFrequency = 6.0
	moveFrequency = 4.0
	dampingRatio  = 1.0
)

// follower eases a position toward a target.
type follower struct {
	pos, vel, target float64
	spring           harmonica.Spring
}

// step advances one frame and returns how far the position moved.
func (f *follower) step() float64 {
	prev := f.pos
	f.pos, f.vel = f.spring.Update(f.pos, f.vel, f.target)
	return f.pos - prev
}

// decay is a velocity that springs back to zero.
type decay struct {
	Velocity float64
	accel    float64
	spring   harmonica.Spring
}

func (d *decay) step() {
	d.Velocity, d.accel = d.spring.Update(d.Velocity, d.accel, 0)
}

// LookController smooths mouse and keyboard input into camera motion.
// Mouse deltas are eased in over a few frames; key presses add velocity
// that decays back to rest.
type LookController struct {
	Sensitivity float64 // radians per mouse unit

	yaw, pitch             follower
	forward, right, upward decay
}

// NewLookController creates a controller stepped at fps frames per second.
func NewLookController(fps int, sensitivity float64) *LookController {
	l := &LookController{Sensitivity: sensitivity}
	l.Reset(fps)
	return l
}

// Reset drops all pending motion.
func (l *LookController) Reset(fps int) {
	fps = max(fps, 1)
	look := harmonica.NewSpring(harmonica.FPS(fps), lookFrequency, dampingRatio)
	move := harmonica.NewSpring(harmonica.FPS(fps), moveFrequency, dampingRatio)
	l.yaw = follower{spring: look}
	l.pitch = follower{spring: look}
	l.forward = decay{spring: move}
	l.right = decay{spring: move}
	l.upward = decay{spring: move}
}

// MouseMove queues a mouse delta. Moving the mouse up looks up.
func (l *LookController) MouseMove(dx, dy float64) {
	l.yaw.target += dx * l.Sensitivity
	l.pitch.target -= dy * l.Sensitivity
}

// Push adds translation velocity in units per second along the camera's
// look, side and world up axes.
func (l *LookController) Push(forward, right, up float64) {
	l.forward.Velocity += forward
	l.right.Velocity += right
	l.upward.Velocity += up
}

// Stop zeroes the translation velocity.
func (l *LookController) Stop() {
	l.forward.Velocity, l.forward.accel = 0, 0
	l.right.Velocity, l.right.accel = 0, 0
	l.upward.Velocity, l.upward.accel = 0, 0
}

// Moving reports whether any translation velocity is left.
func (l *LookController) Moving() bool {
	const rest = 1e-3
	return math.Abs(l.forward.Velocity) > rest || math.Abs(l.right.Velocity) > rest || math.Abs(l.upward.Velocity) > rest
}

// Update advances one frame of dt seconds and applies the motion to cam.
func (l *LookController) Update(cam *render.Camera, dt float64) {
	dYaw, dPitch := l.yaw.step(), l.pitch.step()
	if dYaw != 0 || dPitch != 0 {
		cam.Rotate(dYaw, dPitch)
	}

	cam.Move(l.forward.Velocity*dt, l.right.Velocity*dt, l.upward.Velocity*dt)
	l.forward.step()
	l.right.step()
	l.upward.step()
}
