package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is what the gizmo and picking code need from a viewpoint.
// Screen coordinates are pixels with a top-left origin.
type Camera interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
	// Project maps a world point to screen x, y and window depth in [0, 1].
	Project(world mgl32.Vec3) mgl32.Vec3
	// Unproject returns the world ray through a screen point.
	Unproject(x, y float32) Ray
	// DistanceAlongViewAxis is the camera-space z of a world point, negative in front.
	DistanceAlongViewAxis(world mgl32.Vec3) float32
}

// OrbitCamera looks at Target from Distance along the direction given by Yaw and Pitch. Y is up.
type OrbitCamera struct {
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32

	FovY float32
	Near float32
	Far  float32

	Width  int
	Height int

	OrbitSensitivity float32
	PanSensitivity   float32
	ZoomFactor       float32
	MinDistance      float32
}

func NewOrbitCamera(width, height int) *OrbitCamera {
	return &OrbitCamera{
		Target:           mgl32.Vec3{0, 0, 0},
		Distance:         10,
		Yaw:              mgl32.DegToRad(30),
		Pitch:            mgl32.DegToRad(25),
		FovY:             mgl32.DegToRad(45),
		Near:             0.1,
		Far:              1000,
		Width:            width,
		Height:           height,
		OrbitSensitivity: 0.005,
		PanSensitivity:   0.0015,
		ZoomFactor:       0.9,
		MinDistance:      0.05,
	}
}

func (c *OrbitCamera) forward() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	return mgl32.Vec3{
		-cp * float32(math.Sin(float64(c.Yaw))),
		-float32(math.Sin(float64(c.Pitch))),
		-cp * float32(math.Cos(float64(c.Yaw))),
	}
}

func (c *OrbitCamera) Position() mgl32.Vec3 {
	return c.Target.Sub(c.forward().Mul(c.Distance))
}

func (c *OrbitCamera) Right() mgl32.Vec3 {
	return c.forward().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

func (c *OrbitCamera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.forward()).Normalize()
}

func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *OrbitCamera) ProjectionMatrix() mgl32.Mat4 {
	aspect := float32(1)
	if c.Height > 0 {
		aspect = float32(c.Width) / float32(c.Height)
	}
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
}

func (c *OrbitCamera) Project(world mgl32.Vec3) mgl32.Vec3 {
	win := mgl32.Project(world, c.ViewMatrix(), c.ProjectionMatrix(), 0, 0, c.Width, c.Height)
	return mgl32.Vec3{win.X(), float32(c.Height) - win.Y(), win.Z()}
}

func (c *OrbitCamera) Unproject(x, y float32) Ray {
	win := mgl32.Vec3{x, float32(c.Height) - y, 1}
	far, err := mgl32.UnProject(win, c.ViewMatrix(), c.ProjectionMatrix(), 0, 0, c.Width, c.Height)
	origin := c.Position()
	if err != nil {
		return Ray{Origin: origin, Direction: c.forward()}
	}
	return Ray{Origin: origin, Direction: far.Sub(origin).Normalize()}
}

func (c *OrbitCamera) DistanceAlongViewAxis(world mgl32.Vec3) float32 {
	return c.ViewMatrix().Mul4x1(world.Vec4(1)).Z()
}

func (c *OrbitCamera) SetViewport(width, height int) {
	c.Width = width
	c.Height = height
}

// Orbit rotates the camera around Target by a cursor delta in pixels.
func (c *OrbitCamera) Orbit(dx, dy float32) {
	c.Yaw -= dx * c.OrbitSensitivity
	c.Pitch += dy * c.OrbitSensitivity

	limit := mgl32.DegToRad(89)
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

// Pan slides Target in the view plane, scaled by distance so the scene tracks the cursor.
func (c *OrbitCamera) Pan(dx, dy float32) {
	k := c.Distance * c.PanSensitivity
	c.Target = c.Target.Sub(c.Right().Mul(dx * k)).Add(c.Up().Mul(dy * k))
}

// Zoom moves toward Target for positive steps and away for negative ones.
func (c *OrbitCamera) Zoom(steps float32) {
	c.Distance *= float32(math.Pow(float64(c.ZoomFactor), float64(steps)))
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
}

// ShowEntireScene frames a bounding sphere.
func (c *OrbitCamera) ShowEntireScene(center mgl32.Vec3, radius float32) {
	c.Target = center
	c.Distance = radius / float32(math.Sin(float64(c.FovY/2)))
	if c.Far < c.Distance+radius {
		c.Far = (c.Distance + radius) * 2
	}
}

// ExtractFrustum extracts the 6 planes of the frustum from the view-projection matrix.
// Returns planes in order: Left, Right, Bottom, Top, Near, Far.
// Plane is Ax + By + Cz + D = 0.
func ExtractFrustum(vp mgl32.Mat4) [6]mgl32.Vec4 {
	var planes [6]mgl32.Vec4
	for i := 0; i < 3; i++ {
		planes[2*i] = frustumPlane(vp, i, 1)
		planes[2*i+1] = frustumPlane(vp, i, -1)
	}

	for i := 0; i < 6; i++ {
		length := planes[i].Vec3().Len()
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}
	return planes
}

// frustumPlane combines row 3 with sign * row.
func frustumPlane(vp mgl32.Mat4, row int, sign float32) mgl32.Vec4 {
	return mgl32.Vec4{
		vp.At(3, 0) + sign*vp.At(row, 0),
		vp.At(3, 1) + sign*vp.At(row, 1),
		vp.At(3, 2) + sign*vp.At(row, 2),
		vp.At(3, 3) + sign*vp.At(row, 3),
	}
}

// SphereInFrustum reports whether a sphere touches the volume bounded by planes.
func SphereInFrustum(planes [6]mgl32.Vec4, center mgl32.Vec3, radius float32) bool {
	for _, p := range planes {
		if p.Vec3().Dot(center)+p.W() < -radius {
			return false
		}
	}
	return true
}
