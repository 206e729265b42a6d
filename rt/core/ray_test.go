package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayIntersectPlane(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}

	hit, dist, ok := ray.IntersectPlane(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1})
	require.True(t, ok)
	assert.InDelta(t, 5, dist, 1e-6)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, hit)

	_, _, ok = ray.IntersectPlane(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})
	assert.False(t, ok, "parallel plane")

	behind := Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, 1}}
	_, _, ok = behind.IntersectPlane(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1})
	assert.False(t, ok, "plane behind the origin")
}

func TestRayClosestOnLine(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{3, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}

	s, ok := ray.ClosestOnLine(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})
	require.True(t, ok)
	assert.InDelta(t, 3, s, 1e-5)

	_, ok = ray.ClosestOnLine(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1})
	assert.False(t, ok)
}

func TestRayIntersectSphere(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}

	dist, ok := ray.IntersectSphere(mgl32.Vec3{}, 1)
	require.True(t, ok)
	assert.InDelta(t, 4, dist, 1e-5)

	_, ok = ray.IntersectSphere(mgl32.Vec3{5, 0, 0}, 1)
	assert.False(t, ok)
}
