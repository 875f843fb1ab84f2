package game

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// MarkerBox returns a cube with the given edge length centred on pos.
func MarkerBox(pos mgl64.Vec3, edge float64) cube.BBox {
	h := float32(edge / 2)
	c := Vec64To32(pos)
	return cube.Box(
		c.X()-h, c.Y()-h, c.Z()-h,
		c.X()+h, c.Y()+h, c.Z()+h,
	)
}
