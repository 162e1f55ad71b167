package grid

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Meshes are emitted centered on the model origin, so a local point is
// mapped to voxel space by adding half the unpadded extents and
// truncating to cell coordinates.
func (g *Grid) LocalPointToVoxelSpace(local mgl32.Vec3) [3]int {
	size := g.Size()
	return [3]int{
		int(local.X() + float32(size[0])*0.5),
		int(local.Y() + float32(size[1])*0.5),
		int(local.Z() + float32(size[2])*0.5),
	}
}

// GlobalPointToVoxelSpace applies the inverse of the instance world
// transform before converting to voxel space.
func (g *Grid) GlobalPointToVoxelSpace(global mgl32.Vec3, world mgl32.Mat4) [3]int {
	local := mgl32.TransformCoordinate(global, world.Inv())
	return g.LocalPointToVoxelSpace(local)
}

// VoxelAt returns the voxel at the given voxel-space coordinate. Points
// outside [0, size) on any axis report no voxel instead of an error.
func (g *Grid) VoxelAt(point [3]int) (Voxel, bool) {
	size := g.Size()
	for i := 0; i < 3; i++ {
		if point[i] < 0 || point[i] >= size[i] {
			return Voxel{}, false
		}
	}
	return g.At(point[0]+PADDING, point[1]+PADDING, point[2]+PADDING), true
}

func (g *Grid) VoxelAtLocalPoint(local mgl32.Vec3) (Voxel, bool) {
	return g.VoxelAt(g.LocalPointToVoxelSpace(local))
}

func (g *Grid) VoxelAtGlobalPoint(global mgl32.Vec3, world mgl32.Mat4) (Voxel, bool) {
	return g.VoxelAt(g.GlobalPointToVoxelSpace(global, world))
}
