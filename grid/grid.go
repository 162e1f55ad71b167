package grid

import (
	"log"

	"github.com/mosvald/vox_scene_browser/vox"
)

type Visibility int

const (
	VisibilityEmpty Visibility = iota
	VisibilityOpaque
	VisibilityTranslucent
)

type Voxel struct {
	Index       uint8
	Translucent bool
}

var Empty = Voxel{Index: vox.INDEX_EMPTY}

func (v Voxel) Visibility() Visibility {
	switch {
	case v.Index == vox.INDEX_EMPTY:
		return VisibilityEmpty
	case v.Translucent:
		return VisibilityTranslucent
	default:
		return VisibilityOpaque
	}
}

// One empty cell on every side of the model, so neighbor lookups during
// meshing never need a bounds check.
const PADDING = 1

// Grid is a dense array of voxels in engine axes (right-handed, Y up).
// Extents are the source model size plus two per axis.
type Grid struct {
	SizeX, SizeY, SizeZ int
	Voxels              []Voxel
}

func (g *Grid) Linearize(x, y, z int) int {
	return x + y*g.SizeX + z*g.SizeX*g.SizeY
}

func (g *Grid) At(x, y, z int) Voxel {
	return g.Voxels[g.Linearize(x, y, z)]
}

func (g *Grid) PaddedSize() [3]int {
	return [3]int{g.SizeX, g.SizeY, g.SizeZ}
}

// Size is the source model extent in engine axes, without padding.
func (g *Grid) Size() [3]int {
	return [3]int{g.SizeX - 2*PADDING, g.SizeY - 2*PADDING, g.SizeZ - 2*PADDING}
}

func (g *Grid) MinSize() int {
	s := g.Size()
	m := s[0]
	if s[1] < m {
		m = s[1]
	}
	if s[2] < m {
		m = s[2]
	}
	return m
}

// NewFromModel converts the sparse voxel list of a decoded model into a
// padded dense grid. MagicaVoxel is Z-up with a mirrored X, so a source
// voxel (x, y, z) lands at (sizeX - x, z + 1, y + 1). Returns the grid
// and the refraction indices of every translucent voxel encountered,
// one entry per voxel, for later averaging.
func NewFromModel(m *vox.Model, refractionByIndex map[uint8]float32) (*Grid, []float32) {
	g := &Grid{
		SizeX: int(m.SizeX) + 2*PADDING,
		SizeY: int(m.SizeZ) + 2*PADDING,
		SizeZ: int(m.SizeY) + 2*PADDING,
	}
	g.Voxels = make([]Voxel, g.SizeX*g.SizeY*g.SizeZ)
	for i := range g.Voxels {
		g.Voxels[i] = Empty
	}

	refractionIndices := make([]float32, 0)

	for _, v := range m.Voxels {
		x := int(m.SizeX) - int(v.X)
		y := int(v.Z) + PADDING
		z := int(v.Y) + PADDING

		// malformed files may place voxels outside the declared size
		if x < PADDING || x >= g.SizeX-PADDING ||
			y < PADDING || y >= g.SizeY-PADDING ||
			z < PADDING || z >= g.SizeZ-PADDING {
			log.Printf("[grid] Dropping voxel (%d,%d,%d) outside of model size %dx%dx%d",
				v.X, v.Y, v.Z, m.SizeX, m.SizeY, m.SizeZ)
			continue
		}

		ior, translucent := refractionByIndex[v.Index]
		if translucent {
			refractionIndices = append(refractionIndices, ior)
		}

		g.Voxels[g.Linearize(x, y, z)] = Voxel{
			Index:       v.Index,
			Translucent: translucent,
		}
	}

	return g, refractionIndices
}
