package mesher_test

import (
	"math"
	"testing"

	"github.com/mosvald/vox_scene_browser/grid"
	"github.com/mosvald/vox_scene_browser/mesher"
)

func newTestGrid(sizeX, sizeY, sizeZ int) *grid.Grid {
	g := &grid.Grid{
		SizeX: sizeX + 2*grid.PADDING,
		SizeY: sizeY + 2*grid.PADDING,
		SizeZ: sizeZ + 2*grid.PADDING,
	}
	g.Voxels = make([]grid.Voxel, g.SizeX*g.SizeY*g.SizeZ)
	for i := range g.Voxels {
		g.Voxels[i] = grid.Empty
	}
	return g
}

func set(g *grid.Grid, x, y, z int, v grid.Voxel) {
	g.Voxels[g.Linearize(x+grid.PADDING, y+grid.PADDING, z+grid.PADDING)] = v
}

// extent of quad q as encoded in its texture coordinates
func quadExtent(m *mesher.Mesh, q int) (w, h float32) {
	uv := m.UVs[q*4+2]
	return uv[0], uv[1]
}

func TestSingleVoxel(t *testing.T) {
	g := newTestGrid(1, 1, 1)
	set(g, 0, 0, 0, grid.Voxel{Index: 3})

	m := mesher.MeshModel(g, 1, true)

	if m.QuadCount() != 6 {
		t.Fatalf("Expected 6 quads, got %d", m.QuadCount())
	}
	if len(m.Positions) != 24 || len(m.Normals) != 24 || len(m.UVs) != 24 {
		t.Errorf("Wrong vertex counts: %d positions, %d normals, %d uvs",
			len(m.Positions), len(m.Normals), len(m.UVs))
	}
	if len(m.Indexes) != 36 {
		t.Errorf("Expected 36 indices, got %d", len(m.Indexes))
	}

	// a unit cube centered on the origin
	for _, pos := range m.Positions {
		for axis := 0; axis < 3; axis++ {
			if math.Abs(float64(pos[axis])) != 0.5 {
				t.Fatalf("Vertex %v is not on the unit cube around the origin", pos)
			}
		}
	}

	for q := 0; q < m.QuadCount(); q++ {
		if w, h := quadExtent(m, q); w != 1 || h != 1 {
			t.Errorf("Quad %d has extent %vx%v, expected 1x1", q, w, h)
		}
		if m.QuadMaterials[q] != 3 {
			t.Errorf("Quad %d has material %d, expected 3", q, m.QuadMaterials[q])
		}
	}
}

func TestSingleVoxelScaled(t *testing.T) {
	g := newTestGrid(1, 1, 1)
	set(g, 0, 0, 0, grid.Voxel{Index: 0})

	m := mesher.MeshModel(g, 2.5, true)
	for _, pos := range m.Positions {
		for axis := 0; axis < 3; axis++ {
			if math.Abs(float64(pos[axis])) != 1.25 {
				t.Fatalf("Vertex %v does not respect the voxel size", pos)
			}
		}
	}
}

func TestEmptyGrid(t *testing.T) {
	m := mesher.MeshModel(newTestGrid(2, 2, 2), 1, true)
	if m.QuadCount() != 0 {
		t.Errorf("Empty grid produced %d quads", m.QuadCount())
	}
}

func TestSlabGreedyMerge(t *testing.T) {
	g := newTestGrid(3, 1, 3)
	for x := 0; x < 3; x++ {
		for z := 0; z < 3; z++ {
			set(g, x, 0, z, grid.Voxel{Index: 1})
		}
	}

	m := mesher.MeshModel(g, 1, true)

	// two merged 3x3 faces plus four 3x1 silhouette strips
	if m.QuadCount() != 6 {
		t.Fatalf("Expected 6 quads, got %d", m.QuadCount())
	}
	full, strips := 0, 0
	for q := 0; q < m.QuadCount(); q++ {
		switch w, h := quadExtent(m, q); w * h {
		case 9:
			full++
		case 3:
			strips++
		default:
			t.Errorf("Quad %d has unexpected extent %vx%v", q, w, h)
		}
	}
	if full != 2 || strips != 4 {
		t.Errorf("Expected 2 full faces and 4 strips, got %d and %d", full, strips)
	}
}

func TestSlabWithoutOuterFaces(t *testing.T) {
	g := newTestGrid(3, 1, 3)
	for x := 0; x < 3; x++ {
		for z := 0; z < 3; z++ {
			set(g, x, 0, z, grid.Voxel{Index: 1})
		}
	}

	// every face of a full-extent slab touches the padding
	if m := mesher.MeshModel(g, 1, false); m.QuadCount() != 0 {
		t.Errorf("Expected no quads, got %d", m.QuadCount())
	}
}

func TestInsetSlabWithoutOuterFaces(t *testing.T) {
	g := newTestGrid(3, 3, 3)
	for x := 0; x < 3; x++ {
		for z := 0; z < 3; z++ {
			set(g, x, 1, z, grid.Voxel{Index: 1})
		}
	}

	m := mesher.MeshModel(g, 1, false)

	// only the faces towards in-model air survive
	if m.QuadCount() != 2 {
		t.Fatalf("Expected 2 quads, got %d", m.QuadCount())
	}
	for q := 0; q < m.QuadCount(); q++ {
		if w, h := quadExtent(m, q); w*h != 9 {
			t.Errorf("Quad %d has extent %vx%v, expected a full 3x3 face", q, w, h)
		}
	}
}

func TestDifferentMaterialsDoNotMerge(t *testing.T) {
	g := newTestGrid(2, 1, 1)
	set(g, 0, 0, 0, grid.Voxel{Index: 1})
	set(g, 1, 0, 0, grid.Voxel{Index: 2})

	m := mesher.MeshModel(g, 1, true)

	// the shared face is still omitted, every outer face stays split
	if m.QuadCount() != 10 {
		t.Fatalf("Expected 10 quads, got %d", m.QuadCount())
	}
	counts := map[uint8]int{}
	for q := 0; q < m.QuadCount(); q++ {
		counts[m.QuadMaterials[q]]++
	}
	if counts[1] != 5 || counts[2] != 5 {
		t.Errorf("Wrong per-material quad counts %v", counts)
	}
}

func TestSameMaterialMerges(t *testing.T) {
	g := newTestGrid(2, 1, 1)
	set(g, 0, 0, 0, grid.Voxel{Index: 1})
	set(g, 1, 0, 0, grid.Voxel{Index: 1})

	m := mesher.MeshModel(g, 1, true)

	// four merged 2x1 sides plus the two 1x1 ends
	if m.QuadCount() != 6 {
		t.Fatalf("Expected 6 quads, got %d", m.QuadCount())
	}
}

func TestTranslucencyBreaksMergeOnly(t *testing.T) {
	g := newTestGrid(2, 1, 1)
	set(g, 0, 0, 0, grid.Voxel{Index: 1})
	set(g, 1, 0, 0, grid.Voxel{Index: 1, Translucent: true})

	m := mesher.MeshModel(g, 1, true)

	// no face between the two voxels, neither is empty
	if m.QuadCount() != 10 {
		t.Fatalf("Expected 10 quads, got %d", m.QuadCount())
	}
	translucent := 0
	for q := 0; q < m.QuadCount(); q++ {
		if m.QuadTranslucent[q] {
			translucent++
		}
	}
	if translucent != 5 {
		t.Errorf("Expected 5 translucent quads, got %d", translucent)
	}
}

func TestQuadNormals(t *testing.T) {
	g := newTestGrid(1, 1, 1)
	set(g, 0, 0, 0, grid.Voxel{Index: 0})

	m := mesher.MeshModel(g, 1, true)

	seen := map[[3]float32]int{}
	for q := 0; q < m.QuadCount(); q++ {
		n := m.Normals[q*4]
		for corner := 1; corner < 4; corner++ {
			if m.Normals[q*4+corner] != n {
				t.Fatalf("Quad %d has mixed normals", q)
			}
		}
		seen[n]++
	}
	for _, axis := range [][3]float32{
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
	} {
		if seen[axis] != 1 {
			t.Errorf("Normal %v appears %d times, expected once", axis, seen[axis])
		}
	}
}

func TestAverageRefraction(t *testing.T) {
	if _, ok := mesher.AverageRefraction(nil); ok {
		t.Error("Average of no refraction indices reported as valid")
	}

	avg, ok := mesher.AverageRefraction([]float32{1.1, 1.3, 1.5})
	if !ok || math.Abs(float64(avg)-1.3) > 1e-6 {
		t.Errorf("AverageRefraction=%v,%v; expected 1.3", avg, ok)
	}
}
