package mesher

import (
	"github.com/mosvald/vox_scene_browser/grid"
)

type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indexes   []uint32

	// Per-quad attributes. Quad q owns vertices [q*4, q*4+4) and
	// indices [q*6, q*6+6).
	QuadMaterials   []uint8
	QuadTranslucent []bool
}

func (m *Mesh) QuadCount() int {
	return len(m.QuadMaterials)
}

// direction of a face sweep: one axis, towards positive or negative
type direction struct {
	Axis int
	Sign int
}

var directions = [6]direction{
	{0, 1}, {0, -1},
	{1, 1}, {1, -1},
	{2, 1}, {2, -1},
}

// MeshModel merges visible voxel faces into maximal rectangles and
// emits two triangles per merged rectangle. meshOuterFaces controls
// whether silhouette faces against the padding are generated; models
// meant for seamless tiling turn it off. An empty grid yields an empty
// mesh, not an error.
func MeshModel(g *grid.Grid, voxelSize float32, meshOuterFaces bool) *Mesh {
	m := &Mesh{}

	for _, dir := range directions {
		meshDirection(m, g, dir, voxelSize, meshOuterFaces)
	}

	return m
}

func meshDirection(m *Mesh, g *grid.Grid, dir direction, voxelSize float32, meshOuterFaces bool) {
	sizes := g.PaddedSize()
	a := dir.Axis
	u := (a + 1) % 3
	v := (a + 2) % 3

	sliceW := sizes[u]
	sliceH := sizes[v]

	faces := make([]grid.Voxel, sliceW*sliceH)
	present := make([]bool, sliceW*sliceH)
	consumed := make([]bool, sliceW*sliceH)

	var coord [3]int
	for layer := 1; layer < sizes[a]-1; layer++ {
		// collect faces of this slice
		for i := range present {
			present[i] = false
			consumed[i] = false
		}
		anyFace := false
		for iv := 1; iv < sliceH-1; iv++ {
			for iu := 1; iu < sliceW-1; iu++ {
				coord[a] = layer
				coord[u] = iu
				coord[v] = iv
				cell := g.At(coord[0], coord[1], coord[2])
				if cell.Visibility() == grid.VisibilityEmpty {
					continue
				}
				neighbor := layer + dir.Sign
				coord[a] = neighbor
				if g.At(coord[0], coord[1], coord[2]).Visibility() != grid.VisibilityEmpty {
					continue
				}
				if !meshOuterFaces && (neighbor == 0 || neighbor == sizes[a]-1) {
					// silhouette face against the padding
					continue
				}
				faces[iu+iv*sliceW] = cell
				present[iu+iv*sliceW] = true
				anyFace = true
			}
		}
		if !anyFace {
			continue
		}

		// greedy merge into maximal rectangles
		for iv := 1; iv < sliceH-1; iv++ {
			for iu := 1; iu < sliceW-1; iu++ {
				at := iu + iv*sliceW
				if !present[at] || consumed[at] {
					continue
				}
				face := faces[at]

				w := 1
				for iu+w < sliceW-1 {
					next := iu + w + iv*sliceW
					if !present[next] || consumed[next] || faces[next] != face {
						break
					}
					w++
				}

				h := 1
				for iv+h < sliceH-1 {
					rowMatches := true
					for k := 0; k < w; k++ {
						next := iu + k + (iv+h)*sliceW
						if !present[next] || consumed[next] || faces[next] != face {
							rowMatches = false
							break
						}
					}
					if !rowMatches {
						break
					}
					h++
				}

				for dv := 0; dv < h; dv++ {
					for du := 0; du < w; du++ {
						consumed[iu+du+(iv+dv)*sliceW] = true
					}
				}

				emitQuad(m, g, dir, layer, iu, iv, w, h, face, voxelSize)
			}
		}
	}
}

func emitQuad(m *Mesh, g *grid.Grid, dir direction, layer, u0, v0, w, h int, face grid.Voxel, voxelSize float32) {
	a := dir.Axis
	u := (a + 1) % 3
	v := (a + 2) % 3

	plane := layer
	if dir.Sign > 0 {
		plane++
	}

	type corner struct {
		du, dv int
	}
	// counter-clockwise when looking against the face normal
	var corners [4]corner
	if dir.Sign > 0 {
		corners = [4]corner{{0, 0}, {w, 0}, {w, h}, {0, h}}
	} else {
		corners = [4]corner{{0, 0}, {0, h}, {w, h}, {w, 0}}
	}

	size := g.Size()
	half := [3]float32{
		float32(size[0]) * 0.5,
		float32(size[1]) * 0.5,
		float32(size[2]) * 0.5,
	}

	var normal [3]float32
	normal[a] = float32(dir.Sign)

	base := uint32(len(m.Positions))
	for _, c := range corners {
		var cell [3]float32
		cell[a] = float32(plane)
		cell[u] = float32(u0 + c.du)
		cell[v] = float32(v0 + c.dv)

		var pos [3]float32
		for i := 0; i < 3; i++ {
			pos[i] = (cell[i] - grid.PADDING - half[i]) * voxelSize
		}

		m.Positions = append(m.Positions, pos)
		m.Normals = append(m.Normals, normal)
		m.UVs = append(m.UVs, [2]float32{float32(c.du), float32(c.dv)})
	}

	m.Indexes = append(m.Indexes,
		base, base+1, base+2,
		base, base+2, base+3)
	m.QuadMaterials = append(m.QuadMaterials, face.Index)
	m.QuadTranslucent = append(m.QuadTranslucent, face.Translucent)
}

// AverageRefraction is the arithmetic mean of the refraction indices of
// every translucent voxel in a model. One material instance carries one
// index of refraction, per-voxel variation is deliberately flattened.
func AverageRefraction(indices []float32) (float32, bool) {
	if len(indices) == 0 {
		return 0, false
	}
	var sum float32
	for _, ior := range indices {
		sum += ior
	}
	return sum / float32(len(indices)), true
}
