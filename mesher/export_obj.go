package mesher

import (
	"fmt"
	"io"
)

func (m *Mesh) ExportObj(_w io.Writer, name string, materials []string) error {
	w := func(format string, args ...interface{}) {
		_w.Write(([]byte)(fmt.Sprintf(format+"\n", args...)))
	}

	w("o %s", name)

	for _, pos := range m.Positions {
		w("v %f %f %f", pos[0], pos[1], pos[2])
	}
	for _, uv := range m.UVs {
		w("vt %f %f", uv[0], -uv[1])
	}
	for _, normal := range m.Normals {
		w("vn %f %f %f", normal[0], normal[1], normal[2])
	}

	lastMaterial := -1
	for iQuad := 0; iQuad < m.QuadCount(); iQuad++ {
		if materials != nil {
			if mat := int(m.QuadMaterials[iQuad]); mat != lastMaterial {
				w("usemtl %s", materials[mat])
				lastMaterial = mat
			}
		}

		for iTri := 0; iTri < 2; iTri++ {
			indexes := m.Indexes[iQuad*6+iTri*3 : iQuad*6+iTri*3+3]
			w("f %v/%v/%v %v/%v/%v %v/%v/%v",
				indexes[0]+1, indexes[0]+1, indexes[0]+1,
				indexes[1]+1, indexes[1]+1, indexes[1]+1,
				indexes[2]+1, indexes[2]+1, indexes[2]+1)
		}
	}

	return nil
}
