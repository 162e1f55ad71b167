package collection

import (
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/mosvald/vox_scene_browser/config"
	"github.com/mosvald/vox_scene_browser/grid"
	"github.com/mosvald/vox_scene_browser/mesher"
	"github.com/mosvald/vox_scene_browser/palette"
	"github.com/mosvald/vox_scene_browser/scene"
	"github.com/mosvald/vox_scene_browser/status"
	"github.com/mosvald/vox_scene_browser/vox"
)

// LoadFromPath decodes a .vox file and runs the whole pipeline with
// the current global settings.
func LoadFromPath(path string) (*Collection, error) {
	vf, err := vox.NewFileFromPath(path)
	if err != nil {
		status.Error("Failed to decode %q: %v", path, err)
		return nil, errors.Wrapf(err, "Failed to decode %q", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewFromFile(vf, name, config.GetSettings()), nil
}

// NewFromFile turns a decoded file into a collection: palette first,
// then every model (grid build + meshing, models are independent and
// processed in parallel), then the flattened scene tree.
func NewFromFile(vf *vox.File, name string, settings config.Settings) *Collection {
	c := &Collection{
		Name:              name,
		Models:            make([]*Model, len(vf.Models)),
		indexForModelName: make(map[string]int, len(vf.Models)),
	}

	c.Palette = palette.NewFromFile(vf, settings)
	status.Info("Resolved palette of %q: emission %v, transparency %v",
		name, c.Palette.Emission, c.Palette.Transparency)

	modelNames := scene.FindModelNames(vf.SceneNodes, len(vf.Models))

	var done int32
	var wg sync.WaitGroup
	for i := range vf.Models {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			modelName := scene.SynthesizeModelName(modelNames, index)
			c.Models[index] = buildModel(&vf.Models[index], index, modelName, c.Palette, settings)
			status.Progress(int(atomic.AddInt32(&done, 1)), len(vf.Models),
				"Meshed model %q of %q", modelName, name)
		}(i)
	}
	wg.Wait()

	for i, m := range c.Models {
		c.indexForModelName[m.Name] = i
	}

	flattener := scene.NewFlattener(vf.SceneNodes, modelNames,
		scene.LayerTableFromFile(vf), settings.VoxelSize)
	c.Root = flattener.Build()
	c.SubScenes = flattener.SubScenes

	return c
}

func buildModel(m *vox.Model, index int, name string, pal *palette.Palette, settings config.Settings) *Model {
	g, refractionIndices := grid.NewFromModel(m, pal.IndicesOfRefraction)
	mesh := mesher.MeshModel(g, settings.VoxelSize, settings.MeshOuterFaces)

	material := MaterialDescriptor{
		Emission:     pal.Emission,
		Transparency: pal.Transparency,
	}
	if ior, ok := mesher.AverageRefraction(refractionIndices); ok {
		material.HasTranslucency = true
		material.RefractionIndex = ior
		material.Thickness = float32(g.MinSize()) * settings.VoxelSize
	}

	return &Model{
		Index:    index,
		Name:     name,
		Grid:     g,
		Mesh:     mesh,
		Material: material,
	}
}
