package collection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mosvald/vox_scene_browser/grid"
	"github.com/mosvald/vox_scene_browser/mesher"
	"github.com/mosvald/vox_scene_browser/palette"
	"github.com/mosvald/vox_scene_browser/scene"
)

// MaterialDescriptor carries the per-model material parameters derived
// during meshing. Base color, roughness, metalness and emission come
// from the shared palette, aggregate translucency is per model.
type MaterialDescriptor struct {
	HasTranslucency bool
	// Averaged over every translucent voxel of the model.
	RefractionIndex float32
	// Smallest axis extent of the model, in world units.
	Thickness float32

	Emission     palette.PropertyKind
	Transparency palette.PropertyKind
}

type Model struct {
	Index    int
	Name     string
	Grid     *grid.Grid
	Mesh     *mesher.Mesh
	Material MaterialDescriptor
}

// Collection is everything derived from one decoded file: the shared
// palette, every model with its mesh, and the flattened scene tree with
// its named sub-scenes.
type Collection struct {
	Name      string
	Palette   *palette.Palette
	Models    []*Model
	Root      *scene.FlattenedNode
	SubScenes map[string]*scene.FlattenedNode

	indexForModelName map[string]int
}

func (c *Collection) Model(name string) (*Model, bool) {
	if id, ok := c.indexForModelName[name]; ok {
		return c.Models[id], true
	}
	return nil, false
}

func (c *Collection) SubScene(name string) (*scene.FlattenedNode, bool) {
	node, ok := c.SubScenes[name]
	return node, ok
}

// Address of a model or sub-scene inside this collection, in the
// "{file}#{path}" scheme.
func (c *Collection) Address(path string) string {
	return fmt.Sprintf("%s#%s", c.Name, path)
}

// ResolveScene resolves an address to a sub-scene. The file part is
// optional; an empty path is the whole scene. Positional "model{n}"
// addressing is handled by ResolveModel only.
func (c *Collection) ResolveScene(address string) (*scene.FlattenedNode, error) {
	path, err := c.splitAddress(address)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c.Root, nil
	}
	if node, ok := c.SubScene(path); ok {
		return node, nil
	}
	return nil, errors.Errorf("No sub-scene %q in file %q", path, c.Name)
}

// ResolveModel resolves an address to a model, either by its assigned
// name or positionally as "model{n}".
func (c *Collection) ResolveModel(address string) (*Model, error) {
	path, err := c.splitAddress(address)
	if err != nil {
		return nil, err
	}
	if model, ok := c.Model(path); ok {
		return model, nil
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(path, "model")); err == nil {
		if n >= 0 && n < len(c.Models) {
			return c.Models[n], nil
		}
		return nil, errors.Errorf("Model index %d outside of %d models in file %q", n, len(c.Models), c.Name)
	}
	return nil, errors.Errorf("No model %q in file %q", path, c.Name)
}

func (c *Collection) splitAddress(address string) (string, error) {
	if i := strings.IndexByte(address, '#'); i >= 0 {
		file := address[:i]
		if file != "" && file != c.Name {
			return "", errors.Errorf("Address %q does not belong to file %q", address, c.Name)
		}
		return address[i+1:], nil
	}
	return address, nil
}
