package collection

import (
	"testing"

	"github.com/mosvald/vox_scene_browser/config"
	"github.com/mosvald/vox_scene_browser/vox"
)

func testVoxFile() *vox.File {
	vf := &vox.File{
		Palette:   [256][4]uint8{},
		Materials: make(map[uint8]vox.Material),
		Models: []vox.Model{
			{
				SizeX: 2, SizeY: 1, SizeZ: 1,
				Voxels: []vox.Voxel{
					{X: 0, Y: 0, Z: 0, Index: 0},
					{X: 1, Y: 0, Z: 0, Index: 0},
				},
			},
			{
				SizeX: 1, SizeY: 1, SizeZ: 1,
				Voxels: []vox.Voxel{{X: 0, Y: 0, Z: 0, Index: 2}},
			},
		},
	}
	for i := range vf.Palette {
		vf.Palette[i] = [4]uint8{255, 255, 255, 255}
	}
	vf.SceneNodes = []vox.SceneNode{
		{Kind: vox.NodeTransform, Attributes: map[string]string{}, Child: 1, LayerID: -1,
			Frames: []vox.Frame{{Attributes: map[string]string{}}}},
		{Kind: vox.NodeGroup, ID: 1, Attributes: map[string]string{}, Children: []int32{2}},
		{Kind: vox.NodeTransform, ID: 2, Attributes: map[string]string{"_name": "walls"}, Child: 3, LayerID: -1,
			Frames: []vox.Frame{{Attributes: map[string]string{}}}},
		{Kind: vox.NodeShape, ID: 3, Attributes: map[string]string{},
			Models: []vox.ShapeModel{{ModelID: 0, Attributes: map[string]string{}}}},
	}
	return vf
}

func TestNewFromFile(t *testing.T) {
	c := NewFromFile(testVoxFile(), "scene", config.DefaultSettings())

	if c.Name != "scene" {
		t.Errorf("Collection name %q", c.Name)
	}
	if len(c.Models) != 2 {
		t.Fatalf("Expected 2 models, got %d", len(c.Models))
	}

	walls, ok := c.Model("walls")
	if !ok || walls.Index != 0 {
		t.Fatalf("Model \"walls\" not found: %v, %v", walls, ok)
	}
	if walls.Mesh.QuadCount() != 6 {
		t.Errorf("Walls meshed into %d quads, expected 6", walls.Mesh.QuadCount())
	}

	// the second model is unreferenced, it gets a positional name
	unnamed, ok := c.Model("model-1")
	if !ok || unnamed.Index != 1 {
		t.Fatalf("Model \"model-1\" not found: %v, %v", unnamed, ok)
	}

	if c.Root == nil || len(c.Root.Children) != 1 {
		t.Fatalf("Wrong root %+v", c.Root)
	}
	if c.Root.Children[0].ModelName != "walls" {
		t.Errorf("Root child references model %q", c.Root.Children[0].ModelName)
	}
	if _, ok := c.SubScene("walls"); !ok {
		t.Errorf("Sub-scene \"walls\" not registered: %v", c.SubScenes)
	}
}

func TestMaterialDescriptor(t *testing.T) {
	vf := testVoxFile()
	vf.Materials[2] = vox.Material{ID: 3, Properties: map[string]string{
		"_type": "_glass", "_trans": "0.5", "_ior": "0.3",
	}}

	settings := config.DefaultSettings()
	settings.VoxelSize = 2
	c := NewFromFile(vf, "scene", settings)

	opaque, _ := c.Model("walls")
	if opaque.Material.HasTranslucency {
		t.Errorf("Opaque model has translucency: %+v", opaque.Material)
	}

	glass, _ := c.Model("model-1")
	if !glass.Material.HasTranslucency {
		t.Fatalf("Translucent model resolved opaque: %+v", glass.Material)
	}
	if ior := glass.Material.RefractionIndex; ior < 1.29 || ior > 1.31 {
		t.Errorf("Refraction index %v, expected 1.3", ior)
	}
	// smallest extent of a 1x1x1 model at voxel size 2
	if glass.Material.Thickness != 2 {
		t.Errorf("Thickness %v, expected 2", glass.Material.Thickness)
	}
}

func TestAddressing(t *testing.T) {
	c := NewFromFile(testVoxFile(), "scene", config.DefaultSettings())

	if addr := c.Address("walls"); addr != "scene#walls" {
		t.Errorf("Address(\"walls\")=%q", addr)
	}

	tests := []struct {
		address string
		index   int
		ok      bool
	}{
		{"scene#walls", 0, true},
		{"walls", 0, true},
		{"#walls", 0, true},
		{"scene#model0", 0, true},
		{"model1", 1, true},
		{"scene#model-1", 1, true},
		{"model7", 0, false},
		{"scene#nope", 0, false},
		{"other#walls", 0, false},
	}
	for _, test := range tests {
		model, err := c.ResolveModel(test.address)
		if test.ok != (err == nil) {
			t.Errorf("ResolveModel(%q) error: %v", test.address, err)
			continue
		}
		if test.ok && model.Index != test.index {
			t.Errorf("ResolveModel(%q)=%d; expected %d", test.address, model.Index, test.index)
		}
	}

	if node, err := c.ResolveScene("scene#"); err != nil || node != c.Root {
		t.Errorf("Empty path resolved to %v, %v; expected the root", node, err)
	}
	if node, err := c.ResolveScene("scene#walls"); err != nil || node == nil {
		t.Errorf("ResolveScene(\"scene#walls\")=%v, %v", node, err)
	}
	if _, err := c.ResolveScene("scene#nope"); err == nil {
		t.Error("Unknown sub-scene resolved without error")
	}
}

func TestExportGLTF(t *testing.T) {
	c := NewFromFile(testVoxFile(), "scene", config.DefaultSettings())

	doc, err := c.ExportGLTF()
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Meshes) != 2 {
		t.Errorf("Expected 2 exported meshes, got %d", len(doc.Meshes))
	}
	if len(doc.Scenes) != 1 || len(doc.Scenes[0].Nodes) != 1 {
		t.Errorf("Wrong exported scene layout: %+v", doc.Scenes)
	}
	if len(doc.Materials) == 0 {
		t.Error("No materials exported")
	}

	walls, _ := c.Model("walls")
	single, err := c.ExportGLTFModel(walls)
	if err != nil {
		t.Fatal(err)
	}
	if len(single.Meshes) != 1 {
		t.Errorf("Expected 1 exported mesh, got %d", len(single.Meshes))
	}
}
