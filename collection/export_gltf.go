package collection

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mosvald/vox_scene_browser/mesher"
	"github.com/mosvald/vox_scene_browser/scene"
)

type gltfExporter struct {
	doc                *gltf.Document
	collection         *Collection
	materialForPalette map[uint8]uint32
	meshForModel       map[string]uint32
}

func newGLTFExporter(c *Collection) *gltfExporter {
	return &gltfExporter{
		doc:                gltf.NewDocument(),
		collection:         c,
		materialForPalette: make(map[uint8]uint32),
		meshForModel:       make(map[string]uint32),
	}
}

// ExportGLTF builds a glTF document with one mesh per model and the
// flattened scene tree as the node hierarchy.
func (c *Collection) ExportGLTF() (*gltf.Document, error) {
	e := newGLTFExporter(c)

	for _, model := range c.Models {
		e.exportModel(model)
	}

	root := e.exportNode(c.Root)
	e.doc.Scenes[0].Nodes = append(e.doc.Scenes[0].Nodes, root)

	return e.doc, nil
}

// ExportGLTFModel builds a glTF document holding a single model.
func (c *Collection) ExportGLTFModel(model *Model) (*gltf.Document, error) {
	e := newGLTFExporter(c)

	e.exportModel(model)
	node := &gltf.Node{Name: model.Name}
	if meshIndex, ok := e.meshForModel[model.Name]; ok {
		node.Mesh = gltf.Index(meshIndex)
	}
	e.doc.Scenes[0].Nodes = append(e.doc.Scenes[0].Nodes, uint32(len(e.doc.Nodes)))
	e.doc.Nodes = append(e.doc.Nodes, node)

	return e.doc, nil
}

func (e *gltfExporter) exportModel(model *Model) {
	mesh := model.Mesh
	if mesh.QuadCount() == 0 {
		// a valid model with zero visible voxels has no mesh to emit
		return
	}

	positionAccessor := modeler.WritePosition(e.doc, mesh.Positions)
	normalsAccessor := modeler.WriteNormal(e.doc, mesh.Normals)
	uvAccessor := modeler.WriteTextureCoord(e.doc, mesh.UVs)

	attributes := map[string]uint32{
		"POSITION":   positionAccessor,
		"NORMAL":     normalsAccessor,
		"TEXCOORD_0": uvAccessor,
	}

	gltfMesh := &gltf.Mesh{Name: model.Name}
	for _, materialIndex := range quadMaterialOrder(mesh) {
		indices := make([]uint32, 0)
		for iQuad := 0; iQuad < mesh.QuadCount(); iQuad++ {
			if mesh.QuadMaterials[iQuad] == materialIndex {
				indices = append(indices, mesh.Indexes[iQuad*6:iQuad*6+6]...)
			}
		}

		indicesAccessor := modeler.WriteIndices(e.doc, indices)
		gltfMesh.Primitives = append(gltfMesh.Primitives, &gltf.Primitive{
			Indices:    gltf.Index(indicesAccessor),
			Attributes: attributes,
			Material:   gltf.Index(e.materialFor(materialIndex)),
		})
	}

	e.meshForModel[model.Name] = uint32(len(e.doc.Meshes))
	e.doc.Meshes = append(e.doc.Meshes, gltfMesh)
}

// quadMaterialOrder lists the distinct palette indices of a mesh in
// first-use order, so primitive layout is deterministic.
func quadMaterialOrder(mesh *mesher.Mesh) []uint8 {
	seen := make(map[uint8]bool)
	order := make([]uint8, 0)
	for _, materialIndex := range mesh.QuadMaterials {
		if !seen[materialIndex] {
			seen[materialIndex] = true
			order = append(order, materialIndex)
		}
	}
	return order
}

func (e *gltfExporter) materialFor(paletteIndex uint8) uint32 {
	if id, ok := e.materialForPalette[paletteIndex]; ok {
		return id
	}

	element := &e.collection.Palette.Elements[paletteIndex]
	color := element.Color

	material := &gltf.Material{
		Name: fmt.Sprintf("palette-%d", paletteIndex),
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{color[0], color[1], color[2], color[3]},
			MetallicFactor:  gltf.Float(element.Metalness),
			RoughnessFactor: gltf.Float(element.Roughness),
		},
		DoubleSided: false,
	}
	if element.Emission > 0 {
		material.EmissiveFactor = [3]float32{
			color[0] * element.Emission,
			color[1] * element.Emission,
			color[2] * element.Emission,
		}
	}
	if element.HasRefraction {
		material.AlphaMode = gltf.AlphaBlend
		material.PBRMetallicRoughness.BaseColorFactor[3] = 1 - element.Transparency
	}

	id := uint32(len(e.doc.Materials))
	e.doc.Materials = append(e.doc.Materials, material)
	e.materialForPalette[paletteIndex] = id
	return id
}

func (e *gltfExporter) exportNode(node *scene.FlattenedNode) uint32 {
	gltfNode := &gltf.Node{
		Name:   node.Name,
		Matrix: [16]float32(node.Transform),
	}
	if node.ModelName != "" {
		if meshIndex, ok := e.meshForModel[node.ModelName]; ok {
			gltfNode.Mesh = gltf.Index(meshIndex)
		}
	}

	for _, child := range node.Children {
		gltfNode.Children = append(gltfNode.Children, e.exportNode(child))
	}

	id := uint32(len(e.doc.Nodes))
	e.doc.Nodes = append(e.doc.Nodes, gltfNode)
	return id
}
