package scene

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mosvald/vox_scene_browser/vox"
)

// Flattener materializes the decoded scene graph into a tree of
// FlattenedNodes and registers every named branch as an independently
// addressable sub-scene.
type Flattener struct {
	graph      []vox.SceneNode
	modelNames []string
	layers     map[int32]LayerInfo
	voxelSize  float32

	registry  *Registry
	SubScenes map[string]*FlattenedNode
}

func NewFlattener(graph []vox.SceneNode, modelNames []string, layers map[int32]LayerInfo, voxelSize float32) *Flattener {
	return &Flattener{
		graph:      graph,
		modelNames: modelNames,
		layers:     layers,
		voxelSize:  voxelSize,
		registry:   NewRegistry(),
		SubScenes:  make(map[string]*FlattenedNode),
	}
}

// Build flattens the whole graph starting at the root transform.
func (f *Flattener) Build() *FlattenedNode {
	if len(f.graph) == 0 {
		return &FlattenedNode{Transform: mgl32.Ident4()}
	}
	return f.buildScene(0, "")
}

// buildScene builds a tree rooted at a transform node. The root's own
// frames are ignored, a sub-scene is loaded relative to its root.
func (f *Flattener) buildScene(nodeIndex int32, parentName string) *FlattenedNode {
	node := nodeAt(f.graph, nodeIndex)
	if node == nil || node.Kind != vox.NodeTransform {
		log.Printf("[scene] Scene root %d is not a Transform node", nodeIndex)
		return &FlattenedNode{Transform: mgl32.Ident4()}
	}

	accumulated, nodeName := accumulatedAndNodeName(parentName, node.Name())

	root := &FlattenedNode{
		Name:       nodeName,
		Transform:  mgl32.Ident4(),
		Visibility: f.resolveVisibility(node),
		Layer:      f.layerOf(node),
	}
	f.buildTransformChild(root, node.Child, accumulated)
	return root
}

// buildNode handles one graph node below a transform child and appends
// the resulting child to parent.
func (f *Flattener) buildNode(parent *FlattenedNode, nodeIndex int32, parentName string) {
	node := nodeAt(f.graph, nodeIndex)
	if node == nil {
		return
	}

	switch node.Kind {
	case vox.NodeTransform:
		accumulated, nodeName := accumulatedAndNodeName(parentName, node.Name())

		child := &FlattenedNode{
			Name:       nodeName,
			Transform:  f.transformOf(node),
			Visibility: f.resolveVisibility(node),
			Layer:      f.layerOf(node),
		}
		f.buildTransformChild(child, node.Child, accumulated)
		parent.Children = append(parent.Children, child)

		if nodeName != "" && f.registry.Register(nodeName) {
			f.SubScenes[nodeName] = f.buildScene(nodeIndex, parentName)
		}
	case vox.NodeGroup, vox.NodeShape:
		log.Printf("[scene] Found %s node %d without a parent Transform", node.Kind, node.ID)
		wrapper := &FlattenedNode{Transform: mgl32.Ident4()}
		f.buildTransformChild(wrapper, nodeIndex, parentName)
		parent.Children = append(parent.Children, wrapper)
	}
}

// buildTransformChild fills node from the child of a transform, which
// must be a group or a shape.
func (f *Flattener) buildTransformChild(node *FlattenedNode, childIndex int32, parentName string) {
	child := nodeAt(f.graph, childIndex)
	if child == nil {
		return
	}

	switch child.Kind {
	case vox.NodeTransform:
		log.Printf("[scene] Found nested Transform node %d", child.ID)
		f.buildNode(node, childIndex, parentName)
	case vox.NodeGroup:
		for _, grandchild := range child.Children {
			f.buildNode(node, grandchild, parentName)
		}
	case vox.NodeShape:
		modelId := int(child.Models[0].ModelID)
		node.ModelName = SynthesizeModelName(f.modelNames, modelId)
	}
}

func (f *Flattener) transformOf(node *vox.SceneNode) mgl32.Mat4 {
	if len(node.Frames) == 0 {
		return mgl32.Ident4()
	}
	// only the first animation frame matters for placement
	return TransformFromFrame(&node.Frames[0], f.voxelSize)
}

func (f *Flattener) layerOf(node *vox.SceneNode) *LayerInfo {
	if layer, ok := f.layers[node.LayerID]; ok {
		return &layer
	}
	return nil
}

func (f *Flattener) resolveVisibility(node *vox.SceneNode) Visibility {
	nodeHidden := parseBoolAttribute(node.Attributes, "_hidden")
	layerHidden := false
	if layer := f.layerOf(node); layer != nil {
		layerHidden = layer.Hidden
	}
	if nodeHidden || layerHidden {
		return VisibilityHidden
	}
	return VisibilityInherited
}

func parseBoolAttribute(attributes map[string]string, key string) bool {
	value, present := attributes[key]
	if !present {
		return false
	}
	switch value {
	case "1":
		return true
	case "0":
		return false
	default:
		log.Printf("[scene] Invalid boolean string %q for attribute %q", value, key)
		return false
	}
}
