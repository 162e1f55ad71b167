package scene

import (
	"fmt"
	"log"

	"github.com/mosvald/vox_scene_browser/vox"
)

// FindModelNames walks the scene graph and returns, for each model
// index, the accumulated name of a transform that references it, or ""
// when no named transform does. This has to happen before the tree is
// built: a shape may be visited before the transform that names its
// model.
func FindModelNames(graph []vox.SceneNode, modelCount int) []string {
	names := make([]string, modelCount)
	if len(graph) > 0 {
		findModelNames(names, graph, 0, "")
	}
	return names
}

func findModelNames(names []string, graph []vox.SceneNode, nodeIndex int32, parentName string) {
	node := nodeAt(graph, nodeIndex)
	if node == nil || node.Kind != vox.NodeTransform {
		return
	}

	accumulated, nodeName := accumulatedAndNodeName(parentName, node.Name())

	child := nodeAt(graph, node.Child)
	if child == nil {
		return
	}
	switch child.Kind {
	case vox.NodeGroup:
		for _, grandchild := range child.Children {
			findModelNames(names, graph, grandchild, accumulated)
		}
	case vox.NodeShape:
		if nodeName == "" {
			return
		}
		modelId := int(child.Models[0].ModelID)
		if modelId < 0 || modelId >= len(names) {
			log.Printf("[scene] Shape node %d references unknown model %d", child.ID, modelId)
			return
		}
		// the last named reference wins, shared models keep one name
		names[modelId] = nodeName
	case vox.NodeTransform:
		// the build pass recovers nested transforms, harvest their
		// names the same way
		findModelNames(names, graph, node.Child, accumulated)
	}
}

// SynthesizeModelName gives unnamed models a stable positional name.
func SynthesizeModelName(names []string, index int) string {
	if index >= 0 && index < len(names) && names[index] != "" {
		return names[index]
	}
	return fmt.Sprintf("model-%d", index)
}

func nodeAt(graph []vox.SceneNode, index int32) *vox.SceneNode {
	if index < 0 || int(index) >= len(graph) {
		log.Printf("[scene] Node reference %d outside of graph of %d nodes", index, len(graph))
		return nil
	}
	return &graph[index]
}
