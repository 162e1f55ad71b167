package scene

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mosvald/vox_scene_browser/vox"
)

type Visibility int

const (
	VisibilityInherited Visibility = iota
	VisibilityHidden
)

func (v Visibility) String() string {
	if v == VisibilityHidden {
		return "Hidden"
	}
	return "Inherited"
}

type LayerInfo struct {
	Name   string
	Hidden bool
}

// FlattenedNode is one node of the materialized scene tree. Name is the
// slash-joined path accumulated from ancestor transform names, empty
// for unnamed nodes. ModelName references a model by name instead of
// embedding it.
type FlattenedNode struct {
	Name       string
	Transform  mgl32.Mat4
	Visibility Visibility
	Layer      *LayerInfo
	ModelName  string
	Children   []*FlattenedNode
}

// Registry is a write-once set of sub-scene names. Sibling shapes under
// one group name would otherwise register the same sub-scene twice.
type Registry struct {
	mu    sync.Mutex
	names map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register reports whether name was inserted, false if already present.
func (r *Registry) Register(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[name]; exists {
		return false
	}
	r.names[name] = struct{}{}
	return true
}

func LayerTableFromFile(vf *vox.File) map[int32]LayerInfo {
	layers := make(map[int32]LayerInfo, len(vf.Layers))
	for i := range vf.Layers {
		l := &vf.Layers[i]
		layers[l.ID] = LayerInfo{Name: l.Name(), Hidden: l.Hidden()}
	}
	return layers
}

// accumulatedAndNodeName joins the parent path and this node's own name
// with a slash. An unnamed node passes its parent's path through to its
// children unchanged and acquires no name of its own.
func accumulatedAndNodeName(parentName, ownName string) (accumulated, nodeName string) {
	switch {
	case parentName == "" && ownName == "":
		return "", ""
	case parentName == "":
		return ownName, ownName
	case ownName == "":
		return parentName, ""
	default:
		accumulated := parentName + "/" + ownName
		return accumulated, accumulated
	}
}
