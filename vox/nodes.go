package vox

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mosvald/vox_scene_browser/utils"
)

type NodeKind int

const (
	NodeTransform NodeKind = iota
	NodeGroup
	NodeShape
)

func (k NodeKind) String() string {
	switch k {
	case NodeTransform:
		return "Transform"
	case NodeGroup:
		return "Group"
	case NodeShape:
		return "Shape"
	default:
		return "Unknown"
	}
}

type ShapeModel struct {
	ModelID    int32
	Attributes map[string]string
}

type Frame struct {
	Attributes map[string]string
}

// SceneNode is a tagged variant: depending on Kind only one group of
// fields is meaningful. Node references (Child, Children) are indices
// into File.SceneNodes.
type SceneNode struct {
	Kind       NodeKind
	ID         int32
	Attributes map[string]string

	// Transform
	Child   int32
	LayerID int32
	Frames  []Frame

	// Group
	Children []int32

	// Shape
	Models []ShapeModel
}

func (n *SceneNode) Name() string {
	return n.Attributes["_name"]
}

// Rotation packs a signed permutation matrix into one byte: two bit
// pairs select the non-zero column of the first two rows, three bits
// carry the row signs.
type Rotation uint8

func (r Rotation) Matrix() mgl32.Mat3 {
	i0 := int(r) & 3
	i1 := (int(r) >> 2) & 3
	i2 := 3 - i0 - i1

	var m mgl32.Mat3
	rows := [3]int{i0, i1, i2}
	for row, col := range rows {
		v := float32(1)
		if r&(1<<(4+uint(row))) != 0 {
			v = -1
		}
		if col >= 0 && col < 3 {
			m.Set(row, col, v)
		}
	}
	return m
}

// QuatScale splits the packed matrix into a proper rotation and a
// +-1 scale vector that carries any reflection.
func (r Rotation) QuatScale() (mgl32.Quat, mgl32.Vec3) {
	m := r.Matrix()

	scale := mgl32.Vec3{1, 1, 1}
	if m.Det() < 0 {
		// flip one axis so the remainder is a pure rotation
		scale = mgl32.Vec3{-1, 1, 1}
		m = m.Mul3(mgl32.Diag3(scale))
	}

	return mgl32.Mat4ToQuat(m.Mat4()), scale
}

func (f *Frame) Rotation() (Rotation, bool) {
	s, ok := f.Attributes["_r"]
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 255 {
		return 0, false
	}
	return Rotation(v), true
}

func (f *Frame) Translation() (t [3]int32, ok bool) {
	s, present := f.Attributes["_t"]
	if !present {
		return t, false
	}
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return t, false
	}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return [3]int32{}, false
		}
		t[i] = int32(v)
	}
	return t, true
}

// readDict reads an attribute dictionary: int32 pair count, then
// length-prefixed key and value strings.
func readDict(buf []byte) (map[string]string, int, error) {
	if len(buf) < 4 {
		return nil, 0, errors.Errorf("Dict header does not fit in %d bytes", len(buf))
	}
	count := int(int32(binary.LittleEndian.Uint32(buf[0:4])))
	if count < 0 {
		return nil, 0, errors.Errorf("Negative dict pair count %d", count)
	}

	dict := make(map[string]string, count)
	pos := 4
	for i := 0; i < count; i++ {
		key, n, err := readDictString(buf[pos:])
		if err != nil {
			return nil, 0, errors.Wrapf(err, "Failed to read key %d", i)
		}
		pos += n
		value, n, err := readDictString(buf[pos:])
		if err != nil {
			return nil, 0, errors.Wrapf(err, "Failed to read value of %q", key)
		}
		pos += n
		dict[key] = value
	}
	return dict, pos, nil
}

func readDictString(buf []byte) (string, int, error) {
	if len(buf) < 4 {
		return "", 0, errors.Errorf("String header does not fit in %d bytes", len(buf))
	}
	size := int(int32(binary.LittleEndian.Uint32(buf[0:4])))
	if size < 0 || len(buf) < 4+size {
		return "", 0, errors.Errorf("String of size %d does not fit in %d bytes", size, len(buf))
	}
	return utils.BytesToString(buf[4 : 4+size]), 4 + size, nil
}

func (vf *File) parseSceneNodeChunk(id string, buf []byte) error {
	if len(buf) < 4 {
		return errors.Errorf("Chunk is too small: %d", len(buf))
	}
	node := SceneNode{
		ID:      int32(binary.LittleEndian.Uint32(buf[0:4])),
		LayerID: -1,
	}

	attrs, n, err := readDict(buf[4:])
	if err != nil {
		return errors.Wrapf(err, "Failed to read node %d attributes", node.ID)
	}
	node.Attributes = attrs
	pos := 4 + n

	switch id {
	case "nTRN":
		node.Kind = NodeTransform
		if len(buf) < pos+16 {
			return errors.Errorf("Transform header does not fit")
		}
		node.Child = int32(binary.LittleEndian.Uint32(buf[pos : pos+4]))
		// reserved id at pos+4, always -1
		node.LayerID = int32(binary.LittleEndian.Uint32(buf[pos+8 : pos+12]))
		frameCount := int(int32(binary.LittleEndian.Uint32(buf[pos+12 : pos+16])))
		pos += 16
		if frameCount < 0 {
			return errors.Errorf("Negative frame count %d", frameCount)
		}
		node.Frames = make([]Frame, frameCount)
		for i := 0; i < frameCount; i++ {
			fattrs, n, err := readDict(buf[pos:])
			if err != nil {
				return errors.Wrapf(err, "Failed to read frame %d", i)
			}
			node.Frames[i] = Frame{Attributes: fattrs}
			pos += n
		}
	case "nGRP":
		node.Kind = NodeGroup
		if len(buf) < pos+4 {
			return errors.Errorf("Group header does not fit")
		}
		childCount := int(int32(binary.LittleEndian.Uint32(buf[pos : pos+4])))
		pos += 4
		if childCount < 0 || len(buf) < pos+childCount*4 {
			return errors.Errorf("Group declares %d children that do not fit", childCount)
		}
		node.Children = make([]int32, childCount)
		for i := range node.Children {
			node.Children[i] = int32(binary.LittleEndian.Uint32(buf[pos : pos+4]))
			pos += 4
		}
	case "nSHP":
		node.Kind = NodeShape
		if len(buf) < pos+4 {
			return errors.Errorf("Shape header does not fit")
		}
		modelCount := int(int32(binary.LittleEndian.Uint32(buf[pos : pos+4])))
		pos += 4
		if modelCount <= 0 {
			return errors.Errorf("Shape node %d references no models", node.ID)
		}
		node.Models = make([]ShapeModel, modelCount)
		for i := 0; i < modelCount; i++ {
			if len(buf) < pos+4 {
				return errors.Errorf("Shape model %d does not fit", i)
			}
			modelId := int32(binary.LittleEndian.Uint32(buf[pos : pos+4]))
			pos += 4
			mattrs, n, err := readDict(buf[pos:])
			if err != nil {
				return errors.Wrapf(err, "Failed to read shape model %d attributes", i)
			}
			pos += n
			node.Models[i] = ShapeModel{ModelID: modelId, Attributes: mattrs}
		}
	}

	vf.SceneNodes = append(vf.SceneNodes, node)
	return nil
}

func (vf *File) parseLayerChunk(buf []byte) error {
	if len(buf) < 4 {
		return errors.Errorf("Chunk is too small: %d", len(buf))
	}
	layer := Layer{
		ID: int32(binary.LittleEndian.Uint32(buf[0:4])),
	}
	attrs, _, err := readDict(buf[4:])
	if err != nil {
		return errors.Wrapf(err, "Failed to read layer %d attributes", layer.ID)
	}
	layer.Attributes = attrs
	vf.Layers = append(vf.Layers, layer)
	return nil
}
