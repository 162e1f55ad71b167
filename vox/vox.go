package vox

import (
	"encoding/binary"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/mosvald/vox_scene_browser/utils"
)

const FILE_MAGIC = "VOX "
const SUPPORTED_VERSION = 150

// Index of a voxel that is not there. Color indices in XYZI chunks are
// 1-based, so after the -1 shift the whole 0-255 range below 255 is valid.
const INDEX_EMPTY = 255

type Voxel struct {
	X, Y, Z uint8
	// Palette index, already shifted down by one from the raw file value.
	Index uint8
}

type Model struct {
	SizeX, SizeY, SizeZ uint32
	Voxels              []Voxel
}

type Material struct {
	ID         int32
	Properties map[string]string
}

type Layer struct {
	ID         int32
	Attributes map[string]string
}

func (l *Layer) Name() string {
	return l.Attributes["_name"]
}

func (l *Layer) Hidden() bool {
	return l.Attributes["_hidden"] == "1"
}

type File struct {
	Version int32
	Models  []Model
	// Palette[i] is the RGBA color of material index i.
	Palette [256][4]uint8
	// Material index -> MATL chunk properties.
	Materials  map[uint8]Material
	SceneNodes []SceneNode
	Layers     []Layer
}

func NewFileFromData(f io.Reader) (*File, error) {
	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return nil, errors.Wrapf(err, "Failed to read magic")
	}
	if string(magic[:]) != FILE_MAGIC {
		return nil, errors.Errorf("Wrong magic %q", magic)
	}

	vf := &File{
		Palette:   defaultPalette(),
		Materials: make(map[uint8]Material),
	}

	if err := binary.Read(f, binary.LittleEndian, &vf.Version); err != nil {
		return nil, errors.Wrapf(err, "Failed to read version")
	}
	if vf.Version > SUPPORTED_VERSION {
		log.Printf("[vox] File version %d is newer than supported %d, parsing anyway", vf.Version, SUPPORTED_VERSION)
	}

	for {
		var chunkId [4]byte
		if _, err := io.ReadFull(f, chunkId[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "Failed to read chunk id")
		}

		var chunkSize, childrenSize int32
		if err := binary.Read(f, binary.LittleEndian, &chunkSize); err != nil {
			return nil, errors.Wrapf(err, "Failed to read chunk %q size", chunkId)
		}
		if err := binary.Read(f, binary.LittleEndian, &childrenSize); err != nil {
			return nil, errors.Wrapf(err, "Failed to read chunk %q children size", chunkId)
		}
		if chunkSize < 0 {
			return nil, errors.Errorf("Negative size of chunk %q", chunkId)
		}

		// Do not trust chunkSize with an up-front allocation, the
		// stream may end long before the declared size.
		buf, err := io.ReadAll(io.LimitReader(f, int64(chunkSize)))
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read chunk %q content", chunkId)
		}
		if len(buf) != int(chunkSize) {
			return nil, errors.Errorf("Chunk %q truncated: got %d of %d bytes", chunkId, len(buf), chunkSize)
		}

		if err := vf.parseChunk(string(chunkId[:]), buf); err != nil {
			return nil, errors.Wrapf(err, "Failed to parse chunk %q", chunkId)
		}
	}

	if len(vf.SceneNodes) == 0 {
		vf.SceneNodes = syntheticSceneNodes(len(vf.Models))
	}

	return vf, nil
}

func NewFileFromPath(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %q", path)
	}
	defer f.Close()
	return NewFileFromData(f)
}

func (vf *File) parseChunk(id string, buf []byte) error {
	switch id {
	case "MAIN":
		// container for every other chunk
	case "PACK":
		// model count hint, SIZE/XYZI pairs follow anyway
	case "SIZE":
		if len(buf) < 12 {
			return errors.Errorf("Chunk is too small: %d", len(buf))
		}
		vf.Models = append(vf.Models, Model{
			SizeX: binary.LittleEndian.Uint32(buf[0:4]),
			SizeY: binary.LittleEndian.Uint32(buf[4:8]),
			SizeZ: binary.LittleEndian.Uint32(buf[8:12]),
		})
	case "XYZI":
		if len(vf.Models) == 0 {
			return errors.New("XYZI chunk before SIZE chunk")
		}
		if len(buf) < 4 {
			return errors.Errorf("Chunk is too small: %d", len(buf))
		}
		count := int(binary.LittleEndian.Uint32(buf[0:4]))
		if len(buf) < 4+count*4 {
			return errors.Errorf("Chunk declares %d voxels but holds %d bytes", count, len(buf))
		}
		model := &vf.Models[len(vf.Models)-1]
		model.Voxels = make([]Voxel, count)
		for i := 0; i < count; i++ {
			o := 4 + i*4
			model.Voxels[i] = Voxel{
				X:     buf[o],
				Y:     buf[o+1],
				Z:     buf[o+2],
				Index: buf[o+3] - 1,
			}
		}
	case "RGBA":
		for i := 0; i+4 <= len(buf) && i/4 < 256; i += 4 {
			vf.Palette[i/4] = [4]uint8{buf[i], buf[i+1], buf[i+2], buf[i+3]}
		}
	case "MATL":
		return vf.parseMaterialChunk(buf)
	case "nTRN", "nGRP", "nSHP":
		return vf.parseSceneNodeChunk(id, buf)
	case "LAYR":
		return vf.parseLayerChunk(buf)
	case "rOBJ", "rCAM", "NOTE", "IMAP":
		// render/editor chunks, nothing here affects geometry
	default:
		preview := buf
		if len(preview) > 24 {
			preview = preview[:24]
		}
		log.Printf("[vox] Skipping unknown chunk %q (%d bytes): %s",
			id, len(buf), utils.DumpToOneLineString(preview))
	}
	return nil
}

func (vf *File) parseMaterialChunk(buf []byte) error {
	if len(buf) < 4 {
		return errors.Errorf("Chunk is too small: %d", len(buf))
	}
	id := int32(binary.LittleEndian.Uint32(buf[0:4]))
	props, _, err := readDict(buf[4:])
	if err != nil {
		return errors.Wrapf(err, "Failed to read material %d dict", id)
	}

	// MATL ids are 1-based like XYZI color indices
	index := id - 1
	if index < 0 || index > 255 {
		log.Printf("[vox] Skipping material with out of range id %d", id)
		return nil
	}
	vf.Materials[uint8(index)] = Material{ID: id, Properties: props}
	return nil
}

func defaultPalette() (p [256][4]uint8) {
	for i := range p {
		p[i] = [4]uint8{255, 255, 255, 255}
	}
	return p
}

// Files saved without an explicit scene graph still need a root for the
// flattener to walk: one transform per model, all under one group.
func syntheticSceneNodes(modelCount int) []SceneNode {
	nodes := make([]SceneNode, 0, modelCount*2+2)

	children := make([]int32, modelCount)
	for i := range children {
		children[i] = int32(2 + i*2)
	}
	nodes = append(nodes, SceneNode{
		Kind:       NodeTransform,
		ID:         0,
		Attributes: map[string]string{},
		Child:      1,
		LayerID:    -1,
		Frames:     []Frame{{Attributes: map[string]string{}}},
	})
	nodes = append(nodes, SceneNode{
		Kind:       NodeGroup,
		ID:         1,
		Attributes: map[string]string{},
		Children:   children,
	})
	for i := 0; i < modelCount; i++ {
		nodes = append(nodes, SceneNode{
			Kind:       NodeTransform,
			ID:         int32(2 + i*2),
			Attributes: map[string]string{},
			Child:      int32(3 + i*2),
			LayerID:    -1,
			Frames:     []Frame{{Attributes: map[string]string{}}},
		}, SceneNode{
			Kind:       NodeShape,
			ID:         int32(3 + i*2),
			Attributes: map[string]string{},
			Models:     []ShapeModel{{ModelID: int32(i), Attributes: map[string]string{}}},
		})
	}
	return nodes
}
