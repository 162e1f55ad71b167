package web

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mosvald/vox_scene_browser/collection"
	"github.com/mosvald/vox_scene_browser/config"
	"github.com/mosvald/vox_scene_browser/palette"
	"github.com/mosvald/vox_scene_browser/status"
	"github.com/mosvald/vox_scene_browser/utils/gltfutils"
	"github.com/mosvald/vox_scene_browser/webutils"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type ajaxModel struct {
	Index     int
	Name      string
	Size      [3]int
	QuadCount int
	Material  collection.MaterialDescriptor
}

type ajaxScene struct {
	Name      string
	Models    []ajaxModel
	SubScenes []string
	Root      interface{}
}

func newAjaxModel(m *collection.Model) ajaxModel {
	return ajaxModel{
		Index:     m.Index,
		Name:      m.Name,
		Size:      m.Grid.Size(),
		QuadCount: m.Mesh.QuadCount(),
		Material:  m.Material,
	}
}

func newAjaxScene(c *collection.Collection) ajaxScene {
	scene := ajaxScene{
		Name:      c.Name,
		Models:    make([]ajaxModel, 0, len(c.Models)),
		SubScenes: make([]string, 0, len(c.SubScenes)),
		Root:      c.Root,
	}
	for _, m := range c.Models {
		scene.Models = append(scene.Models, newAjaxModel(m))
	}
	for name := range c.SubScenes {
		scene.SubScenes = append(scene.SubScenes, name)
	}
	sort.Strings(scene.SubScenes)
	return scene
}

func HandlerAjaxScene(w http.ResponseWriter, r *http.Request) {
	scene := newAjaxScene(ServerCollection)
	webutils.WriteJson(w, &scene)
}

func HandlerAjaxSubScene(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	node, err := ServerCollection.ResolveScene(name)
	if err != nil {
		log.Printf("Error resolving scene %q: %v", name, err)
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, node)
	}
}

func HandlerAjaxModel(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	model, err := ServerCollection.ResolveModel(ServerCollection.Address(name))
	if err != nil {
		log.Printf("Error resolving model %q: %v", name, err)
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, newAjaxModel(model))
	}
}

func HandlerAjaxVoxel(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	model, err := ServerCollection.ResolveModel(ServerCollection.Address(name))
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	var point [3]int
	for i, axis := range []string{"x", "y", "z"} {
		v, err := strconv.Atoi(mux.Vars(r)[axis])
		if err != nil {
			webutils.WriteError(w, fmt.Errorf("coordinate '%s' is not integer", mux.Vars(r)[axis]))
			return
		}
		point[i] = v
	}

	type jVoxel struct {
		Present     bool
		Index       uint8
		Translucent bool
		Element     *palette.Element
	}

	voxel, ok := model.Grid.VoxelAt(point)
	result := jVoxel{Present: ok}
	if ok {
		result.Index = voxel.Index
		result.Translucent = voxel.Translucent
		result.Element = &ServerCollection.Palette.Elements[voxel.Index]
	}
	webutils.WriteJson(w, &result)
}

func HandlerDumpGltf(w http.ResponseWriter, r *http.Request) {
	doc, err := ServerCollection.ExportGLTF()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := gltfutils.ExportBinary(&buf, doc); err != nil {
		webutils.WriteError(w, fmt.Errorf("Error encoding gltf: %v", err))
	} else {
		webutils.WriteFile(w, &buf, ServerCollection.Name+".glb")
	}
}

func HandlerDumpGltfModel(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	model, err := ServerCollection.ResolveModel(ServerCollection.Address(name))
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	doc, err := ServerCollection.ExportGLTFModel(model)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := gltfutils.ExportBinary(&buf, doc); err != nil {
		webutils.WriteError(w, fmt.Errorf("Error encoding gltf: %v", err))
	} else {
		webutils.WriteFile(w, &buf, model.Name+".glb")
	}
}

func HandlerDumpObjModel(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	model, err := ServerCollection.ResolveModel(ServerCollection.Address(name))
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	materials := make([]string, len(ServerCollection.Palette.Elements))
	for i := range materials {
		materials[i] = fmt.Sprintf("palette-%d", i)
	}

	var buf bytes.Buffer
	if err := model.Mesh.ExportObj(&buf, model.Name, materials); err != nil {
		webutils.WriteError(w, fmt.Errorf("Error encoding obj: %v", err))
	} else {
		webutils.WriteFile(w, &buf, model.Name+".obj")
	}
}

func HandlerAjaxPalette(w http.ResponseWriter, r *http.Request) {
	p := ServerCollection.Palette
	webutils.WriteJson(w, &struct {
		Emission     string
		Transparency string
		Strip        []uint8
	}{
		Emission:     p.Emission.String(),
		Transparency: p.Transparency.String(),
		Strip:        p.ColorStrip(),
	})
}

func HandlerDumpYaml(w http.ResponseWriter, r *http.Request) {
	c := ServerCollection

	type yamlDump struct {
		Settings config.Settings
		Scene    ajaxScene
	}
	dump := yamlDump{
		Settings: config.GetSettings(),
		Scene:    newAjaxScene(c),
	}

	webutils.WriteYamlFile(w, &dump, c.Name)
}

func HandlerWebsocketStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] Websocket upgrade failed: %v", err)
		return
	}
	status.NewClient(conn)
}
