package web

import (
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mosvald/vox_scene_browser/collection"
)

var ServerCollection *collection.Collection

func StartServer(addr string, c *collection.Collection, webPath string) error {
	ServerCollection = c

	r := mux.NewRouter()
	r.HandleFunc("/json/scene/{name}", HandlerAjaxSubScene)
	r.HandleFunc("/json/scene", HandlerAjaxScene)
	r.HandleFunc("/json/model/{name}", HandlerAjaxModel)
	r.HandleFunc("/json/palette", HandlerAjaxPalette)
	r.HandleFunc("/json/voxel/{name}/{x}/{y}/{z}", HandlerAjaxVoxel)
	r.HandleFunc("/dump/gltf/{name}", HandlerDumpGltfModel)
	r.HandleFunc("/dump/gltf", HandlerDumpGltf)
	r.HandleFunc("/dump/obj/{name}", HandlerDumpObjModel)
	r.HandleFunc("/dump/yaml", HandlerDumpYaml)
	r.HandleFunc("/ws/status", HandlerWebsocketStatus)

	if webPath != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))
	}

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
