package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/mosvald/vox_scene_browser/collection"
	"github.com/mosvald/vox_scene_browser/config"
	"github.com/mosvald/vox_scene_browser/utils"
	"github.com/mosvald/vox_scene_browser/utils/gltfutils"
)

func exportGltf(c *collection.Collection, modelName, outPath string, binary bool) error {
	var doc *gltf.Document
	var err error
	if modelName != "" {
		var model *collection.Model
		if model, err = c.ResolveModel(c.Address(modelName)); err == nil {
			doc, err = c.ExportGLTFModel(model)
		}
	} else {
		doc, err = c.ExportGLTF()
	}
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if binary {
		return gltfutils.ExportBinary(f, doc)
	}
	return gltfutils.ExportText(f, doc)
}

func exportObj(c *collection.Collection, modelName, outPath string) error {
	model, err := c.ResolveModel(c.Address(modelName))
	if err != nil {
		return err
	}

	materials := make([]string, len(c.Palette.Elements))
	for i := range materials {
		materials[i] = fmt.Sprintf("palette-%d", i)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return model.Mesh.ExportObj(f, model.Name, materials)
}

func main() {
	var voxpath, out, format, model, settingspath string
	var dumpScene bool
	flag.StringVar(&voxpath, "vox", "", "Path to .vox file")
	flag.StringVar(&out, "out", "", "Output file (default input name with new extension)")
	flag.StringVar(&format, "format", "glb", "Output format: glb, gltf or obj")
	flag.StringVar(&model, "model", "", "Export only this model (required for obj)")
	flag.StringVar(&settingspath, "settings", "", "Path to yaml settings file")
	flag.BoolVar(&dumpScene, "dump", false, "Print the flattened scene tree before exporting")
	flag.Parse()

	if voxpath == "" {
		flag.PrintDefaults()
		return
	}

	if settingspath != "" {
		if err := config.LoadSettingsFromFile(settingspath); err != nil {
			log.Fatal(err)
		}
	}

	if out == "" {
		out = strings.TrimSuffix(voxpath, filepath.Ext(voxpath)) + "." + format
	}

	c, err := collection.LoadFromPath(voxpath)
	if err != nil {
		log.Fatalf("Failed to load %q: %v", voxpath, err)
	}

	if dumpScene {
		utils.LogDump(c.Root)
	}

	switch format {
	case "glb":
		err = exportGltf(c, model, out, true)
	case "gltf":
		err = exportGltf(c, model, out, false)
	case "obj":
		if model == "" {
			log.Fatal("obj export requires -model")
		}
		err = exportObj(c, model, out)
	default:
		log.Fatalf("Unknown format %q", format)
	}

	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	log.Printf("Exported %v", out)
}
