package main

import (
	"flag"
	"log"

	"github.com/mosvald/vox_scene_browser/collection"
	"github.com/mosvald/vox_scene_browser/config"
	"github.com/mosvald/vox_scene_browser/web"
)

func main() {
	var addr, voxpath, settingspath, encoding, webpath string
	var voxelSize, emissionStrength, diffuseRoughness float64
	var meshOuterFaces, usesSRGB bool
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&voxpath, "vox", "", "Path to .vox file")
	flag.StringVar(&settingspath, "settings", "", "Path to yaml settings file")
	flag.StringVar(&encoding, "encoding", "", "Text encoding of dict strings (default windows-1252)")
	flag.StringVar(&webpath, "web", "web", "Path to folder with static viewer files (empty to disable)")
	flag.Float64Var(&voxelSize, "voxelsize", -1, "World size of one voxel edge override")
	flag.Float64Var(&emissionStrength, "emission", -1, "Emissive material strength multiplier override")
	flag.Float64Var(&diffuseRoughness, "roughness", -1, "Default diffuse roughness override")
	flag.BoolVar(&meshOuterFaces, "outerfaces", true, "Mesh faces on the model boundary")
	flag.BoolVar(&usesSRGB, "srgb", true, "Treat palette colors as srgb")
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

	settings := config.GetSettings()
	if voxelSize > 0 {
		settings.VoxelSize = float32(voxelSize)
	}
	if emissionStrength >= 0 {
		settings.EmissionStrength = float32(emissionStrength)
	}
	if diffuseRoughness >= 0 {
		settings.DiffuseRoughness = float32(diffuseRoughness)
	}
	settings.MeshOuterFaces = meshOuterFaces
	settings.UsesSRGB = usesSRGB
	config.SetSettings(settings)

	if encoding != "" {
		if err := config.SetEncoding(encoding); err != nil {
			log.Fatal(err)
		}
	}

	c, err := collection.LoadFromPath(voxpath)
	if err != nil {
		log.Fatal(err)
	}

	if err := web.StartServer(addr, c, webpath); err != nil {
		log.Fatal(err)
	}
}
