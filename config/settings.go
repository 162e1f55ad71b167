package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings tune how voxel models are turned into meshes and materials.
type Settings struct {
	// Length of each side of a single voxel.
	VoxelSize float32 `yaml:"voxel_size"`
	// Whether the outer-most faces of a model should be meshed. Set to
	// false for models that tile seamlessly, so silhouette faces are
	// omitted.
	MeshOuterFaces bool `yaml:"mesh_outer_faces"`
	// Multiplier for emissive strength.
	EmissionStrength float32 `yaml:"emission_strength"`
	// MagicaVoxel stores palette colors as perceptual sRGB.
	UsesSRGB bool `yaml:"uses_srgb"`
	// Roughness used for the default "diffuse" block type, which the
	// editor does not let you adjust.
	DiffuseRoughness float32 `yaml:"diffuse_roughness"`
}

func DefaultSettings() Settings {
	return Settings{
		VoxelSize:        1.0,
		MeshOuterFaces:   true,
		EmissionStrength: 10.0,
		UsesSRGB:         true,
		DiffuseRoughness: 0.8,
	}
}

var currentSettings = DefaultSettings()

func GetSettings() Settings {
	return currentSettings
}

func SetSettings(s Settings) {
	currentSettings = s
}

func LoadSettingsFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to read settings file %q", path)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return errors.Wrapf(err, "Failed to unmarshal settings file %q", path)
	}

	currentSettings = s
	return nil
}
