package palette

import (
	"log"
	"math"
	"strconv"

	"github.com/mosvald/vox_scene_browser/config"
	"github.com/mosvald/vox_scene_browser/utils"
	"github.com/mosvald/vox_scene_browser/vox"
)

// PropertyKind summarizes how an optical property is used across the
// 256 palette entries, so consumers know whether one shared material
// is enough for the whole file.
type PropertyKind int

const (
	PropertyNone PropertyKind = iota
	PropertyConstant
	PropertyVariesPerElement
)

func (k PropertyKind) String() string {
	switch k {
	case PropertyNone:
		return "None"
	case PropertyConstant:
		return "Constant"
	case PropertyVariesPerElement:
		return "VariesPerElement"
	default:
		return "Unknown"
	}
}

type Element struct {
	Index           uint8
	Color           utils.ColorFloat
	Roughness       float32
	Metalness       float32
	Emission        float32
	Transparency    float32
	RefractionIndex float32
	HasRefraction   bool
}

type Palette struct {
	Elements     [256]Element
	Emission     PropertyKind
	Transparency PropertyKind
	// Material index -> index of refraction, for translucent elements only.
	IndicesOfRefraction map[uint8]float32
}

// NewFromFile resolves physical properties for every palette entry.
// A malformed attribute value never fails the load, it degrades to the
// documented default.
func NewFromFile(vf *vox.File, settings config.Settings) *Palette {
	p := &Palette{
		IndicesOfRefraction: make(map[uint8]float32),
	}

	for i := range p.Elements {
		index := uint8(i)
		e := Element{
			Index:     index,
			Roughness: settings.DiffuseRoughness,
		}

		c := vf.Palette[i]
		e.Color = utils.NewColorFloatBytes(c[0], c[1], c[2], c[3])
		if settings.UsesSRGB {
			e.Color = e.Color.ToLinear()
		}

		if mat, ok := vf.Materials[index]; ok {
			resolveMaterial(&e, mat, settings)
		}

		if e.Transparency > 0 {
			e.HasRefraction = true
			p.IndicesOfRefraction[index] = e.RefractionIndex
		}

		p.Elements[i] = e
	}

	p.Emission = classify(p.Elements[:], func(e *Element) float32 { return e.Emission })
	p.Transparency = classify(p.Elements[:], func(e *Element) float32 { return e.Transparency })

	return p
}

// ColorStrip flattens the palette into a 256x1 RGBA8 strip for
// atlas-style color lookup by palette index.
func (p *Palette) ColorStrip() []uint8 {
	strip := make([]uint8, 0, len(p.Elements)*4)
	for i := range p.Elements {
		c := &p.Elements[i]
		for channel := 0; channel < 4; channel++ {
			v := c.Color[channel]
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			strip = append(strip, uint8(v*255+0.5))
		}
	}
	return strip
}

func resolveMaterial(e *Element, mat vox.Material, settings config.Settings) {
	e.Roughness = floatProperty(mat, "_rough", settings.DiffuseRoughness)
	e.Metalness = floatProperty(mat, "_metal", 0)

	switch mat.Properties["_type"] {
	case "_emit":
		emit := floatProperty(mat, "_emit", 0)
		flux := floatProperty(mat, "_flux", 0)
		e.Emission = emit * float32(math.Pow(10, float64(flux))) * settings.EmissionStrength
	case "_glass", "_blend", "_media":
		e.Transparency = floatProperty(mat, "_trans", floatProperty(mat, "_alpha", 0))
		if e.Transparency > 0 {
			// the editor stores the offset from vacuum
			e.RefractionIndex = 1.0 + floatProperty(mat, "_ior", 0)
		}
	}
}

func floatProperty(mat vox.Material, key string, def float32) float32 {
	s, ok := mat.Properties[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		log.Printf("[palette] Invalid %s value %q for material %d, using default %v", key, s, mat.ID, def)
		return def
	}
	return float32(v)
}

func classify(elements []Element, value func(*Element) float32) PropertyKind {
	kind := PropertyNone
	var first float32
	for i := range elements {
		v := value(&elements[i])
		if v <= 0 {
			continue
		}
		switch kind {
		case PropertyNone:
			kind = PropertyConstant
			first = v
		case PropertyConstant:
			if v != first {
				return PropertyVariesPerElement
			}
		}
	}
	return kind
}
