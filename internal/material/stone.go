package material

import (
	"image"
	"image/color"
	"time"

	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// StoneFloorConfig configures the polished marble floor.
type StoneFloorConfig struct {
	Tiles          int
	GroutWidth     float64
	VeinsPerTile   int
	Base           color.NRGBA
	Grout          color.NRGBA
	VeinColors     [2]color.NRGBA
	TileJitter     float64
	NoiseIntensity float64
	NormalStrength float64
	Roughness      RoughnessParams
	SeedBase       float64
}

// DefaultStoneFloor returns the chapel floor: 4x4 marble tiles, three veins each.
func DefaultStoneFloor() StoneFloorConfig {
	return StoneFloorConfig{
		Tiles:        4,
		GroutWidth:   0.035,
		VeinsPerTile: 3,
		Base:         color.NRGBA{R: 196, G: 190, B: 178, A: 255},
		Grout:        color.NRGBA{R: 92, G: 86, B: 78, A: 255},
		VeinColors: [2]color.NRGBA{
			{R: 128, G: 122, B: 114, A: 255},
			{R: 226, G: 222, B: 212, A: 255},
		},
		TileJitter:     14,
		NoiseIntensity: 14,
		NormalStrength: 4,
		Roughness:      RoughnessParams{Invert: true, Contrast: 25, Brightness: -20},
		SeedBase:       11,
	}
}

// StoneFloor paints a grid of marble tiles separated by grout.
func (g *Generator) StoneFloor(cfg StoneFloorConfig) (*texture.Set, error) {
	start := time.Now()
	size := g.size
	c, err := newCanvas(size, cfg.Base, 0.8)
	if err != nil {
		return nil, err
	}
	tiles := max(cfg.Tiles, 1)

	var slabs []block
	for j := 0; j < tiles; j++ {
		y0, y1 := span(j, tiles, size)
		for i := 0; i < tiles; i++ {
			x0, x1 := span(i, tiles, size)
			n := cfg.SeedBase + float64(j*tiles+i)*17.3
			b := block{r: image.Rect(x0, y0, x1, y1), seed: n}
			b.fill(c, pixel.Shade(cfg.Base, g.jitter(n, cfg.TileJitter)), 0.78+g.jitter(n+3.1, 0.04))
			slabs = append(slabs, b)
		}
	}

	// Veins may spill past their tile; drawing them after every face keeps the
	// spill identical across the wrap.
	for _, b := range slabs {
		axis := Horizontal
		if g.hash(b.seed+5.9) >= 0.5 {
			axis = Vertical
		}
		DrawVeins(c.diffuse, c.height, b.r, VeinSet{
			Count:     cfg.VeinsPerTile,
			Axis:      axis,
			Amplitude: float64(b.r.Dy()) * 0.08,
			Jitter:    float64(b.r.Dy()) * 0.05,
			Segments:  24,
			Seed:      b.seed,
			Colors:    cfg.VeinColors,
			Widths:    [2]float64{1.6, 0.9},
			Alpha:     0.55,
			Depth:     0.3,
			Tiled:     true,
		})
	}
	for i, b := range slabs {
		c.diffuse.AddNoise(b.r, g.field, pixel.NoiseParams{Intensity: cfg.NoiseIntensity, Seed: i})
	}

	width := cfg.GroutWidth * float64(size) / float64(tiles)
	groutHeight := color.NRGBA{R: 77, G: 77, B: 77, A: 255}
	for k := 0; k < tiles; k++ {
		p, _ := span(k, tiles, size)
		at := float64(p)
		s := float64(size)
		for _, line := range [][]pixel.Point{
			{{X: 0, Y: at}, {X: s, Y: at}},
			{{X: at, Y: 0}, {X: at, Y: s}},
		} {
			c.diffuse.StrokeCurveTiled(line, cfg.Grout, width, 1)
			c.height.StrokeCurveTiled(line, groutHeight, width, 1)
		}
	}
	c.height.AddHeightNoise(c.height.Bounds(), g.field, 0.03, 101)

	return g.finish(NameStoneFloor, c, outputs{
		NormalStrength: cfg.NormalStrength,
		Roughness:      &cfg.Roughness,
	}, start)
}

// StoneWallConfig configures the ashlar wall.
type StoneWallConfig struct {
	Courses         int
	BlocksPerCourse int
	MortarWidth     float64
	Base            color.NRGBA
	Mortar          color.NRGBA
	VeinColors      [2]color.NRGBA
	BlockJitter     float64
	NoiseIntensity  float64
	NormalStrength  float64
	Roughness       RoughnessParams
	SeedBase        float64
}

// DefaultStoneWall returns a running-bond wall of 8 courses, 4 blocks each.
func DefaultStoneWall() StoneWallConfig {
	return StoneWallConfig{
		Courses:         8,
		BlocksPerCourse: 4,
		MortarWidth:     0.08,
		Base:            color.NRGBA{R: 168, G: 156, B: 136, A: 255},
		Mortar:          color.NRGBA{R: 118, G: 110, B: 98, A: 255},
		VeinColors: [2]color.NRGBA{
			{R: 140, G: 128, B: 110, A: 255},
			{R: 186, G: 176, B: 158, A: 255},
		},
		BlockJitter:    18,
		NoiseIntensity: 16,
		NormalStrength: 5,
		Roughness:      RoughnessParams{Invert: true, Contrast: 10, Brightness: 15},
		SeedBase:       29,
	}
}

// StoneWall paints ashlar blocks in running bond with recessed mortar joints.
func (g *Generator) StoneWall(cfg StoneWallConfig) (*texture.Set, error) {
	start := time.Now()
	size := g.size
	c, err := newCanvas(size, cfg.Base, 0.75)
	if err != nil {
		return nil, err
	}
	courses := max(cfg.Courses, 1)
	perCourse := max(cfg.BlocksPerCourse, 1)
	s := float64(size)
	blockW := s / float64(perCourse)
	rowH := s / float64(courses)
	mortar := cfg.MortarWidth * rowH
	mortarHeight := color.NRGBA{R: 64, G: 64, B: 64, A: 255}

	// Joints are stroked after every face and vein so no later fill covers
	// the half that wraps across the edge.
	var blocks []block
	var joints [][]pixel.Point
	for row := 0; row < courses; row++ {
		y0, y1 := span(row, courses, size)
		offset := 0.0
		if row%2 == 1 {
			offset = blockW / 2
		}

		for k := 0; k < perCourse; k++ {
			n := cfg.SeedBase + float64(row*perCourse+k)*13.7
			x0 := int(offset + float64(k)*blockW)
			x1 := int(offset + float64(k+1)*blockW)
			b := block{r: image.Rect(x0, y0, x1, y1), seed: n}
			b.fill(c, pixel.Shade(cfg.Base, g.jitter(n, cfg.BlockJitter)), 0.72+g.jitter(n+2.3, 0.05))
			blocks = append(blocks, b)
			joints = append(joints, []pixel.Point{{X: float64(x0), Y: float64(y0)}, {X: float64(x0), Y: float64(y1)}})
		}
		joints = append(joints, []pixel.Point{{X: 0, Y: float64(y0)}, {X: s, Y: float64(y0)}})
	}

	for _, b := range blocks {
		DrawVeins(c.diffuse, c.height, b.r, VeinSet{
			Count:     1,
			Axis:      Horizontal,
			Amplitude: rowH * 0.15,
			Jitter:    rowH * 0.1,
			Segments:  16,
			Seed:      b.seed,
			Colors:    cfg.VeinColors,
			Widths:    [2]float64{1.2, 0.8},
			Alpha:     0.4,
			Depth:     0.35,
			Tiled:     true,
		})
	}

	for _, joint := range joints {
		c.diffuse.StrokeCurveTiled(joint, cfg.Mortar, mortar, 1)
		c.height.StrokeCurveTiled(joint, mortarHeight, mortar, 1)
	}

	c.diffuse.AddNoise(c.diffuse.Bounds(), g.field, pixel.NoiseParams{Intensity: cfg.NoiseIntensity, Seed: 7})
	c.height.AddHeightNoise(c.height.Bounds(), g.field, 0.06, 211)

	return g.finish(NameStoneWall, c, outputs{
		NormalStrength: cfg.NormalStrength,
		Roughness:      &cfg.Roughness,
	}, start)
}

// VaultStoneConfig configures the weathered voussoirs of the vaulted ceiling.
type VaultStoneConfig struct {
	Courses         int
	BlocksPerCourse int
	// CourseVariation is the relative spread of course heights.
	CourseVariation float64
	JointWidth      float64
	Base            color.NRGBA
	Joint           color.NRGBA
	VeinColors      [2]color.NRGBA
	BlockJitter     float64
	Weathering      float64
	NormalStrength  float64
	SeedBase        float64
}

// DefaultVaultStone returns six irregular courses of three voussoirs.
func DefaultVaultStone() VaultStoneConfig {
	return VaultStoneConfig{
		Courses:         6,
		BlocksPerCourse: 3,
		CourseVariation: 0.3,
		JointWidth:      2.5,
		Base:            color.NRGBA{R: 150, G: 142, B: 130, A: 255},
		Joint:           color.NRGBA{R: 96, G: 90, B: 82, A: 255},
		VeinColors: [2]color.NRGBA{
			{R: 118, G: 110, B: 100, A: 255},
			{R: 170, G: 164, B: 150, A: 255},
		},
		BlockJitter:    12,
		Weathering:     22,
		NormalStrength: 3,
		SeedBase:       53,
	}
}

// VaultStone paints courses of hashed height, each split into staggered
// voussoirs, then weathers the whole surface. It emits diffuse and normal
// maps only.
func (g *Generator) VaultStone(cfg VaultStoneConfig) (*texture.Set, error) {
	start := time.Now()
	size := g.size
	c, err := newCanvas(size, cfg.Base, 0.7)
	if err != nil {
		return nil, err
	}
	courses := max(cfg.Courses, 1)
	perCourse := max(cfg.BlocksPerCourse, 1)
	s := float64(size)

	weights := make([]float64, courses)
	total := 0.0
	for i := range weights {
		weights[i] = 1 + g.jitter(cfg.SeedBase+float64(i)*3.3, cfg.CourseVariation)
		total += weights[i]
	}

	// Faces first, then veins, then joints, as in StoneWall.
	var stones []block
	var joints [][]pixel.Point

	acc := 0.0
	for row := 0; row < courses; row++ {
		y0 := int(acc / total * s)
		acc += weights[row]
		y1 := int(acc / total * s)
		if row == courses-1 {
			y1 = size
		}
		shift := g.hash(cfg.SeedBase+float64(row)*9.1) * s / float64(perCourse)

		for k := 0; k < perCourse; k++ {
			n := cfg.SeedBase + float64(row*perCourse+k)*5.7
			x0 := int(shift + float64(k)*s/float64(perCourse))
			x1 := int(shift + float64(k+1)*s/float64(perCourse))
			b := block{r: image.Rect(x0, y0, x1, y1), seed: n}
			b.fill(c, pixel.Shade(cfg.Base, g.jitter(n, cfg.BlockJitter)), 0.7+g.jitter(n+1.9, 0.06))
			stones = append(stones, b)
			joints = append(joints, []pixel.Point{{X: float64(x0), Y: float64(y0)}, {X: float64(x0), Y: float64(y1)}})
		}
		joints = append(joints, []pixel.Point{{X: 0, Y: float64(y0)}, {X: s, Y: float64(y0)}})
	}

	for _, b := range stones {
		DrawVeins(c.diffuse, c.height, b.r, VeinSet{
			Count:     1,
			Axis:      Horizontal,
			Amplitude: float64(b.r.Dy()) * 0.12,
			Jitter:    float64(b.r.Dy()) * 0.1,
			Segments:  12,
			Seed:      b.seed,
			Colors:    cfg.VeinColors,
			Widths:    [2]float64{1.4, 1},
			Alpha:     0.3,
			Depth:     0.4,
			Tiled:     true,
		})
	}

	jointHeight := color.NRGBA{R: 56, G: 56, B: 56, A: 255}
	for _, joint := range joints {
		c.diffuse.StrokeCurveTiled(joint, cfg.Joint, cfg.JointWidth, 1)
		c.height.StrokeCurveTiled(joint, jointHeight, cfg.JointWidth, 1)
	}

	c.diffuse.AddNoise(c.diffuse.Bounds(), g.field, pixel.NoiseParams{Intensity: cfg.Weathering, Seed: 13, Octaves: 5})
	c.diffuse.AddNoise(c.diffuse.Bounds(), g.simplex, pixel.NoiseParams{Intensity: cfg.Weathering / 2, Seed: 17})
	c.height.AddHeightNoise(c.height.Bounds(), g.field, 0.08, 307)

	return g.finish(NameVaultStone, c, outputs{NormalStrength: cfg.NormalStrength}, start)
}

// block is one stone of a coursed wall. Its rectangle may run past the right
// edge, in which case fill paints the overflow at the left edge.
type block struct {
	r    image.Rectangle
	seed float64
}

func (b block) fill(c *canvas, face color.NRGBA, h float64) {
	size := c.diffuse.W
	for _, part := range []image.Rectangle{b.r, b.r.Sub(image.Pt(size, 0))} {
		c.diffuse.FillRect(part, face)
		c.height.FillHeight(part, h)
	}
}
