package material

import (
	"context"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xsl1m/StaticChapel-sub001/internal/noise"
	"github.com/0xsl1m/StaticChapel-sub001/internal/normal"
	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

const testSize = 64

func newTestGenerator(t *testing.T, seed int64) *Generator {
	t.Helper()
	g, err := New(Config{Size: testSize, Seed: seed, FieldSize: 32})
	require.NoError(t, err)
	return g
}

func TestNewRejectsInvalidDimensions(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero size", Config{Size: 0}},
		{"negative size", Config{Size: -16}},
		{"too large", Config{Size: MaxSize + 1}},
		{"negative field", Config{Size: 64, FieldSize: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.cfg)
			require.ErrorIs(t, err, ErrInvalidDimension)
			assert.Nil(t, g)
		})
	}
}

func TestNewDefaultsFieldSize(t *testing.T) {
	g, err := New(Config{Size: 32, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, noise.DefaultFieldSize, g.Field().Size())
	assert.Equal(t, 32, g.Size())
	assert.Equal(t, int64(1), g.Seed())
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, 8)
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, NameStainedGlass)
}

func TestGenerateUnknownMaterial(t *testing.T) {
	g := newTestGenerator(t, 1)
	_, err := g.Generate(context.Background(), "granite")
	require.ErrorIs(t, err, ErrUnknownMaterial)
}

func TestGenerateHonoursCancelledContext(t *testing.T) {
	g := newTestGenerator(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, NameStoneFloor)
	require.ErrorIs(t, err, context.Canceled)
}

func TestEveryRecipeProducesItsMaps(t *testing.T) {
	g := newTestGenerator(t, 7)

	expected := map[string][]texture.Kind{
		NameStoneFloor:   {texture.Diffuse, texture.Normal, texture.Roughness},
		NameStoneWall:    {texture.Diffuse, texture.Normal, texture.Roughness},
		NameFlutedColumn: {texture.Diffuse, texture.Normal, texture.Roughness},
		NameVaultStone:   {texture.Diffuse, texture.Normal},
		NameWoodGrain:    {texture.Diffuse, texture.Normal, texture.Roughness},
		NameBrushedMetal: {texture.Diffuse, texture.Normal, texture.Roughness},
		NameStainedGlass: {texture.Diffuse},
		NameFabricWeave:  {texture.Diffuse, texture.Normal, texture.Roughness},
	}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			set, err := g.Generate(context.Background(), name)
			require.NoError(t, err)
			assert.Equal(t, name, set.Material())
			assert.Equal(t, expected[name], set.Kinds())

			w, h := set.Size()
			if name == NameStainedGlass {
				assert.Equal(t, 256, w)
				assert.Equal(t, 256, h)
				assert.True(t, set.Transparent())
				d, _ := set.Map(texture.Diffuse)
				assert.Equal(t, texture.WrapClamp, d.Wrap)
				return
			}

			assert.Equal(t, testSize, w)
			assert.Equal(t, testSize, h)
			assert.False(t, set.Transparent())
			for _, kind := range set.Kinds() {
				m, _ := set.Map(kind)
				assert.Equal(t, texture.WrapRepeat, m.Wrap, kind)
				assert.True(t, m.Mipmaps, kind)
			}
		})
	}
}

// columnDiff is the mean absolute channel difference between columns a and b
// over rows [y0, y1).
func columnDiff(m texture.Map, a, b, y0, y1 int) float64 {
	sum := 0.0
	for y := y0; y < y1; y++ {
		sum += channelDiff(m.At(a, y), m.At(b, y))
	}
	return sum / float64(y1-y0)
}

// rowDiff is the mean absolute channel difference between rows a and b.
func rowDiff(m texture.Map, a, b int) float64 {
	sum := 0.0
	for x := 0; x < m.Width(); x++ {
		sum += channelDiff(m.At(x, a), m.At(x, b))
	}
	return sum / float64(m.Width())
}

func channelDiff(p, q color.NRGBA) float64 {
	d := math.Abs(float64(p.R)-float64(q.R)) +
		math.Abs(float64(p.G)-float64(q.G)) +
		math.Abs(float64(p.B)-float64(q.B))
	return d / 3
}

func TestRepeatMapsHaveNoSeam(t *testing.T) {
	g, err := New(Config{Size: 128, Seed: 1337, FieldSize: 64})
	require.NoError(t, err)

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			set, err := g.Generate(context.Background(), name)
			require.NoError(t, err)

			for _, kind := range set.Kinds() {
				m, _ := set.Map(kind)
				if m.Wrap != texture.WrapRepeat {
					continue
				}
				w, h := m.Width(), m.Height()

				worstX, worstY := 0.0, 0.0
				for x := 0; x < w-1; x++ {
					worstX = math.Max(worstX, columnDiff(m, x, x+1, 0, h))
				}
				for y := 0; y < h-1; y++ {
					worstY = math.Max(worstY, rowDiff(m, y, y+1))
				}

				assert.LessOrEqual(t, columnDiff(m, w-1, 0, 0, h), worstX+4, "%s: vertical seam", kind)
				assert.LessOrEqual(t, rowDiff(m, h-1, 0), worstY+4, "%s: horizontal seam", kind)
			}
		})
	}
}

func TestStoneJointsAreFullWidthAcrossTheWrap(t *testing.T) {
	g, err := New(Config{Size: 256, Seed: 1337})
	require.NoError(t, err)

	t.Run("stone wall", func(t *testing.T) {
		set, err := g.StoneWall(DefaultStoneWall())
		require.NoError(t, err)
		d, _ := set.Map(texture.Diffuse)

		// 8 courses of 32 rows: row 128 carries a bed joint like row 0, and
		// course 0 has a head joint at x=128 like the one at x=0.
		assert.InDelta(t, rowDiff(d, 127, 128), rowDiff(d, 255, 0), 8)
		assert.InDelta(t, columnDiff(d, 127, 128, 4, 28), columnDiff(d, 255, 0, 4, 28), 8)

		// Both sides of the wrapped bed are mortar, so they match the
		// interior bed and not the block faces.
		assert.InDelta(t, meanRowR(d, 128), meanRowR(d, 255), 10)
		assert.InDelta(t, meanRowR(d, 128), meanRowR(d, 0), 10)
	})

	t.Run("vault stone", func(t *testing.T) {
		cfg := DefaultVaultStone()
		cfg.Courses = 4
		cfg.CourseVariation = 0
		set, err := g.VaultStone(cfg)
		require.NoError(t, err)
		d, _ := set.Map(texture.Diffuse)

		assert.InDelta(t, rowDiff(d, 127, 128), rowDiff(d, 255, 0), 8)
		assert.InDelta(t, meanRowR(d, 128), meanRowR(d, 255), 12)
		assert.InDelta(t, meanRowR(d, 128), meanRowR(d, 0), 12)
	})
}

func TestWoodGrainTonesStayBetweenDarkAndLight(t *testing.T) {
	g := newTestGenerator(t, 5)
	cfg := DefaultWoodGrain()
	cfg.Knots = 0
	cfg.NoiseIntensity = 0

	set, err := g.WoodGrain(cfg)
	require.NoError(t, err)
	d, _ := set.Map(texture.Diffuse)

	lo := float64(cfg.Dark.R)
	hi := math.Max(float64(cfg.Base.R), float64(cfg.Light.R))
	tones := map[uint8]bool{}
	for y := 0; y < d.Height(); y++ {
		for x := 0; x < d.Width(); x++ {
			r := d.At(x, y).R
			require.GreaterOrEqual(t, float64(r), lo-1)
			require.LessOrEqual(t, float64(r), hi+1)
			tones[r] = true
		}
	}
	assert.Greater(t, len(tones), 3, "grain lines blend several tones")
}

func meanRowR(m texture.Map, y int) float64 {
	sum := 0.0
	for x := 0; x < m.Width(); x++ {
		sum += float64(m.At(x, y).R)
	}
	return sum / float64(m.Width())
}

func TestRecipesAreDeterministic(t *testing.T) {
	a := newTestGenerator(t, 99)
	b := newTestGenerator(t, 99)

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			sa, err := a.Generate(context.Background(), name)
			require.NoError(t, err)
			sb, err := b.Generate(context.Background(), name)
			require.NoError(t, err)

			for _, kind := range sa.Kinds() {
				ma, _ := sa.Map(kind)
				mb, ok := sb.Map(kind)
				require.True(t, ok)
				require.Equal(t, ma.Image().Pix, mb.Image().Pix, kind)
			}
		})
	}
}

func TestSeedChangesOutput(t *testing.T) {
	sa, err := newTestGenerator(t, 1).Generate(context.Background(), NameStoneFloor)
	require.NoError(t, err)
	sb, err := newTestGenerator(t, 2).Generate(context.Background(), NameStoneFloor)
	require.NoError(t, err)

	da, _ := sa.Map(texture.Diffuse)
	db, _ := sb.Map(texture.Diffuse)
	assert.NotEqual(t, da.Image().Pix, db.Image().Pix)
}

func TestNormalMapsAreUnitLength(t *testing.T) {
	g := newTestGenerator(t, 3)
	for _, name := range []string{NameStoneWall, NameWoodGrain, NameFabricWeave} {
		set, err := g.Generate(context.Background(), name)
		require.NoError(t, err)
		m, ok := set.Map(texture.Normal)
		require.True(t, ok)

		for y := 0; y < m.Height(); y += 5 {
			for x := 0; x < m.Width(); x += 5 {
				c := m.At(x, y)
				require.Equal(t, uint8(255), c.A)
				assert.InDelta(t, 1.0, normal.Decode(c).Len(), 0.02, "%s at %d,%d", name, x, y)
			}
		}
	}
}

func TestRoughnessIsOpaqueGray(t *testing.T) {
	g := newTestGenerator(t, 5)
	set, err := g.Generate(context.Background(), NameBrushedMetal)
	require.NoError(t, err)
	m, ok := set.Map(texture.Roughness)
	require.True(t, ok)

	for y := 0; y < m.Height(); y += 3 {
		for x := 0; x < m.Width(); x += 3 {
			c := m.At(x, y)
			require.Equal(t, uint8(255), c.A)
			require.Equal(t, c.R, c.G)
			require.Equal(t, c.G, c.B)
		}
	}
}

func TestStainedGlassKeepsTransparencyAtLeadlessPixels(t *testing.T) {
	g := newTestGenerator(t, 11)
	set, err := g.StainedGlass(DefaultStainedGlass())
	require.NoError(t, err)
	m, _ := set.Map(texture.Diffuse)

	// Pane centres are translucent glass, the frame is opaque lead.
	cell := 256 / DefaultStainedGlass().Cells
	centre := m.At(cell/2, cell/2)
	assert.Greater(t, centre.A, uint8(0))
	assert.Less(t, centre.A, uint8(255))
	assert.Equal(t, uint8(255), m.At(0, 128).A)
}

func TestStainedGlassFallsBackToGeneratorSize(t *testing.T) {
	g := newTestGenerator(t, 11)
	cfg := DefaultStainedGlass()
	cfg.CanvasSize = 0

	set, err := g.StainedGlass(cfg)
	require.NoError(t, err)
	w, _ := set.Size()
	assert.Equal(t, testSize, w)
}

func TestFabricWeaveRoundsThreadsToEven(t *testing.T) {
	g := newTestGenerator(t, 13)
	cfg := DefaultFabricWeave()
	cfg.Threads = 7
	cfg.Fuzz = 0

	set, err := g.FabricWeave(cfg)
	require.NoError(t, err)
	_, ok := set.Map(texture.Normal)
	assert.True(t, ok)
}

func TestVeinPoints(t *testing.T) {
	v := Vein{
		Anchor:    pixel.Point{X: 10, Y: 20},
		Length:    40,
		Axis:      Horizontal,
		Amplitude: 3,
		Jitter:    2,
		Segments:  8,
		Seed:      1.5,
	}
	pts := v.Points()
	require.Len(t, pts, 9)

	want := 20 + math.Sin(1.5)*3 + (noise.Hash(1.5*97)-0.5)*2
	assert.InDelta(t, 10, pts[0].X, 1e-9)
	assert.InDelta(t, want, pts[0].Y, 1e-9)
	assert.InDelta(t, 50, pts[8].X, 1e-9)
	for _, p := range pts {
		assert.InDelta(t, 20, p.Y, 4.01)
	}

	v.Axis = Vertical
	vpts := v.Points()
	assert.InDelta(t, 20, vpts[0].Y, 1e-9)
	assert.InDelta(t, 60, vpts[8].Y, 1e-9)
	assert.InDelta(t, pts[3].Y-20, vpts[3].X-10, 1e-9)
}

func TestDrawVeinsPaintsInsideRegion(t *testing.T) {
	diffuse, err := pixel.New(64, 64)
	require.NoError(t, err)
	height, err := pixel.New(64, 64)
	require.NoError(t, err)
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	diffuse.FillRect(diffuse.Bounds(), white)
	height.FillHeight(height.Bounds(), 1)

	region := image.Rect(16, 16, 48, 48)
	DrawVeins(diffuse, height, region, VeinSet{
		Count:     2,
		Axis:      Horizontal,
		Amplitude: 2,
		Segments:  12,
		Seed:      4,
		Colors:    [2]color.NRGBA{{A: 255}, {A: 255}},
		Widths:    [2]float64{2, 2},
		Alpha:     1,
		Depth:     0.5,
	})

	painted := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if diffuse.At(x, y) != white {
				painted++
				assert.True(t, image.Pt(x, y).In(region.Inset(-3)), "paint outside region at %d,%d", x, y)
			}
		}
	}
	assert.Greater(t, painted, 0)

	sunk := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if height.Height(x, y) < 1 {
				sunk++
			}
		}
	}
	assert.Greater(t, sunk, 0)

	DrawVeins(diffuse, nil, image.Rect(5, 5, 5, 40), VeinSet{Count: 3})
}
