package material

import (
	"context"
	"fmt"
	"sort"

	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// Material names accepted by Generate.
const (
	NameStoneFloor   = "stone_floor"
	NameStoneWall    = "stone_wall"
	NameFlutedColumn = "fluted_column"
	NameVaultStone   = "vault_stone"
	NameWoodGrain    = "wood_grain"
	NameBrushedMetal = "brushed_metal"
	NameStainedGlass = "stained_glass"
	NameFabricWeave  = "fabric_weave"
)

var recipes = map[string]func(*Generator) (*texture.Set, error){
	NameStoneFloor:   func(g *Generator) (*texture.Set, error) { return g.StoneFloor(DefaultStoneFloor()) },
	NameStoneWall:    func(g *Generator) (*texture.Set, error) { return g.StoneWall(DefaultStoneWall()) },
	NameFlutedColumn: func(g *Generator) (*texture.Set, error) { return g.FlutedColumn(DefaultFlutedColumn()) },
	NameVaultStone:   func(g *Generator) (*texture.Set, error) { return g.VaultStone(DefaultVaultStone()) },
	NameWoodGrain:    func(g *Generator) (*texture.Set, error) { return g.WoodGrain(DefaultWoodGrain()) },
	NameBrushedMetal: func(g *Generator) (*texture.Set, error) { return g.BrushedMetal(DefaultBrushedMetal()) },
	NameStainedGlass: func(g *Generator) (*texture.Set, error) { return g.StainedGlass(DefaultStainedGlass()) },
	NameFabricWeave:  func(g *Generator) (*texture.Set, error) { return g.FabricWeave(DefaultFabricWeave()) },
}

// Names returns every registered material, sorted.
func Names() []string {
	names := make([]string, 0, len(recipes))
	for name := range recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate runs the named recipe with its default configuration.
func (g *Generator) Generate(ctx context.Context, name string) (*texture.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recipe, ok := recipes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return recipe(g)
}
