package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// NameGenerator hands out unique joint names.
// randomdata keeps a single source, so generators share it.
type NameGenerator struct {
	Prefix string
	used   map[string]struct{}
}

func NewNameGenerator(seed int64, prefix string) *NameGenerator {
	randomdata.CustomRand(rand.New(rand.NewSource(seed)))
	return &NameGenerator{Prefix: prefix, used: make(map[string]struct{})}
}

func (g *NameGenerator) Name() string {
	if g.used == nil {
		g.used = make(map[string]struct{})
	}
	for {
		name := g.Prefix + randomdata.SillyName()
		if _, exists := g.used[name]; !exists {
			g.used[name] = struct{}{}
			return name
		}
	}
}

// Len reports how many names were handed out.
func (g *NameGenerator) Len() int { return len(g.used) }
