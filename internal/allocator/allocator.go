// Package allocator distributes asset groups across products when the
// source filenames carry no product mapping.
package allocator

import (
	"math/rand"

	"github.com/trunov/catalogpix/internal/entities"
)

// Allocator pairs shuffled products with shuffled groups. The random
// source is injected so tests can pin exact pairings with a fixed seed.
type Allocator struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Allocator {
	return &Allocator{rng: rng}
}

// Allocate assigns every product at most one group and returns the
// assigned groups with ProductID and Sequence set. Both inputs are
// shuffled independently (Fisher-Yates), then element i pairs with
// element i.
//
// With more products than groups the shuffled group list is reused
// cyclically so no product ends up with an empty gallery. With more
// groups than products the surplus groups are simply not returned; they
// stay uploaded and unreferenced for a later run.
func (a *Allocator) Allocate(products []entities.Product, groups []entities.AssetGroup) []entities.AssetGroup {
	if len(products) == 0 || len(groups) == 0 {
		return nil
	}

	shuffledProducts := make([]entities.Product, len(products))
	copy(shuffledProducts, products)
	a.rng.Shuffle(len(shuffledProducts), func(i, j int) {
		shuffledProducts[i], shuffledProducts[j] = shuffledProducts[j], shuffledProducts[i]
	})

	shuffledGroups := make([]entities.AssetGroup, len(groups))
	copy(shuffledGroups, groups)
	a.rng.Shuffle(len(shuffledGroups), func(i, j int) {
		shuffledGroups[i], shuffledGroups[j] = shuffledGroups[j], shuffledGroups[i]
	})

	assigned := make([]entities.AssetGroup, 0, len(shuffledProducts))
	for i, p := range shuffledProducts {
		g := shuffledGroups[i%len(shuffledGroups)]
		g.ProductID = p.ID
		g.Sequence = 1
		assigned = append(assigned, g)
	}
	return assigned
}
