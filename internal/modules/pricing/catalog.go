// README: Static vehicle catalog, validated once at startup.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

type Catalog struct {
	classes []VehicleClass
	byID    map[string]VehicleClass
}

// NewCatalog validates the given classes and builds an immutable catalog.
func NewCatalog(classes []VehicleClass) (*Catalog, error) {
	if len(classes) == 0 {
		return nil, errors.New("catalog: no vehicle classes")
	}
	byID := make(map[string]VehicleClass, len(classes))
	for _, vc := range classes {
		if vc.ID == "" || vc.Name == "" {
			return nil, fmt.Errorf("catalog: vehicle class missing id or name: %+v", vc)
		}
		if vc.PerKmRate <= 0 || math.IsNaN(vc.PerKmRate) || math.IsInf(vc.PerKmRate, 0) {
			return nil, fmt.Errorf("catalog: vehicle class %s has invalid rate %v", vc.ID, vc.PerKmRate)
		}
		if _, dup := byID[vc.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate vehicle class id %s", vc.ID)
		}
		byID[vc.ID] = vc
	}
	return &Catalog{classes: classes, byID: byID}, nil
}

// DefaultCatalog is the built-in vehicle catalog, used when no rate rows
// exist in the database.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]VehicleClass{
		{ID: "economy", Name: "Economy", PerKmRate: 1.0, Currency: "usd"},
		{ID: "comfort", Name: "Comfort", PerKmRate: 1.5, Currency: "usd"},
		{ID: "xl", Name: "XL", PerKmRate: 2.0, Currency: "usd"},
		{ID: "premium", Name: "Premium", PerKmRate: 2.5, Currency: "usd"},
	})
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Get(id string) (VehicleClass, bool) {
	vc, ok := c.byID[id]
	return vc, ok
}

func (c *Catalog) List() []VehicleClass {
	out := make([]VehicleClass, len(c.classes))
	copy(out, c.classes)
	return out
}
