// Package weapons holds the authoritative weapon catalog. The server never
// trusts client-side weapon stats; range, fire-rate, and damage budgets all
// come from here.
package weapons

import "time"

// Spec describes one weapon's server-side budgets.
type Spec struct {
	Name         string        `json:"name" jsonschema:"required,description=Display name and catalog key."`
	Damage       float64       `json:"damage" jsonschema:"required,minimum=1,description=Maximum damage a single round may deal."`
	FireInterval time.Duration `json:"fireInterval" jsonschema:"required,description=Minimum time between consecutive shots in nanoseconds."`
	MagazineSize int           `json:"magazineSize" jsonschema:"required,minimum=1"`
	Accuracy     float64       `json:"accuracy" jsonschema:"minimum=0,maximum=1"`
	Range        float64       `json:"range" jsonschema:"required,minimum=1,description=Maximum trajectory length in world units."`
	ReloadTime   time.Duration `json:"reloadTime"`
}

// Catalog maps weapon names to their specs.
type Catalog struct {
	specs    map[string]Spec
	fallback Spec
}

// DefaultCatalog returns the stock arsenal. The fallback spec (used when a
// client names an unknown weapon) is the rifle, the most permissive budget a
// legitimate client would carry.
func DefaultCatalog() *Catalog {
	specs := []Spec{
		{
			Name:         "AK-74M",
			Damage:       15,
			FireInterval: 100 * time.Millisecond,
			MagazineSize: 30,
			Accuracy:     0.85,
			Range:        500,
			ReloadTime:   2500 * time.Millisecond,
		},
		{
			Name:         "SVD",
			Damage:       45,
			FireInterval: 500 * time.Millisecond,
			MagazineSize: 10,
			Accuracy:     0.95,
			Range:        800,
			ReloadTime:   2 * time.Second,
		},
		{
			Name:         "RPK-74",
			Damage:       18,
			FireInterval: 80 * time.Millisecond,
			MagazineSize: 45,
			Accuracy:     0.8,
			Range:        600,
			ReloadTime:   3 * time.Second,
		},
		{
			Name:         "PMM",
			Damage:       20,
			FireInterval: 200 * time.Millisecond,
			MagazineSize: 12,
			Accuracy:     0.75,
			Range:        300,
			ReloadTime:   1500 * time.Millisecond,
		},
	}

	catalog := &Catalog{specs: make(map[string]Spec, len(specs))}
	for _, spec := range specs {
		catalog.specs[spec.Name] = spec
	}
	catalog.fallback = catalog.specs["AK-74M"]
	return catalog
}

// Lookup returns the spec for the named weapon and whether it was found.
func (c *Catalog) Lookup(name string) (Spec, bool) {
	if c == nil {
		return Spec{}, false
	}
	spec, ok := c.specs[name]
	return spec, ok
}

// Resolve returns the spec for the named weapon, falling back to the default
// rifle when the name is unknown or empty.
func (c *Catalog) Resolve(name string) Spec {
	if spec, ok := c.Lookup(name); ok {
		return spec
	}
	return c.fallback
}

// Names returns the catalog keys in unspecified order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.specs))
	for name := range c.specs {
		names = append(names, name)
	}
	return names
}
