// Command weaponschema emits the JSON schema for the server's weapon
// catalog: an object keyed by weapon name, one spec per entry. Stock
// arsenal names are baked in as an enum so catalog files that drift from
// the server fail validation instead of silently falling back.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"sort"

	"github.com/invopop/jsonschema"

	"ironsight/server/internal/weapons"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		log.Fatal("weaponschema: missing -out path")
	}

	data, err := json.MarshalIndent(catalogSchema(), "", "  ")
	if err != nil {
		log.Fatalf("weaponschema: marshal schema: %v", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		log.Fatalf("weaponschema: create output dir: %v", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Fatalf("weaponschema: write schema: %v", err)
	}
}

func catalogSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	specSchema := reflector.ReflectFromType(reflect.TypeOf(weapons.Spec{}))
	specSchema.Version = ""
	specSchema.Title = "Weapon Spec"
	specSchema.Description = "Server-side budgets for one weapon."

	names := weapons.DefaultCatalog().Names()
	sort.Strings(names)
	if raw, ok := specSchema.Properties.Get("name"); ok {
		if nameProp, ok := raw.(*jsonschema.Schema); ok {
			for _, name := range names {
				nameProp.Enum = append(nameProp.Enum, name)
			}
		}
	}

	return &jsonschema.Schema{
		Version:              jsonschema.Version,
		Type:                 "object",
		Title:                "Ironsight Weapon Catalog",
		Description:          "Full arsenal keyed by weapon name, as consumed by the shot validator.",
		AdditionalProperties: specSchema,
	}
}
