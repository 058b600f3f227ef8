// Command schema-generator writes the JSON schemas of devlog.yml and of its
// "logging" extension section.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/devlog/config"
	"github.com/grovetools/devlog/logging"
	"github.com/invopop/jsonschema"
)

func main() {
	outputDir := flag.String("out", "../schema/definitions", "Directory to write the schema files to")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}

	configSchema, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}
	write(filepath.Join(*outputDir, "devlog.schema.json"), configSchema)

	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}
	loggingSchema := r.Reflect(&logging.Config{})
	loggingSchema.Title = "devlog logging configuration"
	loggingSchema.Description = "Schema for the 'logging' section of devlog.yml."
	loggingSchema.Required = nil

	data, err := json.MarshalIndent(loggingSchema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}
	write(filepath.Join(*outputDir, "logging.schema.json"), data)
}

func write(path string, data []byte) {
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}
	log.Printf("Generated %s", path)
}
