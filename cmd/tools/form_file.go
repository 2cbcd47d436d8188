package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lychee-technology/formbuilder"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// readDocument decodes a JSON or YAML file, chosen by extension, into v.
// YAML goes through a generic tree so the JSON decoders of the target apply.
func readDocument(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var tree any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		data, err = json.Marshal(tree)
		if err != nil {
			return fmt.Errorf("convert %s: %w", path, err)
		}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// loadForm reads a form file. Fields without an id get a fresh one;
// duplicate ids are rejected.
func loadForm(path string) (formbuilder.FormSchema, error) {
	var schema formbuilder.FormSchema
	if err := readDocument(path, &schema); err != nil {
		return formbuilder.FormSchema{}, err
	}

	seen := make(map[uuid.UUID]struct{}, len(schema.Fields))
	for i := range schema.Fields {
		field := &schema.Fields[i]
		if field.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return formbuilder.FormSchema{}, err
			}
			field.ID = id
		}
		if _, dup := seen[field.ID]; dup {
			return formbuilder.FormSchema{}, fmt.Errorf("%s: duplicate field id %s", path, field.ID)
		}
		seen[field.ID] = struct{}{}
	}

	zap.S().Debugw("form loaded", "path", path, "title", schema.Title, "fields", len(schema.Fields))
	return schema, nil
}
