package factory

import (
	"fmt"

	"github.com/lychee-technology/formbuilder"
	"github.com/lychee-technology/formbuilder/internal"
)

// NewSchemaStoreWithConfig creates a SchemaStore whose new fields start from
// the builder defaults in config. A nil config uses DefaultConfig.
//
// Usage:
//
//	import (
//	    "github.com/lychee-technology/formbuilder"
//	    "github.com/lychee-technology/formbuilder/factory"
//	)
//
//	config := formbuilder.DefaultConfig()
//	config.Builder.DefaultMaxStars = 10
//	store, err := factory.NewSchemaStoreWithConfig(config)
//	if err != nil {
//	    // handle error
//	}
//	schema, field, err := store.AddField(store.NewSchema(), formbuilder.FieldTypeRating)
func NewSchemaStoreWithConfig(config *formbuilder.Config) (formbuilder.SchemaStore, error) {
	if config == nil {
		config = formbuilder.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return internal.NewSchemaStore(config), nil
}

// NewSessionRegistryWithConfig creates the in-memory session registry used by
// the HTTP server, together with the store its sessions are edited with.
func NewSessionRegistryWithConfig(config *formbuilder.Config) (formbuilder.SessionRegistry, formbuilder.SchemaStore, error) {
	store, err := NewSchemaStoreWithConfig(config)
	if err != nil {
		return nil, nil, err
	}
	if config == nil {
		config = formbuilder.DefaultConfig()
	}
	return internal.NewSessionRegistry(store, config.Session), store, nil
}
