package api

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"listwise/internal/listing"
	"listwise/internal/services"
)

//go:embed listing.schema.json
var listingSchemaJSON []byte

const listingSchemaURL = "listing.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func listingSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(listingSchemaURL, bytes.NewReader(listingSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add listing schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(listingSchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile listing schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidatePayload checks an outgoing body against the listing contract the
// API accepts. The check runs on the JSON form so field names and omitempty
// behave exactly as they will on the wire.
func ValidatePayload(p listing.Payload) error {
	schema, err := listingSchema()
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "api", "load contract", "", err)
	}
	body, err := json.Marshal(p)
	if err != nil {
		return services.Wrap(services.ErrSubmission, "api", "encode payload", "", err)
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return services.Wrap(services.ErrSubmission, "api", "decode payload", "", err)
	}
	if err := schema.Validate(doc); err != nil {
		return services.Wrap(services.ErrSubmission, "api", "validate payload", "listing does not match the API contract", err)
	}
	return nil
}
