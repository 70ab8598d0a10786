package api

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var contractDocument []byte

// ContractDocument returns the embedded OpenAPI description of the REST
// collaborator.
func ContractDocument() []byte {
	out := make([]byte, len(contractDocument))
	copy(out, contractDocument)
	return out
}

var (
	contractOnce sync.Once
	contractSpec *openapi3.T
	contractErr  error
)

// LoadContract parses and validates the embedded document. The result is
// cached for the life of the process.
func LoadContract(ctx context.Context) (*openapi3.T, error) {
	contractOnce.Do(func() {
		loader := &openapi3.Loader{Context: ctx}
		doc, err := loader.LoadFromData(contractDocument)
		if err != nil {
			contractErr = fmt.Errorf("api: load contract: %w", err)
			return
		}
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			contractErr = fmt.Errorf("api: validate contract: %w", err)
			return
		}
		contractSpec = doc
	})
	return contractSpec, contractErr
}

// requestSchema finds the JSON request body schema declared for method on
// route, e.g. ("PUT", "/books/{id}").
func requestSchema(doc *openapi3.T, method, route string) (*openapi3.Schema, error) {
	if doc == nil || doc.Paths == nil {
		return nil, fmt.Errorf("contract has no paths")
	}
	item := doc.Paths.Find(route)
	if item == nil {
		return nil, fmt.Errorf("route %s not declared", route)
	}
	operation := item.GetOperation(strings.ToUpper(method))
	if operation == nil {
		return nil, fmt.Errorf("%s %s not declared", method, route)
	}
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil, nil
	}
	media := operation.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, nil
	}
	return media.Schema.Value, nil
}

// checkContract validates an encoded request body against the declared schema.
func checkContract(ctx context.Context, method, route string, payload []byte) error {
	doc, err := LoadContract(ctx)
	if err != nil {
		return err
	}
	schema, err := requestSchema(doc, method, route)
	if err != nil {
		return err
	}
	if schema == nil {
		return nil
	}

	var value any
	if err := jsonAPI.Unmarshal(payload, &value); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return schema.VisitJSON(value)
}
