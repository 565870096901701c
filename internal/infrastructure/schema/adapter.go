// Package schema turns per-category aspect constraints into a constrained
// completion schema and parses structured answers back into validated
// products.
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/listflow/backend/internal/domain/listing"
)

// Aspect names are marketplace display names ("Storage Capacity",
// "Compatible Product/Service") but schema property names must be safe
// identifiers. The transform below must round-trip exactly, so names whose
// encoded form decodes to something else are rejected up front instead of
// being silently mangled.
var aspectNameEncoder = strings.NewReplacer(" ", "_", "/", "_or_")

var referenceMarkers = regexp.MustCompile(`(?:\[\d+\])+`)
var repeatedWhitespace = regexp.MustCompile(`\s+`)

func encodeAspectName(name string) string {
	return aspectNameEncoder.Replace(name)
}

func decodeAspectName(encoded string) string {
	return strings.ReplaceAll(strings.ReplaceAll(encoded, "_or_", "/"), "_", " ")
}

// sanitizeText strips footnote-style reference markers such as [12] or
// [3][7] and collapses repeated whitespace.
func sanitizeText(s string) string {
	s = referenceMarkers.ReplaceAllString(s, "")
	return strings.TrimSpace(repeatedWhitespace.ReplaceAllString(s, " "))
}

func aspectTypeToJSON(t listing.AspectType) string {
	switch t {
	case listing.AspectTypeString:
		return "string"
	case listing.AspectTypeInteger:
		return "integer"
	case listing.AspectTypeFloat:
		return "number"
	case listing.AspectTypeList:
		return "array"
	case listing.AspectTypeMap:
		return "object"
	default:
		return "string"
	}
}

// ProductAdapter converts between one resolved category's constraints and the
// structured answers a completion model produces for them. Both operations
// are pure functions of their inputs.
type ProductAdapter struct{}

// NewProductAdapter creates a new product adapter
func NewProductAdapter() *ProductAdapter {
	return &ProductAdapter{}
}

// ToSchema builds the constrained-output schema for one category. The schema
// has exactly two top-level sections: "aspects", derived 1:1 from the
// category's aspect fields, and "metadata", taken from the marketplace's
// metadata codec.
func (a *ProductAdapter) ToSchema(structure *listing.ProductStructure, codec listing.MetadataCodec) (map[string]any, error) {
	properties := make(map[string]any, structure.Len())
	required := make([]string, 0, structure.Len())

	for _, field := range structure.Fields() {
		encoded := encodeAspectName(field.Name)
		if decodeAspectName(encoded) != field.Name {
			return nil, fmt.Errorf("%w: aspect name %q does not survive encoding", listing.ErrInvalidAspectField, field.Name)
		}
		if _, exists := properties[encoded]; exists {
			return nil, fmt.Errorf("%w: aspect name %q collides after encoding", listing.ErrInvalidAspectField, field.Name)
		}

		prop := map[string]any{"type": aspectTypeToJSON(field.Type)}
		if field.Type == listing.AspectTypeList {
			prop["items"] = map[string]any{"type": "string"}
		}
		if field.HasAllowedValues() {
			enum := make([]any, len(field.AllowedValues))
			for i, v := range field.AllowedValues {
				enum[i] = v
			}
			prop["enum"] = enum
		}
		properties[encoded] = prop
		if field.Required {
			required = append(required, encoded)
		}
	}

	aspects := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		aspects["required"] = required
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"aspects":  aspects,
			"metadata": codec.Schema(),
		},
		"required":             []string{"aspects", "metadata"},
		"additionalProperties": false,
	}, nil
}

// ToProduct parses a structured answer back into a validated Product. Aspect
// keys are decoded back to marketplace names and validated against the
// category's fields; the metadata sub-map is sanitized and decoded through
// the marketplace codec. Failures are wrapped so callers can tell which half
// of the answer was bad: listing.ErrInvalidAspects for the aspects section,
// listing.ErrInvalidMetadata for the metadata section.
func (a *ProductAdapter) ToProduct(structure *listing.ProductStructure, codec listing.MetadataCodec, answer map[string]any) (*listing.Product, error) {
	rawAspects, ok := answer["aspects"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: answer has no aspects section", listing.ErrInvalidAspects)
	}

	decoded := make(map[string]any, len(rawAspects))
	for encoded, value := range rawAspects {
		decoded[decodeAspectName(encoded)] = value
	}
	values, err := structure.Validate(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", listing.ErrInvalidAspects, err)
	}

	rawMetadata, ok := answer["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: answer has no metadata section", listing.ErrInvalidMetadata)
	}
	if description, ok := rawMetadata["description"].(string); ok {
		sanitized := make(map[string]any, len(rawMetadata))
		for k, v := range rawMetadata {
			sanitized[k] = v
		}
		sanitized["description"] = sanitizeText(description)
		rawMetadata = sanitized
	}
	metadata, err := codec.Decode(rawMetadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", listing.ErrInvalidMetadata, err)
	}

	return &listing.Product{Metadata: metadata, Aspects: values}, nil
}
