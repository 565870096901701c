package ebay

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/listflow/backend/internal/domain/listing"
)

// ---------------------------------------------------------------------------
// eBay Metadata Shape
// ---------------------------------------------------------------------------

// PackageWeight is the shipping weight of a listing's package
type PackageWeight struct {
	Unit  string  `json:"unit" validate:"required,oneof=POUND KILOGRAM OUNCE GRAM"`
	Value float64 `json:"value" validate:"required,gt=0"`
}

// PackageDimensions are the shipping dimensions of a listing's package
type PackageDimensions struct {
	Height float64 `json:"height" validate:"required,gt=0"`
	Length float64 `json:"length" validate:"required,gt=0"`
	Width  float64 `json:"width" validate:"required,gt=0"`
	Unit   string  `json:"unit" validate:"required,oneof=INCH FEET CENTIMETER METER"`
}

// Package describes the physical package of a listing. Dimensions are
// optional; weight is not.
type Package struct {
	Weight     PackageWeight      `json:"weight" validate:"required"`
	Dimensions *PackageDimensions `json:"dimensions,omitempty" validate:"omitempty"`
}

// Metadata is eBay's fixed per-listing metadata shape: the completion model
// fills it alongside the category aspects.
type Metadata struct {
	ProductDescription string  `json:"description" validate:"required"`
	Package            Package `json:"package" validate:"required"`
}

// Description returns the free-text product description
func (m *Metadata) Description() string {
	return m.ProductDescription
}

// AsMap returns the metadata as a plain map
func (m *Metadata) AsMap() map[string]any {
	return structToMap(m)
}

var _ listing.Metadata = (*Metadata)(nil)

// MetadataCodec converts between eBay's metadata shape and raw maps
type MetadataCodec struct {
	validate *validator.Validate
}

// NewMetadataCodec creates a codec for eBay's metadata shape
func NewMetadataCodec() *MetadataCodec {
	return &MetadataCodec{validate: validator.New()}
}

// Schema returns the JSON schema of eBay's metadata shape
func (c *MetadataCodec) Schema() map[string]any {
	weightSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"unit":  map[string]any{"type": "string", "enum": []any{"POUND", "KILOGRAM", "OUNCE", "GRAM"}},
			"value": map[string]any{"type": "number"},
		},
		"required":             []string{"unit", "value"},
		"additionalProperties": false,
	}
	dimensionsSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"height": map[string]any{"type": "number"},
			"length": map[string]any{"type": "number"},
			"width":  map[string]any{"type": "number"},
			"unit":   map[string]any{"type": "string", "enum": []any{"INCH", "FEET", "CENTIMETER", "METER"}},
		},
		"required":             []string{"height", "length", "width", "unit"},
		"additionalProperties": false,
	}
	packageSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"weight":     weightSchema,
			"dimensions": dimensionsSchema,
		},
		"required":             []string{"weight"},
		"additionalProperties": false,
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{"type": "string"},
			"package":     packageSchema,
		},
		"required":             []string{"description", "package"},
		"additionalProperties": false,
	}
}

// Decode validates a raw metadata map against eBay's shape
func (c *MetadataCodec) Decode(raw map[string]any) (listing.Metadata, error) {
	var metadata Metadata
	if err := decodeStrict(raw, &metadata); err != nil {
		return nil, fmt.Errorf("ebay: malformed metadata: %w", err)
	}
	if err := c.validate.Struct(&metadata); err != nil {
		return nil, fmt.Errorf("ebay: invalid metadata: %w", err)
	}
	return &metadata, nil
}

var _ listing.MetadataCodec = (*MetadataCodec)(nil)

// ---------------------------------------------------------------------------
// eBay Marketplace Aspects
// ---------------------------------------------------------------------------

// Policies carries the seller's business policy ids used on every offer
type Policies struct {
	FulfillmentPolicyID string `json:"fulfillment_policy_id" validate:"required"`
	PaymentPolicyID     string `json:"payment_policy_id" validate:"required"`
	ReturnPolicyID      string `json:"return_policy_id" validate:"required"`
}

// Aspects are the eBay-specific selling parameters of one listing
type Aspects struct {
	LocationKey          string   `json:"location_key" validate:"required"`
	Marketplace          string   `json:"marketplace" validate:"required"`
	PolicyIDs            Policies `json:"policies" validate:"required"`
	Package              Package  `json:"package" validate:"required"`
	Condition            string   `json:"condition" validate:"required,oneof=NEW LIKE_NEW NEW_OTHER USED_EXCELLENT USED_GOOD USED_ACCEPTABLE FOR_PARTS_OR_NOT_WORKING"`
	ConditionDescription string   `json:"condition_description,omitempty"`
}

// AsMap returns the aspects as a plain map
func (a *Aspects) AsMap() map[string]any {
	return structToMap(a)
}

var _ listing.MarketplaceAspects = (*Aspects)(nil)

func decodeAspects(validate *validator.Validate, raw map[string]any) (*Aspects, error) {
	var aspects Aspects
	if err := decodeStrict(raw, &aspects); err != nil {
		return nil, fmt.Errorf("%w: %w", listing.ErrInvalidMarketplace, err)
	}
	if err := validate.Struct(&aspects); err != nil {
		return nil, fmt.Errorf("%w: %w", listing.ErrInvalidMarketplace, err)
	}
	return &aspects, nil
}

// decodeStrict round-trips a raw map into target, rejecting unknown keys
func decodeStrict(raw map[string]any, target any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func structToMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
