package listing

// ---------------------------------------------------------------------------
// Product & Metadata
// ---------------------------------------------------------------------------

// Metadata is the marketplace-specific descriptive record attached to a
// product beyond its category aspects. Its shape is fixed per marketplace at
// deploy time.
type Metadata interface {
	// Description returns the free-text product description
	Description() string
	// AsMap returns the metadata as a plain map
	AsMap() map[string]any
}

// MetadataCodec converts between a marketplace's fixed metadata shape and raw
// maps. Schema emits the JSON-schema fragment describing the shape; Decode
// structurally validates a raw sub-map against it.
type MetadataCodec interface {
	// Schema returns the JSON schema of the metadata shape
	Schema() map[string]any
	// Decode validates raw against the metadata shape
	Decode(raw map[string]any) (Metadata, error)
}

// Product is the validated output of the search pipeline. Immutable once
// constructed.
type Product struct {
	// Metadata is the marketplace-specific descriptive record
	Metadata Metadata
	// Aspects are the validated category aspects
	Aspects []AspectValue
}

// AspectMap returns the product aspects as a name-to-value map
func (p *Product) AspectMap() map[string]any {
	out := make(map[string]any, len(p.Aspects))
	for _, a := range p.Aspects {
		out[a.Name] = a.Value
	}
	return out
}
