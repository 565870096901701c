package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/listflow/backend/internal/domain/listing"
	"github.com/listflow/backend/internal/infrastructure/logger"
	"github.com/listflow/backend/internal/infrastructure/schema"
)

const describeSystemPrompt = "You are a product research assistant. " +
	"Fill in accurate, verifiable product details for the requested item."

// SearchService researches products with an LLM, constrained to the aspect
// structure of a marketplace category so the answer decodes into a valid
// product.
type SearchService struct {
	platforms   listing.PlatformRegistry
	completions listing.CompletionClient
	adapter     *schema.ProductAdapter
}

// NewSearchService creates a search service.
func NewSearchService(platforms listing.PlatformRegistry, completions listing.CompletionClient) *SearchService {
	return &SearchService{
		platforms:   platforms,
		completions: completions,
		adapter:     schema.NewProductAdapter(),
	}
}

// Describe asks the completion provider to describe productName within the
// constraints of the given marketplace category and returns the validated
// product. comment carries optional user hints into the prompt.
func (s *SearchService) Describe(ctx context.Context, marketplace listing.Marketplace, productName, category, comment string) (*listing.Product, error) {
	platform, err := s.platforms.Platform(marketplace)
	if err != nil {
		return nil, err
	}

	fields, err := platform.CategoryAspects(ctx, category)
	if err != nil {
		if errors.Is(err, listing.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: loading category aspects: %w", ErrSearchService, err)
	}

	structure, err := listing.NewProductStructure(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchService, err)
	}

	outputSchema, err := s.adapter.ToSchema(structure, platform.MetadataCodec())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchService, err)
	}

	prompt := fmt.Sprintf("Provide information about %s without source links.", productName)
	if comment != "" {
		prompt = fmt.Sprintf("%s\nComment: %s", prompt, comment)
	}
	messages := []listing.Message{
		{Role: listing.RoleSystem, Content: describeSystemPrompt},
		{Role: listing.RoleUser, Content: prompt},
	}

	answer, err := s.completions.Complete(ctx, messages, outputSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchService, err)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(answer), &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding completion answer: %w", ErrSearchService, err)
	}

	product, err := s.adapter.ToProduct(structure, platform.MetadataCodec(), raw)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("product described",
		zap.String("marketplace", marketplace.String()),
		zap.String("category", category),
		zap.Int("aspects", len(product.Aspects)))

	return product, nil
}

// SuggestCategories returns marketplace category names matching the query,
// most relevant first.
func (s *SearchService) SuggestCategories(ctx context.Context, marketplace listing.Marketplace, query string) ([]string, error) {
	platform, err := s.platforms.Platform(marketplace)
	if err != nil {
		return nil, err
	}

	names, err := platform.SuggestCategories(ctx, query)
	if err != nil {
		if errors.Is(err, listing.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSearchService, err)
	}
	return names, nil
}

// ResolveCategory resolves a category name to its marketplace identifier.
func (s *SearchService) ResolveCategory(ctx context.Context, marketplace listing.Marketplace, name string) (*listing.CategoryRef, error) {
	platform, err := s.platforms.Platform(marketplace)
	if err != nil {
		return nil, err
	}
	return platform.ResolveCategory(ctx, name)
}

// ProductAspects returns the aspect fields of a marketplace category.
func (s *SearchService) ProductAspects(ctx context.Context, marketplace listing.Marketplace, category string) ([]listing.AspectField, error) {
	platform, err := s.platforms.Platform(marketplace)
	if err != nil {
		return nil, err
	}
	return platform.CategoryAspects(ctx, category)
}
