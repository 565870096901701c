package listing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/listflow/backend/internal/domain/listing"
)

// Mock implementations

type mockPlatform struct {
	mock.Mock
	code listing.Marketplace
}

func (m *mockPlatform) Code() listing.Marketplace {
	return m.code
}

func (m *mockPlatform) ResolveCategory(ctx context.Context, name string) (*listing.CategoryRef, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.CategoryRef), args.Error(1)
}

func (m *mockPlatform) CategoryAspects(ctx context.Context, name string) ([]listing.AspectField, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listing.AspectField), args.Error(1)
}

func (m *mockPlatform) SuggestCategories(ctx context.Context, query string) ([]string, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockPlatform) Publish(ctx context.Context, item *listing.Item, accessToken string, imageURLs []string) (string, error) {
	args := m.Called(ctx, item, accessToken, imageURLs)
	return args.String(0), args.Error(1)
}

func (m *mockPlatform) UploadImage(ctx context.Context, accessToken string, image []byte) (string, error) {
	args := m.Called(ctx, accessToken, image)
	return args.String(0), args.Error(1)
}

func (m *mockPlatform) AccountSettings(ctx context.Context, accessToken string) (*listing.AccountSettings, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.AccountSettings), args.Error(1)
}

func (m *mockPlatform) RefreshToken(ctx context.Context, refreshToken string) (*listing.AuthToken, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.AuthToken), args.Error(1)
}

func (m *mockPlatform) ParseOAuthTokens(raw map[string]any) (listing.AuthToken, listing.AuthToken, error) {
	args := m.Called(raw)
	return args.Get(0).(listing.AuthToken), args.Get(1).(listing.AuthToken), args.Error(2)
}

func (m *mockPlatform) DecodeMarketplaceAspects(raw map[string]any) (listing.MarketplaceAspects, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(listing.MarketplaceAspects), args.Error(1)
}

func (m *mockPlatform) MetadataCodec() listing.MetadataCodec {
	args := m.Called()
	return args.Get(0).(listing.MetadataCodec)
}

type mockTokenStore struct {
	mock.Mock
}

func (m *mockTokenStore) Get(ctx context.Context, account listing.MarketplaceAccount) (*listing.AuthToken, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.AuthToken), args.Error(1)
}

func (m *mockTokenStore) Store(ctx context.Context, account listing.MarketplaceAccount, token listing.AuthToken) error {
	args := m.Called(ctx, account, token)
	return args.Error(0)
}

func (m *mockTokenStore) Delete(ctx context.Context, account listing.MarketplaceAccount) (bool, error) {
	args := m.Called(ctx, account)
	return args.Bool(0), args.Error(1)
}

type mockCompletionClient struct {
	mock.Mock
}

func (m *mockCompletionClient) Complete(ctx context.Context, messages []listing.Message, schema map[string]any) (string, error) {
	args := m.Called(ctx, messages, schema)
	return args.String(0), args.Error(1)
}

// fakeAspects is a minimal MarketplaceAspects implementation for tests
type fakeAspects struct {
	values map[string]any
}

func (f *fakeAspects) AsMap() map[string]any { return f.values }

// fakeMetadata and fakeCodec give tests a metadata shape with a single
// description field
type fakeMetadata struct {
	description string
}

func (f *fakeMetadata) Description() string { return f.description }

func (f *fakeMetadata) AsMap() map[string]any {
	return map[string]any{"description": f.description}
}

type fakeCodec struct{}

func (fakeCodec) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{"type": "string"},
		},
		"required":             []string{"description"},
		"additionalProperties": false,
	}
}

func (fakeCodec) Decode(raw map[string]any) (listing.Metadata, error) {
	description, _ := raw["description"].(string)
	return &fakeMetadata{description: description}, nil
}
