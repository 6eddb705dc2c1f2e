package embedding

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	batches [][]string
	err     error
}

func (p *countingProvider) ModelID() string { return "test:model" }

func (p *countingProvider) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1}, nil
}

func (p *countingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.batches = append(p.batches, append([]string(nil), texts...))
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i], _ = p.Embed(ctx, text)
	}
	return out, nil
}

func (p *countingProvider) Close() error { return nil }

type memoryStore struct {
	vectors   map[string][]float32
	lookupErr error
	storeErr  error
	modelIDs  []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{vectors: make(map[string][]float32)}
}

func (s *memoryStore) LookupEmbeddings(_ context.Context, modelID string, texts []string) (map[string][]float32, error) {
	s.modelIDs = append(s.modelIDs, modelID)
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	found := make(map[string][]float32)
	for _, text := range texts {
		if v, ok := s.vectors[modelID+"|"+text]; ok {
			found[text] = v
		}
	}
	return found, nil
}

func (s *memoryStore) StoreEmbeddings(_ context.Context, modelID string, texts []string, vectors [][]float32) error {
	if s.storeErr != nil {
		return s.storeErr
	}
	for i, text := range texts {
		s.vectors[modelID+"|"+text] = vectors[i]
	}
	return nil
}

func TestCachedProvider_OnlyEmbedsMisses(t *testing.T) {
	inner := &countingProvider{}
	store := newMemoryStore()
	cached := NewCached(inner, store, nil)
	ctx := context.Background()

	first, err := cached.EmbedBatch(ctx, []string{"Gitaar", "Piano"})
	require.NoError(t, err)
	require.Len(t, inner.batches, 1)

	second, err := cached.EmbedBatch(ctx, []string{"Piano", "Yoga", "Gitaar", "Yoga"})
	require.NoError(t, err)
	require.Len(t, inner.batches, 2)
	assert.Equal(t, []string{"Yoga"}, inner.batches[1], "duplicates and hits are not re-embedded")

	assert.Equal(t, first[1], second[0])
	assert.Equal(t, first[0], second[2])
	assert.Equal(t, second[1], second[3])
	assert.Equal(t, "test:model", store.modelIDs[0])

	third, err := cached.EmbedBatch(ctx, []string{"Yoga"})
	require.NoError(t, err)
	assert.Len(t, inner.batches, 2, "full hit skips the provider")
	assert.Equal(t, second[1], third[0])
}

func TestCachedProvider_EmbedIsNotCached(t *testing.T) {
	store := newMemoryStore()
	cached := NewCached(&countingProvider{}, store, nil)

	v, err := cached.Embed(context.Background(), "pianoles")
	require.NoError(t, err)
	assert.Equal(t, []float32{8, 1}, v)
	assert.Empty(t, store.vectors)
	assert.Empty(t, store.modelIDs)
}

func TestCachedProvider_StoreFailuresDegrade(t *testing.T) {
	var buf bytes.Buffer
	store := newMemoryStore()
	store.lookupErr = errors.New("relation does not exist")
	store.storeErr = errors.New("read-only transaction")
	inner := &countingProvider{}
	cached := NewCached(inner, store, log.New(&buf, "", 0))

	out, err := cached.EmbedBatch(context.Background(), []string{"Gitaar", "Piano"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Len(t, inner.batches, 1)
	assert.Contains(t, buf.String(), "cache lookup failed")
	assert.Contains(t, buf.String(), "cache store failed")
}

func TestCachedProvider_ProviderError(t *testing.T) {
	cached := NewCached(&countingProvider{err: errors.New("quota exceeded")}, newMemoryStore(), nil)

	_, err := cached.EmbedBatch(context.Background(), []string{"Gitaar"})
	assert.ErrorContains(t, err, "quota exceeded")

	out, err := cached.EmbedBatch(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
}
