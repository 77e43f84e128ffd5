package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxagent/internal/mail"
)

// keywordEmbedder maps text onto fixed axes by keyword, so similarity is
// predictable.
type keywordEmbedder struct {
	axes  []string
	err   error
	calls int
}

func (k *keywordEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	k.calls++
	if k.err != nil {
		return nil, k.err
	}
	v := make([]float64, len(k.axes))
	lower := strings.ToLower(text)
	for i, axis := range k.axes {
		v[i] = float64(strings.Count(lower, axis))
	}
	return v, nil
}

func openTestStore(t *testing.T, ns string, emb Embedder) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vectors.db"), ns, emb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestIndexAndRetrieve(t *testing.T) {
	emb := &keywordEmbedder{axes: []string{"bakery", "books"}}
	s := openTestStore(t, "", emb)
	ctx := context.Background()

	email := mail.Email{ID: "<1@example.com>", Text: "Our bakery opened in 2010"}
	require.NoError(t, s.Index(ctx, email))

	out, err := s.Retrieve(ctx, "tell me about the bakery", 3)
	require.NoError(t, err)

	var texts []string
	require.NoError(t, json.Unmarshal([]byte(out), &texts))
	require.Len(t, texts, 1)
	assert.Equal(t, email.JSON(), texts[0])
}

func TestIndexReplacesNamespace(t *testing.T) {
	emb := &keywordEmbedder{axes: []string{"bakery", "books"}}
	s := openTestStore(t, "ns", emb)
	ctx := context.Background()

	require.NoError(t, s.Index(ctx, mail.Email{ID: "a", Text: "bakery"}))
	require.NoError(t, s.Index(ctx, mail.Email{ID: "b", Text: "books"}))

	out, err := s.Retrieve(ctx, "bakery", 5)
	require.NoError(t, err)

	var texts []string
	require.NoError(t, json.Unmarshal([]byte(out), &texts))
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], `"id":"b"`)
}

func TestRetrieveRanksBySimilarity(t *testing.T) {
	emb := &keywordEmbedder{axes: []string{"bakery", "books"}}
	s := openTestStore(t, "ns", emb)
	ctx := context.Background()

	// Insert two rows directly so ranking has something to order.
	for _, text := range []string{"books books", "bakery bakery"} {
		vec, _ := emb.Embed(ctx, text)
		_, err := s.db.Exec(`INSERT INTO vectors (id, namespace, text, embedding, created_at) VALUES (?, ?, ?, ?, '')`,
			text, "ns", text, encodeVector(vec))
		require.NoError(t, err)
	}

	out, err := s.Retrieve(ctx, "bakery", 1)
	require.NoError(t, err)
	assert.Equal(t, `["bakery bakery"]`, out)

	out, err = s.Retrieve(ctx, "books and bakery", 2)
	require.NoError(t, err)
	var texts []string
	require.NoError(t, json.Unmarshal([]byte(out), &texts))
	assert.Len(t, texts, 2)
}

func TestRetrieveEmpty(t *testing.T) {
	s := openTestStore(t, "ns", &keywordEmbedder{axes: []string{"x"}})
	out, err := s.Retrieve(context.Background(), "anything", 2)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestEmbedderErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	s := openTestStore(t, "ns", &keywordEmbedder{err: boom})

	assert.ErrorIs(t, s.Index(context.Background(), mail.Email{ID: "a"}), boom)
	_, err := s.Retrieve(context.Background(), "x", 1)
	assert.ErrorIs(t, err, boom)
}

func TestNamespacesAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.db")
	emb := &keywordEmbedder{axes: []string{"bakery"}}

	a, err := Open(path, "a", emb)
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Index(context.Background(), mail.Email{ID: "a", Text: "bakery"}))

	b, err := Open(path, "b", emb)
	require.NoError(t, err)
	defer b.Close()

	out, err := b.Retrieve(context.Background(), "bakery", 1)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	require.NoError(t, a.Clear(context.Background()))
	out, err = a.Retrieve(context.Background(), "bakery", 1)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestVectorCodec(t *testing.T) {
	v := []float64{0.5, -1.25, 3}
	got, err := decodeVector(encodeVector(v))
	require.NoError(t, err)
	assert.Equal(t, v, got)

	_, err = decodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosine([]float64{0, 0}, []float64{1, 1}))
	assert.Equal(t, 0.0, cosine([]float64{1}, []float64{1, 2}))
}

func TestOpenRequiresEmbedder(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "v.db"), "", nil)
	assert.Error(t, err)
}
