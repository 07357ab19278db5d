package question

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreCreatesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "questions.json")
	store, err := NewStore(path, nil, zerolog.Nop())
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
	assert.Empty(t, store.Load())
}

func TestEnsureExistsDoesNotTouchExistingFile(t *testing.T) {
	store := newTestStore(t)
	content := []byte(`{"arrays": {"Easy": [], "Medium": [], "Hard": []}}`)
	require.NoError(t, os.WriteFile(store.Path(), content, 0o644))

	require.NoError(t, store.EnsureExists())
	require.NoError(t, store.EnsureExists())

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, content, raw)
}

func TestLoadTreatsMissingOrMalformedFileAsEmpty(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"arrays": [`), 0o644))
	assert.Empty(t, store.Load())

	require.NoError(t, os.WriteFile(store.Path(), []byte(`null`), 0o644))
	assert.NotNil(t, store.Load())

	require.NoError(t, os.Remove(store.Path()))
	assert.Empty(t, store.Load())
}

func TestAddQuestionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	saved, added, err := store.AddQuestion(context.Background(), "arrays", Medium, sampleQuestion("Rotate Array"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.NotEmpty(t, saved.ID)

	doc := store.Load()
	require.Contains(t, doc, "arrays")
	require.Len(t, doc["arrays"].Medium, 1)
	assert.Equal(t, "Rotate Array", doc["arrays"].Medium[0].Title)
	assert.Equal(t, saved.ID, doc["arrays"].Medium[0].ID)
	assert.Empty(t, doc["arrays"].Easy)
	assert.Empty(t, doc["arrays"].Hard)
}

func TestAddQuestionKeepsProvidedID(t *testing.T) {
	store := newTestStore(t)
	q := sampleQuestion("Two Sum")
	q.ID = "q-1"

	saved, _, err := store.AddQuestion(context.Background(), "arrays", Easy, q)
	require.NoError(t, err)
	assert.Equal(t, "q-1", saved.ID)
}

func TestAddQuestionDuplicateTitleAcrossDifficulties(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, added, err := store.AddQuestion(ctx, "X", Easy, sampleQuestion("T"))
	require.NoError(t, err)
	require.True(t, added)
	before := store.Load()["X"].Len()

	dup, added, err := store.AddQuestion(ctx, "X", Medium, sampleQuestion("T"))
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, "T", dup.Title)
	assert.NotEmpty(t, dup.ID)

	doc := store.Load()
	assert.Equal(t, before, doc["X"].Len())
	assert.Empty(t, doc["X"].Medium)
}

func TestAddQuestionTitleComparisonIsCaseSensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.AddQuestion(ctx, "X", Easy, sampleQuestion("Two Sum"))
	require.NoError(t, err)
	_, added, err := store.AddQuestion(ctx, "X", Easy, sampleQuestion("two sum"))
	require.NoError(t, err)
	assert.True(t, added)
}

func TestAddQuestionDuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := sampleQuestion("First")
	first.ID = "same"
	second := sampleQuestion("Second")
	second.ID = "same"

	_, _, err := store.AddQuestion(ctx, "X", Hard, first)
	require.NoError(t, err)
	_, added, err := store.AddQuestion(ctx, "X", Easy, second)
	require.NoError(t, err)
	assert.False(t, added)
}

func TestAddQuestionSameTitleDifferentTopic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.AddQuestion(ctx, "arrays", Easy, sampleQuestion("T"))
	require.NoError(t, err)
	_, added, err := store.AddQuestion(ctx, "strings", Easy, sampleQuestion("T"))
	require.NoError(t, err)
	assert.True(t, added)
}

func TestAddQuestionRejectsBadInput(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.AddQuestion(context.Background(), "X", Difficulty("expert"), sampleQuestion("T"))
	assert.ErrorIs(t, err, ErrInvalidDifficulty)

	_, _, err = store.AddQuestion(context.Background(), "", Easy, sampleQuestion("T"))
	assert.ErrorIs(t, err, ErrMissingField)

	assert.Empty(t, store.Load())
}

func TestAddQuestionRecoversFromMalformedFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("not json"), 0o644))

	_, added, err := store.AddQuestion(context.Background(), "X", Easy, sampleQuestion("T"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Len(t, store.Load()["X"].Easy, 1)
}

func TestAddQuestionWritesReadableJSON(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.AddQuestion(context.Background(), "X", Easy, sampleQuestion("a < b für alle"))
	require.NoError(t, err)

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "a < b für alle")
	assert.Contains(t, string(raw), "\n  \"X\": {")

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestAddQuestionConcurrentWritersLoseNothing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			topic := fmt.Sprintf("topic-%d", i%3)
			_, _, err := store.AddQuestion(ctx, topic, Easy, sampleQuestion(fmt.Sprintf("Q%d", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	total := 0
	for _, bucket := range store.Load() {
		total += bucket.Len()
	}
	assert.Equal(t, 20, total)
}

func TestTitles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	_, _, _ = store.AddQuestion(ctx, "X", Hard, sampleQuestion("H"))
	_, _, _ = store.AddQuestion(ctx, "X", Easy, sampleQuestion("E"))

	assert.Equal(t, []string{"E", "H"}, store.Titles("X"))
	assert.Nil(t, store.Titles("missing"))
}

const legacyDocument = `{
  "arrays": {
    "Easy": [
      {"id": "a1", "title": "Legacy", "example": "see text", "tags": "arrays", "hint": {"level": 2}}
    ],
    "Medium": [],
    "Hard": []
  }
}`

func TestLoadKeepsOffSchemaEntries(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte(legacyDocument), 0o644))

	doc := store.Load()
	require.Contains(t, doc, "arrays")
	require.Len(t, doc["arrays"].Easy, 1)
	assert.Equal(t, "Legacy", doc["arrays"].Easy[0].Title)
	assert.Equal(t, "a1", doc["arrays"].Easy[0].ID)
	assert.Equal(t, []string{"Legacy"}, store.Titles("arrays"))
}

func TestAddQuestionPreservesOffSchemaEntries(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte(legacyDocument), 0o644))
	ctx := context.Background()

	_, added, err := store.AddQuestion(ctx, "arrays", Medium, sampleQuestion("Legacy"))
	require.NoError(t, err)
	assert.False(t, added)

	_, added, err = store.AddQuestion(ctx, "arrays", Medium, sampleQuestion("Fresh"))
	require.NoError(t, err)
	assert.True(t, added)

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	var stored struct {
		Arrays struct {
			Easy   []map[string]json.RawMessage `json:"Easy"`
			Medium []map[string]json.RawMessage `json:"Medium"`
		} `json:"arrays"`
	}
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored.Arrays.Easy, 1)
	legacy := stored.Arrays.Easy[0]
	assert.JSONEq(t, `"see text"`, string(legacy["example"]))
	assert.JSONEq(t, `"arrays"`, string(legacy["tags"]))
	assert.JSONEq(t, `{"level": 2}`, string(legacy["hint"]))
	assert.JSONEq(t, `"a1"`, string(legacy["id"]))
	assert.Len(t, stored.Arrays.Medium, 1)
}

func TestAddQuestionKeepsExtraBuckets(t *testing.T) {
	store := newTestStore(t)
	content := `{"arrays": {"Easy": [], "Medium": [], "Hard": [], "Expert": [{"title": "X"}]}}`
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

	_, _, err := store.AddQuestion(context.Background(), "arrays", Easy, sampleQuestion("Y"))
	require.NoError(t, err)

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Expert"`)
	assert.Contains(t, string(raw), `"X"`)
}

func TestLoadAcceptsNumericIDAndTitle(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"math": {"Easy": [{"id": 7, "title": 42}]}}`), 0o644))

	doc := store.Load()
	require.Len(t, doc["math"].Easy, 1)
	assert.Equal(t, "7", doc["math"].Easy[0].ID)
	assert.Equal(t, "42", doc["math"].Easy[0].Title)

	q := sampleQuestion("other")
	q.ID = "7"
	_, added, err := store.AddQuestion(context.Background(), "math", Hard, q)
	require.NoError(t, err)
	assert.False(t, added)
}

func TestAddQuestionRefusesToOverwriteUnexpectedDocument(t *testing.T) {
	for _, content := range []string{
		`["not", "a", "mapping"]`,
		`{"arrays": ["Two Sum"]}`,
		`{"arrays": {"Easy": "Two Sum"}}`,
		`{"arrays": {"Easy": ["Two Sum"]}}`,
	} {
		t.Run(content, func(t *testing.T) {
			store := newTestStore(t)
			require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

			_, added, err := store.AddQuestion(context.Background(), "arrays", Easy, sampleQuestion("T"))
			assert.ErrorIs(t, err, ErrUnexpectedDocument)
			assert.False(t, added)

			raw, err := os.ReadFile(store.Path())
			require.NoError(t, err)
			assert.Equal(t, content, string(raw))
		})
	}
}
