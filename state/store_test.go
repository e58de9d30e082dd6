package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"newsfeed/logging"
	"newsfeed/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "data", "articles.json"), logging.Discard())
}

func TestLoadMissingFile(t *testing.T) {
	s := newStore(t)
	assert.Empty(t, s.Load())
}

func TestLoadCorruptFile(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`[{"title": "broken"`), 0o644))

	assert.Empty(t, s.Load())

	_, err := s.read()
	var corrupt *types.StateCorruptError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, s.Path(), corrupt.Path)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newStore(t)
	est := time.FixedZone("EST", -5*60*60)
	in := []types.Article{
		types.NewArticle("Council <approves> \"budget\" & more", "https://example.gov/a", time.Date(2024, 1, 3, 14, 5, 9, 0, est), "Government"),
		types.NewArticle("Road work", "https://example.gov/b", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ""),
	}

	require.NoError(t, s.Save(in))
	out := s.Load()

	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].Link, out[i].Link)
		assert.Equal(t, in[i].Title, out[i].Title)
		assert.Equal(t, in[i].Category, out[i].Category)
		assert.Equal(t, in[i].Description, out[i].Description)
		assert.True(t, in[i].Date.Truncate(time.Second).Equal(out[i].Date.Truncate(time.Second)),
			"date %s != %s", in[i].Date, out[i].Date)
	}
}

func TestSaveWritesUTCOffsetDates(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save([]types.Article{
		types.NewArticle("A", "https://example.gov/a", time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC), ""),
	}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var raw []map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "2024-01-02T15:04:05+00:00", raw[0]["date"])
	assert.Equal(t, "A", raw[0]["description"])
}

func TestLoadInvalidDateFallsBackToNow(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	s := newStore(t).WithClock(func() time.Time { return fixed })
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`[
		{"title": "A", "link": "https://example.gov/a", "date": "not a date", "category": "News", "description": "A"},
		{"title": "B", "link": "https://example.gov/b", "date": "2024-01-01T00:00:00+00:00"}
	]`), 0o644))

	out := s.Load()

	require.Len(t, out, 2)
	assert.Equal(t, fixed, out[0].Date)
	assert.Equal(t, types.DefaultCategory, out[1].Category)
	assert.Equal(t, "B", out[1].Description)
}

func TestLoadRepairsDuplicateLinks(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`[
		{"title": "First", "link": "https://example.gov/a", "date": "2024-01-02T00:00:00+00:00"},
		{"title": "Second", "link": "https://example.gov/a", "date": "2024-01-03T00:00:00+00:00"},
		{"title": "No link", "link": "", "date": "2024-01-03T00:00:00+00:00"}
	]`), 0o644))

	out := s.Load()

	require.Len(t, out, 1)
	assert.Equal(t, "First", out[0].Title)

	// the record without a link is not written back
	require.NoError(t, s.Save(out))
	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "No link")
}

func TestSaveFailureIsPublishError(t *testing.T) {
	dir := t.TempDir()
	// The state path is an existing directory, so the replace fails
	target := filepath.Join(dir, "articles.json")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0o755))

	err := NewStore(target, logging.Discard()).Save(nil)

	var pe *types.PublishError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, target, pe.Path)
}
