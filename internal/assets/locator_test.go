package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben-gunnels/advert-bot/internal/catalog"
)

type fakeStorage struct {
	count    int
	countErr error
	fetchErr error

	countedPaths []string
	fetchedPaths []string
}

func (f *fakeStorage) CountFiles(_ context.Context, _, path string) (int, error) {
	f.countedPaths = append(f.countedPaths, path)
	return f.count, f.countErr
}

func (f *fakeStorage) FetchToFile(_ context.Context, _, path, localDest string) error {
	f.fetchedPaths = append(f.fetchedPaths, path)
	if f.fetchErr != nil {
		return f.fetchErr
	}
	return os.WriteFile(localDest, []byte("model"), 0o644)
}

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]string{"male", "female"},
		[]string{"white", "black", "red", "blue"},
		nil,
	)
}

func TestSelectReferenceEmptyFolderFailsWithoutDraw(t *testing.T) {
	fs := &fakeStorage{count: 0}
	l := NewLocator(fs, testCatalog(), "models")

	_, err := l.SelectReference(context.Background(), catalog.Selector{Category: "male", Subcategory: "red"}, filepath.Join(t.TempDir(), "model.png"))

	assert.ErrorIs(t, err, ErrNoAssets)
	assert.Empty(t, fs.fetchedPaths, "no fetch may happen over an empty folder")
}

func TestSelectReferenceIndexAlwaysInRange(t *testing.T) {
	const n = 5
	fs := &fakeStorage{count: n}
	l := NewLocator(fs, testCatalog(), "models")

	indexRe := regexp.MustCompile(`/(\d+)\.png$`)

	for i := 0; i < 200; i++ {
		_, err := l.SelectReference(context.Background(), catalog.Selector{}, filepath.Join(t.TempDir(), "model.png"))
		require.NoError(t, err)
	}

	require.Len(t, fs.fetchedPaths, 200)
	for _, p := range fs.fetchedPaths {
		m := indexRe.FindStringSubmatch(p)
		require.NotNil(t, m, "fetched path %q has no numeric index", p)
		idx, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, idx, 1)
		assert.LessOrEqual(t, idx, n)
	}
}

func TestSelectReferencePartialSelectorKeepsSetSlot(t *testing.T) {
	fs := &fakeStorage{count: 3}
	l := NewLocator(fs, testCatalog(), "models")

	for i := 0; i < 50; i++ {
		_, err := l.SelectReference(context.Background(), catalog.Selector{Category: "male"}, filepath.Join(t.TempDir(), "model.png"))
		require.NoError(t, err)
	}

	subRe := regexp.MustCompile(`^/male/(white|black|red|blue)/$`)
	seen := map[string]bool{}
	for _, p := range fs.countedPaths {
		require.Regexp(t, subRe, p, "category slot must stay pinned to male")
		seen[p] = true
	}
	// The unset slot still randomizes.
	assert.Greater(t, len(seen), 1)
}

func TestSelectReferenceFullSelectorDeterministicPath(t *testing.T) {
	fs := &fakeStorage{count: 1}
	l := NewLocator(fs, testCatalog(), "models")

	remote, err := l.SelectReference(context.Background(), catalog.Selector{Category: "female", Subcategory: "red"}, filepath.Join(t.TempDir(), "model.png"))

	require.NoError(t, err)
	assert.Equal(t, "/female/red/1.png", remote)
}

func TestSelectReferenceCountErrorWrapsFetchError(t *testing.T) {
	fs := &fakeStorage{countErr: fmt.Errorf("auth expired")}
	l := NewLocator(fs, testCatalog(), "models")

	_, err := l.SelectReference(context.Background(), catalog.Selector{Category: "male", Subcategory: "red"}, filepath.Join(t.TempDir(), "model.png"))

	assert.ErrorIs(t, err, ErrFetch)
}

func TestSelectReferenceFetchErrorWrapped(t *testing.T) {
	fs := &fakeStorage{count: 2, fetchErr: fmt.Errorf("network down")}
	l := NewLocator(fs, testCatalog(), "models")

	_, err := l.SelectReference(context.Background(), catalog.Selector{Category: "male", Subcategory: "red"}, filepath.Join(t.TempDir(), "model.png"))

	assert.ErrorIs(t, err, ErrFetch)
}

func TestSelectReferenceWritesLocalDest(t *testing.T) {
	fs := &fakeStorage{count: 2}
	l := NewLocator(fs, testCatalog(), "models")
	dest := filepath.Join(t.TempDir(), "model.png")

	_, err := l.SelectReference(context.Background(), catalog.Selector{Category: "male", Subcategory: "blue"}, dest)

	require.NoError(t, err)
	_, statErr := os.Stat(dest)
	assert.NoError(t, statErr)
}
