package assets

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/ben-gunnels/advert-bot/internal/catalog"
)

// Reference-model assets are named by 1-based sequential integer index
// with a fixed image extension.
const assetExt = ".png"

var (
	// ErrNoAssets means the resolved remote folder holds no candidate
	// images; no index draw is attempted over an empty range.
	ErrNoAssets = errors.New("no reference assets available")

	// ErrFetch wraps storage collaborator failures during asset retrieval.
	ErrFetch = errors.New("reference asset fetch failed")
)

// assetStorage is the Locator's view of the storage collaborator.
type assetStorage interface {
	CountFiles(ctx context.Context, folderID, path string) (int, error)
	FetchToFile(ctx context.Context, folderID, path, localDest string) error
}

// Locator resolves a concrete reference-model image for an attribute
// selector by sampling uniformly from the matching remote folder.
type Locator struct {
	storage  assetStorage
	catalog  *catalog.Catalog
	folderID string

	// index draws go through here so tests can pin them down
	randInt func(n int) int
}

// NewLocator builds a Locator over the given storage collaborator and
// the folder holding the reference-model tree.
func NewLocator(s assetStorage, c *catalog.Catalog, folderID string) *Locator {
	return &Locator{
		storage:  s,
		catalog:  c,
		folderID: folderID,
		randInt:  rand.IntN,
	}
}

// pick returns v unchanged when set, otherwise a uniformly random choice
// from options. Each unset slot draws independently.
func (l *Locator) pick(v string, options []string) string {
	if v != "" {
		return v
	}
	return options[l.randInt(len(options))]
}

// SelectReference resolves the selector (randomizing any unset slot),
// samples one asset from the matching remote subfolder, and downloads it
// to localDest. Returns the remote path of the chosen asset.
func (l *Locator) SelectReference(ctx context.Context, sel catalog.Selector, localDest string) (string, error) {
	cat := l.pick(sel.Category, l.catalog.Categories())
	sub := l.pick(sel.Subcategory, l.catalog.Subcategories())

	subfolder := fmt.Sprintf("/%s/%s/", cat, sub)

	count, err := l.storage.CountFiles(ctx, l.folderID, subfolder)
	if err != nil {
		return "", fmt.Errorf("%w: counting %s: %v", ErrFetch, subfolder, err)
	}
	if count == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoAssets, subfolder)
	}

	// Assets are numbered 1..count.
	index := l.randInt(count) + 1
	remotePath := fmt.Sprintf("%s%d%s", subfolder, index, assetExt)

	if err := l.storage.FetchToFile(ctx, l.folderID, remotePath, localDest); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrFetch, remotePath, err)
	}

	return remotePath, nil
}
