package fetcher

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/pitchpanda/pitchpanda/internal/slug"
)

// ErrNoDeck is returned when no pitch deck matches a company.
var ErrNoDeck = eris.New("fetcher: no pitch deck found")

// FindDeck locates the pitch deck for a company in dir. An absent dir
// behaves like an empty one.
func FindDeck(dir, companySlug string) (string, error) {
	if dir == "" {
		return "", ErrNoDeck
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoDeck
		}
		return "", eris.Wrapf(err, "fetcher: list decks in %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	match, ok := slug.Match(companySlug, names)
	if !ok {
		return "", ErrNoDeck
	}
	return filepath.Join(dir, match), nil
}
