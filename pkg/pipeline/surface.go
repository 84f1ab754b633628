package pipeline

import (
	"bytes"
	"os"

	"github.com/dgroleau/thalweg/pkg/cache"
	"github.com/dgroleau/thalweg/pkg/dem"
	"github.com/dgroleau/thalweg/pkg/errors"
)

// LoadSurface reads an ASCII grid raster and names it by a hash of its
// contents, so cached elevations are keyed to the exact raster data
// rather than its path.
func LoadSurface(path string) (Surface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Surface{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "surface file not found: %s", path)
		}
		return Surface{}, errors.Wrap(errors.ErrCodeInternal, err, "failed to read surface %s", path)
	}

	grid, err := dem.ReadASCIIGrid(bytes.NewReader(data))
	if err != nil {
		return Surface{}, err
	}
	return Surface{
		Source:   grid,
		Name:     cache.Hash(data),
		CellSize: grid.CellSize(),
	}, nil
}
