// Package vector reads and writes stream lines and derived point sets
// as GeoJSON or ESRI shapefiles. The format is chosen from the file
// extension: .shp for shapefiles, anything else is treated as GeoJSON.
package vector

import (
	"path/filepath"
	"strings"

	"github.com/dgroleau/thalweg/pkg/errors"
	"github.com/dgroleau/thalweg/pkg/geom"
)

// PointFeature is one output point with attributes, e.g. a detected
// local minimum tagged with its elevation and reach.
type PointFeature struct {
	Point      geom.Point
	Properties map[string]any
}

func isShapefile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".shp")
}

// ReadLines loads every polyline from path. Multipart shapefile
// records and MultiLineString features contribute one line per part.
func ReadLines(path string) ([]*geom.Line, error) {
	if isShapefile(path) {
		return readShapefileLines(path)
	}
	return readGeoJSONLines(path)
}

// WriteLines writes lines to path, one feature per line tagged with its
// reach index.
func WriteLines(path string, lines []*geom.Line) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if isShapefile(path) {
		return writeShapefileLines(path, lines)
	}
	return writeGeoJSONLines(path, lines)
}

// WritePoints writes point features to path.
func WritePoints(path string, pts []PointFeature) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if isShapefile(path) {
		return writeShapefilePoints(path, pts)
	}
	return writeGeoJSONPoints(path, pts)
}
