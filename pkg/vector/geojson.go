package vector

import (
	"encoding/json"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dgroleau/thalweg/pkg/errors"
	"github.com/dgroleau/thalweg/pkg/geom"
)

func readGeoJSONLines(path string) ([]*geom.Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "geojson file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to read %s", path)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to parse geojson in %s", path)
	}

	lines, err := FromFeatureCollection(fc)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no line features in %s", path)
	}
	return lines, nil
}

// FromFeatureCollection extracts every LineString and MultiLineString
// part from fc. Non-line features are ignored.
func FromFeatureCollection(fc *geojson.FeatureCollection) ([]*geom.Line, error) {
	var lines []*geom.Line
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			l, err := geom.NewLine([]geom.Point(g))
			if err != nil {
				return nil, err
			}
			lines = append(lines, l)
		case orb.MultiLineString:
			for _, part := range g {
				l, err := geom.NewLine([]geom.Point(part))
				if err != nil {
					return nil, err
				}
				lines = append(lines, l)
			}
		}
	}
	return lines, nil
}

// ToFeatureCollection wraps lines as LineString features tagged with
// their reach index.
func ToFeatureCollection(lines []*geom.Line) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, l := range lines {
		f := geojson.NewFeature(orb.LineString(l.Vertices()))
		f.Properties = geojson.Properties{"reach": i}
		fc.Append(f)
	}
	return fc
}

// PointsToFeatureCollection wraps point features for JSON output.
func PointsToFeatureCollection(pts []PointFeature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range pts {
		f := geojson.NewFeature(orb.Point(p.Point))
		f.Properties = geojson.Properties(p.Properties)
		fc.Append(f)
	}
	return fc
}

func writeGeoJSONLines(path string, lines []*geom.Line) error {
	return writeGeoJSONFile(path, ToFeatureCollection(lines))
}

func writeGeoJSONPoints(path string, pts []PointFeature) error {
	return writeGeoJSONFile(path, PointsToFeatureCollection(pts))
}

func writeGeoJSONFile(path string, fc *geojson.FeatureCollection) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to encode geojson")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "failed to write %s", path)
	}
	return nil
}
