package vector

import (
	"fmt"
	"sort"

	shp "gitee.com/LJ_COOL/go-shp"

	"github.com/dgroleau/thalweg/pkg/errors"
	"github.com/dgroleau/thalweg/pkg/geom"
)

// splitParts slices a shapefile record's flat point array into its
// parts using the record's part-start offsets.
func splitParts(points []shp.Point, parts []int32) [][]shp.Point {
	if len(parts) <= 1 {
		return [][]shp.Point{points}
	}
	out := make([][]shp.Point, 0, len(parts))
	for i, start := range parts {
		end := int32(len(points))
		if i < len(parts)-1 {
			end = parts[i+1]
		}
		out = append(out, points[start:end])
	}
	return out
}

func toLine(points []shp.Point) (*geom.Line, error) {
	pts := make([]geom.Point, len(points))
	for i, p := range points {
		pts[i] = geom.Point{p.X, p.Y}
	}
	return geom.NewLine(pts)
}

func readShapefileLines(path string) ([]*geom.Line, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "failed to open shapefile %s", path)
	}
	defer reader.Close()

	var lines []*geom.Line
	for reader.Next() {
		_, shape := reader.Shape()

		var points []shp.Point
		var parts []int32
		switch s := shape.(type) {
		case *shp.PolyLine:
			points, parts = s.Points, s.Parts
		case *shp.PolyLineZ:
			points, parts = s.Points, s.Parts
		case *shp.PolyLineM:
			points, parts = s.Points, s.Parts
		default:
			continue
		}

		for _, part := range splitParts(points, parts) {
			l, err := toLine(part)
			if err != nil {
				return nil, err
			}
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no polyline records in %s", path)
	}
	return lines, nil
}

func writeShapefileLines(path string, lines []*geom.Line) error {
	writer, err := shp.Create(path, shp.POLYLINE)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "failed to create shapefile %s", path)
	}
	defer writer.Close()

	writer.SetFields([]shp.Field{shp.StringField([]byte("reach"), 16)})
	for i, l := range lines {
		pts := make([]shp.Point, l.NumVertices())
		for j, v := range l.Vertices() {
			pts[j] = shp.Point{X: v[0], Y: v[1]}
		}
		writer.Write(shp.NewPolyLine([][]shp.Point{pts}))
		if err := writer.WriteAttribute(i, 0, fmt.Sprintf("%d", i)); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "failed to write reach attribute")
		}
	}
	return nil
}

func writeShapefilePoints(path string, pts []PointFeature) error {
	writer, err := shp.Create(path, shp.POINT)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "failed to create shapefile %s", path)
	}
	defer writer.Close()

	// attributes are flattened to strings, one column per distinct key
	cols := pointColumns(pts)
	fields := make([]shp.Field, len(cols))
	for i, c := range cols {
		fields[i] = shp.StringField([]byte(c), 32)
	}
	writer.SetFields(fields)

	for i, p := range pts {
		writer.Write(&shp.Point{X: p.Point[0], Y: p.Point[1]})
		for j, c := range cols {
			v, ok := p.Properties[c]
			if !ok {
				continue
			}
			if err := writer.WriteAttribute(i, j, fmt.Sprintf("%v", v)); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "failed to write attribute %s", c)
			}
		}
	}
	return nil
}

func pointColumns(pts []PointFeature) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, p := range pts {
		for k := range p.Properties {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols) // deterministic column order
	return cols
}
