package dem

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dgroleau/thalweg/pkg/errors"
)

// ReadASCIIGrid parses an ESRI ASCII grid (.asc) into a [Grid].
//
// The format is a small header followed by whitespace-separated values,
// one row per line, north row first:
//
//	ncols        4
//	nrows        3
//	xllcorner    0.0
//	yllcorner    0.0
//	cellsize     10.0
//	NODATA_value -9999
//	100 101 102 103
//	...
//
// Header keywords are case-insensitive. NODATA_value is optional and
// defaults to -9999. xllcenter/yllcenter headers are accepted and shifted
// to corner registration.
func ReadASCIIGrid(r io.Reader) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	header := map[string]float64{}
	centerRegistered := false
	var vals []float64

	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		// Header lines are "keyword value" pairs; the first line that
		// does not start with a keyword begins the data block.
		if len(vals) == 0 && len(fields) == 2 {
			key := strings.ToLower(fields[0])
			switch key {
			case "ncols", "nrows", "xllcorner", "yllcorner", "cellsize", "nodata_value", "xllcenter", "yllcenter":
				v, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidGrid, err, "bad header value for %s", fields[0])
				}
				if key == "xllcenter" {
					key = "xllcorner"
					centerRegistered = true
				}
				if key == "yllcenter" {
					key = "yllcorner"
					centerRegistered = true
				}
				header[key] = v
				continue
			}
		}

		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidGrid, err, "bad grid value %q", f)
			}
			vals = append(vals, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGrid, err, "read grid")
	}

	for _, req := range []string{"ncols", "nrows", "xllcorner", "yllcorner", "cellsize"} {
		if _, ok := header[req]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidGrid, "missing header %s", req)
		}
	}
	noData, ok := header["nodata_value"]
	if !ok {
		noData = -9999
	}

	xll, yll := header["xllcorner"], header["yllcorner"]
	if centerRegistered {
		xll -= header["cellsize"] / 2
		yll -= header["cellsize"] / 2
	}

	return NewGrid(
		int(header["ncols"]), int(header["nrows"]),
		xll, yll,
		header["cellsize"], noData,
		vals,
	)
}

// LoadASCIIGrid reads an ESRI ASCII grid from a file path.
func LoadASCIIGrid(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "grid file %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return ReadASCIIGrid(f)
}
