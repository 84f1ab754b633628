package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dgroleau/thalweg/pkg/pipeline"
)

// writeTroughGrid writes a 21x21 ASCII grid whose elevation depends only
// on y: a V-valley with its floor along y=4.
func writeTroughGrid(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("ncols 21\nnrows 21\nxllcorner 0\nyllcorner -10\ncellsize 1\nNODATA_value -9999\n")
	for r := 0; r < 21; r++ {
		elev := 6 - r
		if elev < 0 {
			elev = -elev
		}
		for c := 0; c < 21; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", elev)
		}
		b.WriteByte('\n')
	}
	path := filepath.Join(t.TempDir(), "trough.asc")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(pipeline.NewRunner(nil, nil, nil), nil, nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func lineFC(coords [][2]float64) map[string]any {
	coordList := make([][]float64, len(coords))
	for i, c := range coords {
		coordList[i] = []float64{c[0], c[1]}
	}
	return map[string]any{
		"type": "FeatureCollection",
		"features": []map[string]any{{
			"type":       "Feature",
			"properties": map[string]any{},
			"geometry": map[string]any{
				"type":        "LineString",
				"coordinates": coordList,
			},
		}},
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRelaxEndpoint(t *testing.T) {
	ts := newTestServer(t)
	grid := writeTroughGrid(t)

	resp := postJSON(t, ts.URL+"/v1/relax", map[string]any{
		"surface": grid,
		"lines":   lineFC([][2]float64{{2, 0}, {10, 0}, {18, 0}}),
		"options": map[string]any{
			"search_distance": 6.0,
			"spacing":         2.0,
			"min_delta":       0.2,
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Lines struct {
			Features []struct {
				Geometry struct {
					Coordinates [][]float64 `json:"coordinates"`
				} `json:"geometry"`
			} `json:"features"`
		} `json:"lines"`
		Stats struct {
			Moved int `json:"Moved"`
		} `json:"stats"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Lines.Features, 1)
	require.Greater(t, body.Stats.Moved, 0)
	for _, c := range body.Lines.Features[0].Geometry.Coordinates {
		require.InDelta(t, 4.0, c[1], 1e-9) // vertices pulled onto the valley floor
	}
}

func TestCrossSectionsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/cross-sections", map[string]any{
		"lines": lineFC([][2]float64{{0, 0}, {100, 0}}),
		"options": map[string]any{
			"interval": 20.0,
			"width":    30.0,
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Transects struct {
			Features []json.RawMessage `json:"features"`
		} `json:"transects"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Transects.Features, 6)
}

func TestMinimaEndpoint(t *testing.T) {
	ts := newTestServer(t)
	grid := writeTroughGrid(t)

	resp := postJSON(t, ts.URL+"/v1/minima", map[string]any{
		"surface": grid,
		"lines":   lineFC([][2]float64{{5, 10}, {5, -6}}),
		"options": map[string]any{
			"interval":  1.0,
			"threshold": 2.0,
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Minima struct {
			Features []struct {
				Properties map[string]any `json:"properties"`
			} `json:"features"`
		} `json:"minima"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Minima.Features, 1)
	require.InDelta(t, 0.0, body.Minima.Features[0].Properties["elevation"], 1e-9)
}

func TestRelaxRejectsMissingLines(t *testing.T) {
	ts := newTestServer(t)
	grid := writeTroughGrid(t)

	resp := postJSON(t, ts.URL+"/v1/relax", map[string]any{
		"surface": grid,
		"options": map[string]any{"search_distance": 6.0},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorBody
	decodeBody(t, resp, &body)
	require.Equal(t, "INVALID_INPUT", body.Error.Code)
}

func TestRelaxMissingSurfaceIs404(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/relax", map[string]any{
		"surface": filepath.Join(t.TempDir(), "absent.asc"),
		"lines":   lineFC([][2]float64{{0, 0}, {10, 0}}),
		"options": map[string]any{"search_distance": 6.0, "spacing": 2.0},
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body errorBody
	decodeBody(t, resp, &body)
	require.Equal(t, "FILE_NOT_FOUND", body.Error.Code)
}

func TestJobLifecycle(t *testing.T) {
	ts := newTestServer(t)
	grid := writeTroughGrid(t)

	payload, err := json.Marshal(map[string]any{
		"surface": grid,
		"lines":   lineFC([][2]float64{{2, 0}, {10, 0}, {18, 0}}),
		"options": map[string]any{
			"search_distance": 6.0,
			"spacing":         2.0,
			"min_delta":       0.2,
		},
	})
	require.NoError(t, err)

	resp := postJSON(t, ts.URL+"/v1/jobs", map[string]any{
		"operation": "relax",
		"payload":   json.RawMessage(payload),
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var submitted struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	decodeBody(t, resp, &submitted)
	require.NotEmpty(t, submitted.ID)

	deadline := time.Now().Add(5 * time.Second)
	for {
		require.True(t, time.Now().Before(deadline), "job did not finish in time")

		r, err := http.Get(ts.URL + "/v1/jobs/" + submitted.ID)
		require.NoError(t, err)
		var j struct {
			State  string          `json:"state"`
			Error  string          `json:"error"`
			Result json.RawMessage `json:"result"`
		}
		decodeBody(t, r, &j)
		r.Body.Close()

		if j.State == "done" {
			require.NotEmpty(t, j.Result)
			break
		}
		require.NotEqual(t, "failed", j.State, "job failed: %s", j.Error)
		time.Sleep(20 * time.Millisecond)
	}
}

func TestSubmitUnknownOperation(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/jobs", map[string]any{
		"operation": "explode",
		"payload":   map[string]any{},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUnknownJob(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/jobs/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body errorBody
	decodeBody(t, resp, &body)
	require.Equal(t, "JOB_NOT_FOUND", body.Error.Code)
}
