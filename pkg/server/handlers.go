package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb/geojson"

	"github.com/dgroleau/thalweg/pkg/errors"
	"github.com/dgroleau/thalweg/pkg/geom"
	"github.com/dgroleau/thalweg/pkg/job"
	"github.com/dgroleau/thalweg/pkg/pipeline"
	"github.com/dgroleau/thalweg/pkg/relax"
	"github.com/dgroleau/thalweg/pkg/vector"
)

// ===== Request / response shapes =====

// relaxRequest carries inline stream geometry plus a server-side path
// to the elevation raster.
type relaxRequest struct {
	Surface string          `json:"surface"`
	Lines   json.RawMessage `json:"lines"`
	Options struct {
		SearchDistance float64 `json:"search_distance"`
		Spacing        float64 `json:"spacing"`
		MinDelta       float64 `json:"min_delta"`
		Refresh        bool    `json:"refresh"`
	} `json:"options"`
}

type relaxResponse struct {
	Lines    *geojson.FeatureCollection `json:"lines"`
	Stats    relax.Stats                `json:"stats"`
	CacheHit bool                       `json:"cache_hit"`
}

type xsectRequest struct {
	Lines   json.RawMessage `json:"lines"`
	Options struct {
		Interval float64 `json:"interval"`
		Width    float64 `json:"width"`
		Refresh  bool    `json:"refresh"`
	} `json:"options"`
}

type xsectResponse struct {
	Transects *geojson.FeatureCollection `json:"transects"`
	CacheHit  bool                       `json:"cache_hit"`
}

type minimaRequest struct {
	Surface string          `json:"surface"`
	Lines   json.RawMessage `json:"lines"`
	Options struct {
		Interval  float64 `json:"interval"`
		Threshold float64 `json:"threshold"`
		Refresh   bool    `json:"refresh"`
	} `json:"options"`
}

type minimaResponse struct {
	Minima   *geojson.FeatureCollection `json:"minima"`
	CacheHit bool                       `json:"cache_hit"`
}

// ===== Synchronous handlers =====

func (s *Server) handleRelax(w http.ResponseWriter, r *http.Request) {
	var req relaxRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.runRelax(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCrossSections(w http.ResponseWriter, r *http.Request) {
	var req xsectRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.runCrossSections(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMinima(w http.ResponseWriter, r *http.Request) {
	var req minimaRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.runMinima(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ===== Operation runners (shared with jobs) =====

func (s *Server) runRelax(ctx context.Context, req relaxRequest) (*relaxResponse, error) {
	lines, err := parseLines(req.Lines)
	if err != nil {
		return nil, err
	}
	surface, err := pipeline.LoadSurface(req.Surface)
	if err != nil {
		return nil, err
	}
	res, err := s.runner.Relax(ctx, lines, surface, pipeline.RelaxOptions{
		SearchDistance: req.Options.SearchDistance,
		Spacing:        req.Options.Spacing,
		MinDelta:       req.Options.MinDelta,
		Refresh:        req.Options.Refresh,
	})
	if err != nil {
		return nil, err
	}
	return &relaxResponse{
		Lines:    vector.ToFeatureCollection(res.Lines),
		Stats:    res.Stats,
		CacheHit: res.CacheHit,
	}, nil
}

func (s *Server) runCrossSections(ctx context.Context, req xsectRequest) (*xsectResponse, error) {
	lines, err := parseLines(req.Lines)
	if err != nil {
		return nil, err
	}
	res, err := s.runner.CrossSections(ctx, lines, pipeline.XSectOptions{
		Interval: req.Options.Interval,
		Width:    req.Options.Width,
		Refresh:  req.Options.Refresh,
	})
	if err != nil {
		return nil, err
	}
	return &xsectResponse{
		Transects: vector.ToFeatureCollection(res.Transects),
		CacheHit:  res.CacheHit,
	}, nil
}

func (s *Server) runMinima(ctx context.Context, req minimaRequest) (*minimaResponse, error) {
	lines, err := parseLines(req.Lines)
	if err != nil {
		return nil, err
	}
	surface, err := pipeline.LoadSurface(req.Surface)
	if err != nil {
		return nil, err
	}
	res, err := s.runner.Minima(ctx, lines, surface, pipeline.MinimaOptions{
		Interval:  req.Options.Interval,
		Threshold: req.Options.Threshold,
		Refresh:   req.Options.Refresh,
	})
	if err != nil {
		return nil, err
	}

	pts := make([]vector.PointFeature, len(res.Minima))
	for i, m := range res.Minima {
		pts[i] = vector.PointFeature{
			Point: m.Point,
			Properties: map[string]any{
				"elevation": m.Elevation,
				"reach":     m.Reach,
			},
		}
	}
	return &minimaResponse{
		Minima:   vector.PointsToFeatureCollection(pts),
		CacheHit: res.CacheHit,
	}, nil
}

// ===== Jobs =====

type submitJobRequest struct {
	Operation string          `json:"operation"`
	Payload   json.RawMessage `json:"payload"`
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req submitJobRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	switch req.Operation {
	case "relax", "cross-sections", "minima":
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"unknown operation %q", req.Operation))
		return
	}

	j := job.New(req.Operation, job.DefaultTTL)
	if err := s.jobs.Set(r.Context(), j); err != nil {
		writeError(w, err)
		return
	}

	go s.runJob(j.ID, req.Operation, req.Payload)

	writeJSON(w, http.StatusAccepted, j)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	j, err := s.jobs.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if j == nil {
		writeError(w, errors.New(errors.ErrCodeJobNotFound, "job %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// runJob executes one submitted operation outside the request lifetime.
func (s *Server) runJob(id, operation string, payload json.RawMessage) {
	ctx := context.Background()

	j, err := s.jobs.Get(ctx, id)
	if err != nil || j == nil {
		return
	}
	j.State = job.StateRunning
	if err := s.jobs.Set(ctx, j); err != nil {
		s.logger.Error("failed to mark job running", "job", id, "err", err)
	}

	var (
		result any
		runErr error
	)
	switch operation {
	case "relax":
		var req relaxRequest
		if runErr = json.Unmarshal(payload, &req); runErr == nil {
			result, runErr = s.runRelax(ctx, req)
		}
	case "cross-sections":
		var req xsectRequest
		if runErr = json.Unmarshal(payload, &req); runErr == nil {
			result, runErr = s.runCrossSections(ctx, req)
		}
	case "minima":
		var req minimaRequest
		if runErr = json.Unmarshal(payload, &req); runErr == nil {
			result, runErr = s.runMinima(ctx, req)
		}
	}

	if runErr != nil {
		s.logger.Warn("job failed", "job", id, "operation", operation, "err", runErr)
		j.Fail(errors.UserMessage(runErr))
	} else {
		data, err := json.Marshal(result)
		if err != nil {
			j.Fail("failed to encode result")
		} else {
			j.Complete(data)
		}
	}
	if err := s.jobs.Set(ctx, j); err != nil {
		s.logger.Error("failed to store job result", "job", id, "err", err)
	}
}

// parseLines accepts a GeoJSON FeatureCollection as the line payload.
func parseLines(raw json.RawMessage) ([]*geom.Line, error) {
	if len(raw) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "lines payload is required")
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to parse lines geojson")
	}
	lines, err := vector.FromFeatureCollection(fc)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no line features in payload")
	}
	return lines, nil
}
