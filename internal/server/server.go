// Package server exposes a fitted artifact bundle over HTTP for
// synchronous risk scoring.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/Lemiti/credit-risk-model/internal/artifact"
	"github.com/Lemiti/credit-risk-model/internal/model"
	"github.com/Lemiti/credit-risk-model/internal/observability"
)

// Server serves predictions from one loaded artifact bundle. The
// bundle is immutable after construction, so handlers need no locking.
type Server struct {
	bundle     *artifact.Bundle
	classifier model.Classifier
	logger     *log.Logger
	clock      func() time.Time
}

// New creates a server around a loaded bundle.
func New(bundle *artifact.Bundle, logger *log.Logger) (*Server, error) {
	classifier, err := bundle.Classifier()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		bundle:     bundle,
		classifier: classifier,
		logger:     logger,
		clock:      time.Now,
	}, nil
}

// Handler returns the HTTP routing for the prediction service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHealth)
	mux.HandleFunc("/predict", s.handlePredict)
	mux.Handle("/metrics", observability.Handler())
	return mux
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Prediction server listening on %s (model=%s artifact=%s)",
			addr, s.bundle.ModelName, s.bundle.ArtifactID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

// HealthResponse is the JSON response for GET /.
type HealthResponse struct {
	Status       string `json:"status"`
	ModelName    string `json:"model_name"`
	ArtifactID   string `json:"artifact_id"`
	FeatureCount int    `json:"feature_count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "ok",
		ModelName:    s.bundle.ModelName,
		ArtifactID:   s.bundle.ArtifactID,
		FeatureCount: s.bundle.FeatureCount(),
	})
}

// PredictRequest is the JSON request body for POST /predict. Features
// must match the artifact's selected feature layout in length and
// order.
type PredictRequest struct {
	Features []float64 `json:"features"`
}

// PredictResponse is the JSON response for POST /predict.
type PredictResponse struct {
	Prediction        int     `json:"prediction"`
	ProbabilityOfRisk float64 `json:"probability_of_risk"`
}

// ErrorResponse is the JSON body of any non-2xx prediction response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		observability.RecordPredictionError("method_not_allowed")
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "use POST"})
		return
	}

	started := s.clock()

	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordPredictionError("bad_json")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	want := s.bundle.FeatureCount()
	if len(req.Features) != want {
		observability.RecordPredictionError("bad_length")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("expected %d features, got %d", want, len(req.Features)),
		})
		return
	}
	for i, v := range req.Features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			observability.RecordPredictionError("bad_value")
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: fmt.Sprintf("feature %d is not a finite number", i),
			})
			return
		}
	}

	prob := s.classifier.PredictProba(req.Features)
	prediction := 0
	if prob >= 0.5 {
		prediction = 1
	}

	observability.RecordPrediction(prediction, s.clock().Sub(started).Seconds())

	writeJSON(w, http.StatusOK, PredictResponse{
		Prediction:        prediction,
		ProbabilityOfRisk: prob,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
