/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operations

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/entrolab/entropyd/common/flogging"
	"github.com/entrolab/entropyd/common/semaphore"
	"github.com/entrolab/entropyd/drng/manager"
)

const (
	// URLBaseV1 is the root of the versioned random API.
	URLBaseV1 = "/v1/"
	// URLV1Random serves raw generator output.
	URLV1Random = URLBaseV1 + "random"
	// URLV1Status reports the managed generator status.
	URLV1Status = URLBaseV1 + "status"
	// URLV1Seed accepts operator seed material.
	URLV1Seed = URLBaseV1 + "seed"

	// DefaultMaxRequestBytes bounds a single random read or seed payload.
	DefaultMaxRequestBytes = 65536
	// DefaultConcurrency bounds concurrent random reads.
	DefaultConcurrency = 16
)

// RandOptions configures the random API limits. A zero value picks the
// defaults; a negative Concurrency removes the bound.
type RandOptions struct {
	MaxRequestBytes int
	Concurrency     int
}

//go:generate counterfeiter -o fakes/drng.go -fake-name DRNG . DRNG

// DRNG is the surface of the managed generator the HTTP API serves.
type DRNG interface {
	Generate(out []byte) (int, error)
	GenerateFull(out []byte) (int, error)
	Inject(material []byte) error
	Status() manager.Status
	HealthCheck(ctx context.Context) error
}

// ErrorResponse carries API errors as JSON.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterDRNG mounts the versioned random API for d and registers it as a
// health checker.
func (s *System) RegisterDRNG(d DRNG) error {
	handler := NewRandHandler(d, s.options.Rand)
	s.mux.PathPrefix(URLBaseV1).Handler(handler)
	return s.RegisterChecker("drng", d)
}

// RandHandler handles all HTTP requests to the random API.
type RandHandler struct {
	logger          *flogging.Logger
	drng            DRNG
	sem             semaphore.Semaphore
	maxRequestBytes int
	router          *mux.Router
}

// NewRandHandler routes the versioned random API onto d.
func NewRandHandler(d DRNG, opts RandOptions) *RandHandler {
	maxRequestBytes := opts.MaxRequestBytes
	if maxRequestBytes <= 0 {
		maxRequestBytes = DefaultMaxRequestBytes
	}
	concurrency := opts.Concurrency
	if concurrency == 0 {
		concurrency = DefaultConcurrency
	}
	sem := semaphore.Semaphore(semaphore.Disabled)
	if concurrency > 0 {
		sem = semaphore.New(concurrency)
	}

	handler := &RandHandler{
		logger:          flogging.MustGetLogger("operations.rand"),
		drng:            d,
		sem:             sem,
		maxRequestBytes: maxRequestBytes,
		router:          mux.NewRouter(),
	}

	handler.router.HandleFunc(URLV1Random, handler.serveRandom).Methods(http.MethodGet)
	handler.router.HandleFunc(URLV1Random, handler.serveNotAllowed)
	handler.router.HandleFunc(URLV1Status, handler.serveStatus).Methods(http.MethodGet)
	handler.router.HandleFunc(URLV1Status, handler.serveNotAllowed)
	handler.router.HandleFunc(URLV1Seed, handler.serveSeed).Methods(http.MethodPut)
	handler.router.HandleFunc(URLV1Seed, handler.serveNotAllowed)

	return handler
}

func (h *RandHandler) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	h.router.ServeHTTP(resp, req)
}

func (h *RandHandler) serveRandom(resp http.ResponseWriter, req *http.Request) {
	size, err := h.parseSize(req)
	if err != nil {
		h.sendResponseJsonError(resp, http.StatusBadRequest, err)
		return
	}

	full := false
	switch mode := req.URL.Query().Get("mode"); mode {
	case "", "standard":
	case "full":
		full = true
	default:
		h.sendResponseJsonError(resp, http.StatusBadRequest, errors.Errorf("unknown mode: %s", mode))
		return
	}

	if err := h.sem.Acquire(req.Context()); err != nil {
		h.sendResponseJsonError(resp, http.StatusServiceUnavailable, err)
		return
	}
	defer h.sem.Release()

	out := make([]byte, size)
	if full {
		_, err = h.drng.GenerateFull(out)
	} else {
		_, err = h.drng.Generate(out)
	}
	if err != nil {
		h.sendResponseJsonError(resp, http.StatusInternalServerError, err)
		return
	}

	resp.Header().Set("Content-Type", "application/octet-stream")
	resp.WriteHeader(http.StatusOK)
	resp.Write(out)
}

func (h *RandHandler) serveStatus(resp http.ResponseWriter, req *http.Request) {
	h.sendResponseOK(resp, h.drng.Status())
}

func (h *RandHandler) serveSeed(resp http.ResponseWriter, req *http.Request) {
	material, err := io.ReadAll(io.LimitReader(req.Body, int64(h.maxRequestBytes)+1))
	if err != nil {
		h.sendResponseJsonError(resp, http.StatusBadRequest, errors.WithMessage(err, "reading seed material"))
		return
	}
	if len(material) > h.maxRequestBytes {
		h.sendResponseJsonError(resp, http.StatusBadRequest, errors.Errorf("seed material exceeds the %d byte request limit", h.maxRequestBytes))
		return
	}
	if len(material) == 0 {
		h.sendResponseJsonError(resp, http.StatusBadRequest, errors.New("seed material is required"))
		return
	}

	if err := h.drng.Inject(material); err != nil {
		h.sendResponseJsonError(resp, http.StatusInternalServerError, err)
		return
	}
	resp.WriteHeader(http.StatusNoContent)
}

func (h *RandHandler) serveNotAllowed(resp http.ResponseWriter, req *http.Request) {
	if req.URL.Path == URLV1Seed {
		resp.Header().Set("Allow", http.MethodPut)
	} else {
		resp.Header().Set("Allow", http.MethodGet)
	}
	err := errors.Errorf("invalid request method: %s", req.Method)
	h.sendResponseJsonError(resp, http.StatusMethodNotAllowed, err)
}

func (h *RandHandler) parseSize(req *http.Request) (int, error) {
	raw := req.URL.Query().Get("size")
	if raw == "" {
		return 0, errors.New("size query parameter is required")
	}
	size, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Errorf("invalid size: %s", raw)
	}
	if size < 0 {
		return 0, errors.Errorf("invalid size: %d", size)
	}
	if size > h.maxRequestBytes {
		return 0, errors.Errorf("requested %d bytes exceeds the %d byte request limit", size, h.maxRequestBytes)
	}
	return size, nil
}

func (h *RandHandler) sendResponseOK(resp http.ResponseWriter, content interface{}) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(resp).Encode(content); err != nil {
		h.logger.Errorf("failed to encode content, err: %s", err)
	}
}

func (h *RandHandler) sendResponseJsonError(resp http.ResponseWriter, code int, err error) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(code)
	if encErr := json.NewEncoder(resp).Encode(&ErrorResponse{Error: err.Error()}); encErr != nil {
		h.logger.Errorf("failed to encode error, err: %s", encErr)
	}
}
