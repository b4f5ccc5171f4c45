/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package httpadmin

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/entrolab/entropyd/common/flogging"
)

// Logging is the subset of the logging system required to inspect and modify
// the active logging specification over HTTP.
type Logging interface {
	ActivateSpec(spec string) error
	Spec() string
}

type LogSpec struct {
	Spec string `json:"spec,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewSpecHandler() *SpecHandler {
	return &SpecHandler{
		Logging: flogging.Global,
		Logger:  flogging.MustGetLogger("flogging.httpadmin"),
	}
}

type SpecHandler struct {
	Logging Logging
	Logger  *flogging.Logger
}

func (h *SpecHandler) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodPut:
		var logSpec LogSpec
		decoder := json.NewDecoder(req.Body)
		if err := decoder.Decode(&logSpec); err != nil {
			h.sendResponse(resp, http.StatusBadRequest, err)
			return
		}
		req.Body.Close()

		if err := h.Logging.ActivateSpec(logSpec.Spec); err != nil {
			h.sendResponse(resp, http.StatusBadRequest, err)
			return
		}
		resp.WriteHeader(http.StatusNoContent)

	case http.MethodGet:
		resp.Header().Set("Content-Type", "application/json")
		logSpec := &LogSpec{Spec: h.Logging.Spec()}
		if err := json.NewEncoder(resp).Encode(logSpec); err != nil {
			h.Logger.Errorw("failed to encode log spec", "error", err)
		}

	default:
		err := fmt.Errorf("invalid request method: %s", req.Method)
		h.sendResponse(resp, http.StatusBadRequest, err)
	}
}

func (h *SpecHandler) sendResponse(resp http.ResponseWriter, code int, err error) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(code)

	payload := &ErrorResponse{Error: err.Error()}
	if err := json.NewEncoder(resp).Encode(payload); err != nil {
		h.Logger.Errorw("failed to encode error response", "error", err)
	}
}
