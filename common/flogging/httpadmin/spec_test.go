/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package httpadmin_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/entrolab/entropyd/common/flogging"
	"github.com/entrolab/entropyd/common/flogging/httpadmin"
	"github.com/stretchr/testify/assert"
)

type fakeLogging struct {
	spec        string
	activated   []string
	activateErr error
}

func (f *fakeLogging) ActivateSpec(spec string) error {
	f.activated = append(f.activated, spec)
	return f.activateErr
}

func (f *fakeLogging) Spec() string { return f.spec }

func TestNewSpecHandler(t *testing.T) {
	handler := httpadmin.NewSpecHandler()
	assert.Equal(t, flogging.Global, handler.Logging)
	assert.NotNil(t, handler.Logger)
}

func TestSpecHandlerGet(t *testing.T) {
	logging := &fakeLogging{spec: "info"}
	handler := &httpadmin.SpecHandler{
		Logging: logging,
		Logger:  flogging.MustGetLogger("test.httpadmin"),
	}

	req := httptest.NewRequest(http.MethodGet, "/logspec", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"spec":"info"}`, resp.Body.String())
}

func TestSpecHandlerPut(t *testing.T) {
	logging := &fakeLogging{}
	handler := &httpadmin.SpecHandler{
		Logging: logging,
		Logger:  flogging.MustGetLogger("test.httpadmin"),
	}

	body := bytes.NewBufferString(`{"spec":"chatty=debug:info"}`)
	req := httptest.NewRequest(http.MethodPut, "/logspec", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, []string{"chatty=debug:info"}, logging.activated)
}

func TestSpecHandlerPutFailures(t *testing.T) {
	t.Run("bad json", func(t *testing.T) {
		handler := &httpadmin.SpecHandler{
			Logging: &fakeLogging{},
			Logger:  flogging.MustGetLogger("test.httpadmin"),
		}

		req := httptest.NewRequest(http.MethodPut, "/logspec", bytes.NewBufferString("not-json"))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("activation failure", func(t *testing.T) {
		logging := &fakeLogging{activateErr: errors.New("no soup for you")}
		handler := &httpadmin.SpecHandler{
			Logging: logging,
			Logger:  flogging.MustGetLogger("test.httpadmin"),
		}

		req := httptest.NewRequest(http.MethodPut, "/logspec", bytes.NewBufferString(`{"spec":"debug"}`))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.JSONEq(t, `{"error":"no soup for you"}`, resp.Body.String())
	})
}

func TestSpecHandlerBadMethod(t *testing.T) {
	handler := &httpadmin.SpecHandler{
		Logging: &fakeLogging{},
		Logger:  flogging.MustGetLogger("test.httpadmin"),
	}

	req := httptest.NewRequest(http.MethodPost, "/logspec", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error":"invalid request method: POST"}`, resp.Body.String())
}
