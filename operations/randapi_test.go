/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operations_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/entrolab/entropyd/drng/manager"
	"github.com/entrolab/entropyd/operations"
	"github.com/entrolab/entropyd/operations/fakes"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RandHandler", func() {
	var (
		fakeDRNG *fakes.DRNG
		handler  *operations.RandHandler
	)

	BeforeEach(func() {
		fakeDRNG = &fakes.DRNG{}
		fakeDRNG.GenerateStub = func(out []byte) (int, error) {
			for i := range out {
				out[i] = 0x5a
			}
			return len(out), nil
		}
		fakeDRNG.GenerateFullStub = func(out []byte) (int, error) {
			for i := range out {
				out[i] = 0xa5
			}
			return len(out), nil
		}
		handler = operations.NewRandHandler(fakeDRNG, operations.RandOptions{})
	})

	get := func(target string) *httptest.ResponseRecorder {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
		return resp
	}

	put := func(target string, body io.Reader) *httptest.ResponseRecorder {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPut, target, body))
		return resp
	}

	Describe("GET /v1/random", func() {
		It("serves raw output at the requested size", func() {
			resp := get("/v1/random?size=32")
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(resp.Header().Get("Content-Type")).To(Equal("application/octet-stream"))
			Expect(resp.Body.Bytes()).To(Equal(bytes.Repeat([]byte{0x5a}, 32)))
			Expect(fakeDRNG.GenerateCallCount()).To(Equal(1))
			Expect(fakeDRNG.GenerateFullCallCount()).To(Equal(0))
		})

		It("serves the full strength path when requested", func() {
			resp := get("/v1/random?size=8&mode=full")
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(resp.Body.Bytes()).To(Equal(bytes.Repeat([]byte{0xa5}, 8)))
			Expect(fakeDRNG.GenerateFullCallCount()).To(Equal(1))
			Expect(fakeDRNG.GenerateCallCount()).To(Equal(0))
		})

		It("treats standard mode as the default", func() {
			resp := get("/v1/random?size=4&mode=standard")
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(fakeDRNG.GenerateCallCount()).To(Equal(1))
		})

		It("serves an empty body for a zero size", func() {
			resp := get("/v1/random?size=0")
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(resp.Body.Len()).To(Equal(0))
		})

		It("requires a size", func() {
			resp := get("/v1/random")
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.Body).To(MatchJSON(`{"error": "size query parameter is required"}`))
		})

		It("rejects a malformed size", func() {
			resp := get("/v1/random?size=many")
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.Body).To(MatchJSON(`{"error": "invalid size: many"}`))
		})

		It("rejects a negative size", func() {
			resp := get("/v1/random?size=-1")
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.Body).To(MatchJSON(`{"error": "invalid size: -1"}`))
		})

		It("caps the request size", func() {
			handler = operations.NewRandHandler(fakeDRNG, operations.RandOptions{MaxRequestBytes: 64})
			resp := get("/v1/random?size=65")
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.Body).To(MatchJSON(`{"error": "requested 65 bytes exceeds the 64 byte request limit"}`))
			Expect(fakeDRNG.GenerateCallCount()).To(Equal(0))
		})

		It("rejects an unknown mode", func() {
			resp := get("/v1/random?size=4&mode=raw")
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.Body).To(MatchJSON(`{"error": "unknown mode: raw"}`))
		})

		It("returns 500 when the generator fails", func() {
			fakeDRNG.GenerateReturns(0, errors.New("backend failure"))
			resp := get("/v1/random?size=4")
			Expect(resp.Code).To(Equal(http.StatusInternalServerError))
			Expect(resp.Body).To(MatchJSON(`{"error": "backend failure"}`))
		})

		It("returns 503 while all request slots are held", func() {
			handler = operations.NewRandHandler(fakeDRNG, operations.RandOptions{Concurrency: 1})

			entered := make(chan struct{})
			release := make(chan struct{})
			fakeDRNG.GenerateStub = func(out []byte) (int, error) {
				close(entered)
				<-release
				return len(out), nil
			}

			done := make(chan *httptest.ResponseRecorder, 1)
			go func() {
				defer GinkgoRecover()
				resp := httptest.NewRecorder()
				handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/v1/random?size=4", nil))
				done <- resp
			}()
			Eventually(entered).Should(BeClosed())

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			blocked := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/random?size=4", nil).WithContext(ctx)
			handler.ServeHTTP(blocked, req)
			Expect(blocked.Code).To(Equal(http.StatusServiceUnavailable))

			close(release)
			Eventually(done).Should(Receive(HaveField("Code", http.StatusOK)))
		})
	})

	Describe("GET /v1/status", func() {
		It("reports the generator status as JSON", func() {
			fakeDRNG.StatusReturns(manager.Status{
				Generator:            "ChaCha20 DRNG",
				ConditioningHash:     "SHA-1",
				SecurityStrengthBits: 256,
				InstanceKind:         "static",
				LastSeeded:           time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
				BytesSinceSeed:       100,
				TotalBytes:           4096,
			})

			resp := get("/v1/status")
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(resp.Header().Get("Content-Type")).To(Equal("application/json"))
			Expect(resp.Body).To(MatchJSON(`{
				"generator": "ChaCha20 DRNG",
				"conditioning_hash": "SHA-1",
				"security_strength_bits": 256,
				"instance_kind": "static",
				"last_seeded": "2024-05-01T12:00:00Z",
				"bytes_since_seed": 100,
				"total_bytes": 4096
			}`))
		})
	})

	Describe("PUT /v1/seed", func() {
		It("injects the posted material", func() {
			resp := put("/v1/seed", strings.NewReader("operator supplied material"))
			Expect(resp.Code).To(Equal(http.StatusNoContent))
			Expect(fakeDRNG.InjectCallCount()).To(Equal(1))
			Expect(fakeDRNG.InjectArgsForCall(0)).To(Equal([]byte("operator supplied material")))
		})

		It("rejects an empty body", func() {
			resp := put("/v1/seed", nil)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.Body).To(MatchJSON(`{"error": "seed material is required"}`))
			Expect(fakeDRNG.InjectCallCount()).To(Equal(0))
		})

		It("rejects oversized material", func() {
			handler = operations.NewRandHandler(fakeDRNG, operations.RandOptions{MaxRequestBytes: 8})
			resp := put("/v1/seed", strings.NewReader("far too much seed material"))
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.Body).To(MatchJSON(`{"error": "seed material exceeds the 8 byte request limit"}`))
		})

		It("returns 500 when injection fails", func() {
			fakeDRNG.InjectReturns(errors.New("rejected"))
			resp := put("/v1/seed", strings.NewReader("material"))
			Expect(resp.Code).To(Equal(http.StatusInternalServerError))
			Expect(resp.Body).To(MatchJSON(`{"error": "rejected"}`))
		})
	})

	Describe("unsupported methods", func() {
		It("rejects writes to the random endpoint", func() {
			resp := put("/v1/random", nil)
			Expect(resp.Code).To(Equal(http.StatusMethodNotAllowed))
			Expect(resp.Header().Get("Allow")).To(Equal(http.MethodGet))
			Expect(resp.Body).To(MatchJSON(`{"error": "invalid request method: PUT"}`))
		})

		It("rejects reads of the seed endpoint", func() {
			resp := get("/v1/seed")
			Expect(resp.Code).To(Equal(http.StatusMethodNotAllowed))
			Expect(resp.Header().Get("Allow")).To(Equal(http.MethodPut))
			Expect(resp.Body).To(MatchJSON(`{"error": "invalid request method: GET"}`))
		})
	})
})
