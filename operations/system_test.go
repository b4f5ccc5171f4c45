/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operations_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/entrolab/entropyd/drng/manager"
	"github.com/entrolab/entropyd/operations"
	"github.com/entrolab/entropyd/operations/fakes"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type healthCheckFunc func(context.Context) error

func (h healthCheckFunc) HealthCheck(ctx context.Context) error { return h(ctx) }

var _ = Describe("System", func() {
	var (
		fakeLogger *fakes.Logger
		options    operations.Options
		system     *operations.System
	)

	BeforeEach(func() {
		system = nil
		fakeLogger = &fakes.Logger{}
		options = operations.Options{
			Logger:        fakeLogger,
			ListenAddress: "127.0.0.1:0",
			Metrics: operations.MetricsOptions{
				Provider: "disabled",
			},
			Version: "test-version",
		}
	})

	AfterEach(func() {
		if system != nil {
			system.Stop()
		}
	})

	It("hosts an endpoint for the version information", func() {
		system = operations.NewSystem(options)
		Expect(system.Start()).To(Succeed())

		resp, err := http.Get(fmt.Sprintf("http://%s/version", system.Addr()))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(body).To(MatchJSON(`{"CommitSHA": "development build", "Version": "latest"}`))
	})

	It("hosts an endpoint for health checks", func() {
		system = operations.NewSystem(options)
		err := system.RegisterChecker("alive", healthCheckFunc(func(context.Context) error {
			return nil
		}))
		Expect(err).NotTo(HaveOccurred())
		Expect(system.Start()).To(Succeed())

		resp, err := http.Get(fmt.Sprintf("http://%s/healthz", system.Addr()))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring(`"status":"OK"`))
	})

	It("returns service unavailable when a health check fails", func() {
		system = operations.NewSystem(options)
		err := system.RegisterChecker("flaky", healthCheckFunc(func(context.Context) error {
			return errors.New("broken")
		}))
		Expect(err).NotTo(HaveOccurred())
		Expect(system.Start()).To(Succeed())

		resp, err := http.Get(fmt.Sprintf("http://%s/healthz", system.Addr()))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring(`"component":"flaky"`))
		Expect(string(body)).To(ContainSubstring(`"reason":"broken"`))
	})

	It("hosts an endpoint to manage the logging spec", func() {
		system = operations.NewSystem(options)
		Expect(system.Start()).To(Succeed())

		specURL := fmt.Sprintf("http://%s/logspec", system.Addr())
		resp, err := http.Get(specURL)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))
		originalSpec, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(originalSpec)).To(ContainSubstring(`"spec"`))

		req, err := http.NewRequest(http.MethodPut, specURL, strings.NewReader(`{"spec":"operations=debug:info"}`))
		Expect(err).NotTo(HaveOccurred())
		resp, err = http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNoContent))

		resp, err = http.Get(specURL)
		Expect(err).NotTo(HaveOccurred())
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(body).To(MatchJSON(`{"spec": "operations=debug:info"}`))

		req, err = http.NewRequest(http.MethodPut, specURL, bytes.NewReader(originalSpec))
		Expect(err).NotTo(HaveOccurred())
		resp, err = http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
	})

	It("does not host metrics when the provider is disabled", func() {
		system = operations.NewSystem(options)
		Expect(system.Start()).To(Succeed())

		resp, err := http.Get(fmt.Sprintf("http://%s/metrics", system.Addr()))
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("warns when an unknown metrics provider is configured", func() {
		options.Metrics.Provider = "something-else"
		system = operations.NewSystem(options)

		Expect(fakeLogger.WarnfCallCount()).To(Equal(1))
		template, args := fakeLogger.WarnfArgsForCall(0)
		Expect(template).To(Equal("Unknown provider type: %s; metrics disabled"))
		Expect(args).To(Equal([]interface{}{"something-else"}))
	})

	It("hosts the random API for a registered generator", func() {
		fakeDRNG := &fakes.DRNG{}
		fakeDRNG.GenerateStub = func(out []byte) (int, error) {
			for i := range out {
				out[i] = 0xab
			}
			return len(out), nil
		}
		fakeDRNG.StatusReturns(manager.Status{
			Generator:            "ChaCha20 DRNG",
			SecurityStrengthBits: 256,
			InstanceKind:         "static",
		})

		system = operations.NewSystem(options)
		Expect(system.RegisterDRNG(fakeDRNG)).To(Succeed())
		Expect(system.Start()).To(Succeed())

		resp, err := http.Get(fmt.Sprintf("http://%s/v1/random?size=16", system.Addr()))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(Equal("application/octet-stream"))
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(body).To(Equal(bytes.Repeat([]byte{0xab}, 16)))

		resp, err = http.Get(fmt.Sprintf("http://%s/v1/status", system.Addr()))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		body, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring(`"generator":"ChaCha20 DRNG"`))

		req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("http://%s/v1/seed", system.Addr()), strings.NewReader("operator material"))
		Expect(err).NotTo(HaveOccurred())
		resp, err = http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
		Expect(fakeDRNG.InjectCallCount()).To(Equal(1))
		Expect(fakeDRNG.InjectArgsForCall(0)).To(Equal([]byte("operator material")))
	})

	It("wires the generator into the health checks", func() {
		fakeDRNG := &fakes.DRNG{}
		fakeDRNG.HealthCheckReturns(errors.New("wedged"))

		system = operations.NewSystem(options)
		Expect(system.RegisterDRNG(fakeDRNG)).To(Succeed())
		Expect(system.Start()).To(Succeed())

		resp, err := http.Get(fmt.Sprintf("http://%s/healthz", system.Addr()))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring(`"component":"drng"`))
		Expect(string(body)).To(ContainSubstring(`"reason":"wedged"`))
	})

	Context("when a prometheus metrics provider is configured", func() {
		BeforeEach(func() {
			options.Metrics.Provider = "prometheus"
		})

		It("hosts the version gauge on the metrics endpoint", func() {
			system = operations.NewSystem(options)
			Expect(system.Start()).To(Succeed())

			resp, err := http.Get(fmt.Sprintf("http://%s/metrics", system.Addr()))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`entropyd_version{version="test-version"} 1`))
		})
	})

	Context("when a statsd metrics provider is configured", func() {
		var udpListener net.PacketConn

		BeforeEach(func() {
			var err error
			udpListener, err = net.ListenPacket("udp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())

			options.Metrics = operations.MetricsOptions{
				Provider: "statsd",
				Statsd: &operations.Statsd{
					Network:       "udp",
					Address:       udpListener.LocalAddr().String(),
					WriteInterval: 100 * time.Millisecond,
					Prefix:        "test-prefix",
				},
			}
		})

		AfterEach(func() {
			udpListener.Close()
		})

		It("sends the version gauge to statsd", func() {
			system = operations.NewSystem(options)
			Expect(system.Start()).To(Succeed())

			payloads := make(chan string, 1)
			go func() {
				defer GinkgoRecover()
				buf := make([]byte, 1024*1024)
				for {
					n, _, err := udpListener.ReadFrom(buf)
					if err != nil {
						return
					}
					select {
					case payloads <- string(buf[:n]):
					default:
					}
				}
			}()

			Eventually(payloads, 5*time.Second).Should(Receive(ContainSubstring("test-prefix.entropyd_version.test-version:1")))
		})

		It("returns an error when the statsd endpoint cannot be reached", func() {
			listener, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			address := listener.Addr().String()
			Expect(listener.Close()).To(Succeed())

			options.Metrics.Statsd.Network = "tcp"
			options.Metrics.Statsd.Address = address

			system = operations.NewSystem(options)
			Expect(system.Start()).To(HaveOccurred())
		})
	})
})
