/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package goruntime_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/entrolab/entropyd/common/metrics/metricsfakes"
	"github.com/entrolab/entropyd/common/metrics/statsd/goruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeCollector() (*goruntime.Collector, map[string]*metricsfakes.Gauge) {
	gauges := map[string]*metricsfakes.Gauge{}
	gauge := func(name string) *metricsfakes.Gauge {
		g := &metricsfakes.Gauge{}
		gauges[name] = g
		return g
	}

	collector := &goruntime.Collector{
		CgoCalls:       gauge("CgoCalls"),
		GoRoutines:     gauge("GoRoutines"),
		ThreadsCreated: gauge("ThreadsCreated"),
		HeapAlloc:      gauge("HeapAlloc"),
		TotalAlloc:     gauge("TotalAlloc"),
		Mallocs:        gauge("Mallocs"),
		Frees:          gauge("Frees"),
		HeapSys:        gauge("HeapSys"),
		HeapIdle:       gauge("HeapIdle"),
		HeapInuse:      gauge("HeapInuse"),
		HeapReleased:   gauge("HeapReleased"),
		HeapObjects:    gauge("HeapObjects"),
		StackInuse:     gauge("StackInuse"),
		StackSys:       gauge("StackSys"),
		MSpanInuse:     gauge("MSpanInuse"),
		MSpanSys:       gauge("MSpanSys"),
		MCacheInuse:    gauge("MCacheInuse"),
		MCacheSys:      gauge("MCacheSys"),
		BuckHashSys:    gauge("BuckHashSys"),
		GCSys:          gauge("GCSys"),
		OtherSys:       gauge("OtherSys"),
		NextGC:         gauge("NextGC"),
		LastGC:         gauge("LastGC"),
		PauseTotalNs:   gauge("PauseTotalNs"),
		PauseNs:        gauge("PauseNs"),
		NumGC:          gauge("NumGC"),
		NumForcedGC:    gauge("NumForcedGC"),
	}
	return collector, gauges
}

func TestNewCollector(t *testing.T) {
	provider := &metricsfakes.Provider{}
	gauge := &metricsfakes.Gauge{}
	provider.NewGaugeReturns(gauge)

	collector := goruntime.NewCollector(provider)
	require.NotNil(t, collector)
	assert.Equal(t, 27, provider.NewGaugeCallCount())

	fqnames := map[string]struct{}{}
	for i := 0; i < provider.NewGaugeCallCount(); i++ {
		opts := provider.NewGaugeArgsForCall(i)
		assert.Equal(t, "go", opts.Namespace)
		assert.NotEmpty(t, opts.Name)
		assert.NotEmpty(t, opts.Help)
		assert.Equal(t, "%{#fqname}", opts.StatsdFormat)
		fqnames[opts.Namespace+"."+opts.Subsystem+"."+opts.Name] = struct{}{}
	}
	assert.Len(t, fqnames, 27, "gauge names must be unique")
}

func TestPublish(t *testing.T) {
	collector, gauges := newFakeCollector()

	stats := goruntime.Stats{
		CgoCalls:       1,
		GoRoutines:     2,
		ThreadsCreated: 3,
		MemStats: runtime.MemStats{
			HeapAlloc:    4,
			TotalAlloc:   5,
			Mallocs:      6,
			Frees:        7,
			HeapSys:      8,
			HeapIdle:     9,
			HeapInuse:    10,
			HeapReleased: 11,
			HeapObjects:  12,
			StackInuse:   13,
			StackSys:     14,
			MSpanInuse:   15,
			MSpanSys:     16,
			MCacheInuse:  17,
			MCacheSys:    18,
			BuckHashSys:  19,
			GCSys:        20,
			OtherSys:     21,
			NextGC:       22,
			LastGC:       23,
			PauseTotalNs: 24,
			NumGC:        7,
			NumForcedGC:  26,
		},
	}
	// the most recent pause is recorded at (NumGC+255)%256
	stats.MemStats.PauseNs[(stats.MemStats.NumGC+255)%256] = 25

	collector.Publish(stats)

	expected := map[string]float64{
		"CgoCalls":       1,
		"GoRoutines":     2,
		"ThreadsCreated": 3,
		"HeapAlloc":      4,
		"TotalAlloc":     5,
		"Mallocs":        6,
		"Frees":          7,
		"HeapSys":        8,
		"HeapIdle":       9,
		"HeapInuse":      10,
		"HeapReleased":   11,
		"HeapObjects":    12,
		"StackInuse":     13,
		"StackSys":       14,
		"MSpanInuse":     15,
		"MSpanSys":       16,
		"MCacheInuse":    17,
		"MCacheSys":      18,
		"BuckHashSys":    19,
		"GCSys":          20,
		"OtherSys":       21,
		"NextGC":         22,
		"LastGC":         23,
		"PauseTotalNs":   24,
		"PauseNs":        25,
		"NumGC":          7,
		"NumForcedGC":    26,
	}

	require.Len(t, gauges, len(expected))
	for name, value := range expected {
		g := gauges[name]
		require.NotNil(t, g, "missing gauge %s", name)
		require.Equal(t, 1, g.SetCallCount(), "gauge %s", name)
		assert.Equal(t, value, g.SetArgsForCall(0), "gauge %s", name)
	}
}

func TestCollectAndPublish(t *testing.T) {
	collector, gauges := newFakeCollector()

	ticks := make(chan time.Time, 1)
	ticks <- time.Now()
	close(ticks)

	collector.CollectAndPublish(ticks)
	assert.Equal(t, 1, gauges["GoRoutines"].SetCallCount())
	assert.True(t, gauges["GoRoutines"].SetArgsForCall(0) > 0)
}

func TestCollectStats(t *testing.T) {
	stats := goruntime.CollectStats()
	assert.True(t, stats.GoRoutines > 0)
	assert.True(t, stats.ThreadsCreated > 0)
	assert.True(t, stats.MemStats.HeapAlloc > 0)
}
