/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package goruntime

import (
	"runtime"
	"time"

	"github.com/entrolab/entropyd/common/metrics"
)

// Collector publishes snapshots of the Go runtime as gauges. The operations
// server runs one collector while statsd reporting is enabled.
type Collector struct {
	CgoCalls       metrics.Gauge
	GoRoutines     metrics.Gauge
	ThreadsCreated metrics.Gauge
	HeapAlloc      metrics.Gauge
	TotalAlloc     metrics.Gauge
	Mallocs        metrics.Gauge
	Frees          metrics.Gauge
	HeapSys        metrics.Gauge
	HeapIdle       metrics.Gauge
	HeapInuse      metrics.Gauge
	HeapReleased   metrics.Gauge
	HeapObjects    metrics.Gauge
	StackInuse     metrics.Gauge
	StackSys       metrics.Gauge
	MSpanInuse     metrics.Gauge
	MSpanSys       metrics.Gauge
	MCacheInuse    metrics.Gauge
	MCacheSys      metrics.Gauge
	BuckHashSys    metrics.Gauge
	GCSys          metrics.Gauge
	OtherSys       metrics.Gauge
	NextGC         metrics.Gauge
	LastGC         metrics.Gauge
	PauseTotalNs   metrics.Gauge
	PauseNs        metrics.Gauge
	NumGC          metrics.Gauge
	NumForcedGC    metrics.Gauge
}

func NewCollector(p metrics.Provider) *Collector {
	gauge := func(subsystem, name, help string) metrics.Gauge {
		return p.NewGauge(metrics.GaugeOpts{
			Namespace:    "go",
			Subsystem:    subsystem,
			Name:         name,
			Help:         help,
			StatsdFormat: "%{#fqname}",
		})
	}

	return &Collector{
		CgoCalls:       gauge("", "cgo_calls", "The number of calls made from Go to C by the current process."),
		GoRoutines:     gauge("", "goroutine_count", "The number of goroutines that currently exist."),
		ThreadsCreated: gauge("", "threads_created", "The total number of threads created by the current process."),

		HeapAlloc:    gauge("mem", "heap_alloc_bytes", "Bytes of allocated heap objects."),
		TotalAlloc:   gauge("mem", "heap_total_alloc_bytes", "Cumulative bytes allocated for heap objects."),
		Mallocs:      gauge("mem", "heap_malloc_count", "The cumulative count of heap objects allocated."),
		Frees:        gauge("mem", "heap_free_count", "The cumulative count of heap objects freed."),
		HeapSys:      gauge("mem", "heap_sys_bytes", "Bytes of heap memory obtained from the OS."),
		HeapIdle:     gauge("mem", "heap_idle_bytes", "Bytes in idle (unused) spans."),
		HeapInuse:    gauge("mem", "heap_inuse_bytes", "Bytes in in-use spans."),
		HeapReleased: gauge("mem", "heap_released_bytes", "Bytes of physical memory returned to the OS."),
		HeapObjects:  gauge("mem", "heap_objects", "The number of allocated heap objects."),

		StackInuse:  gauge("mem", "stack_inuse_bytes", "Bytes in stack spans."),
		StackSys:    gauge("mem", "stack_sys_bytes", "Bytes of stack memory obtained from the OS."),
		MSpanInuse:  gauge("mem", "mspan_inuse_bytes", "Bytes of allocated mspan structures."),
		MSpanSys:    gauge("mem", "mspan_sys_bytes", "Bytes of memory obtained from the OS for mspan structures."),
		MCacheInuse: gauge("mem", "mcache_inuse_bytes", "Bytes of allocated mcache structures."),
		MCacheSys:   gauge("mem", "mcache_sys_bytes", "Bytes of memory obtained from the OS for mcache structures."),
		BuckHashSys: gauge("mem", "buckethash_sys_bytes", "Bytes of memory in profiling bucket hash tables."),
		GCSys:       gauge("mem", "gc_sys_bytes", "Bytes of memory in garbage collection metadata."),
		OtherSys:    gauge("mem", "other_sys_bytes", "Bytes of memory in miscellaneous off-heap runtime allocations."),

		NextGC:       gauge("mem", "gc_next_bytes", "The target heap size of the next GC cycle."),
		LastGC:       gauge("mem", "gc_last_epoch_nanotime", "The time the last garbage collection finished."),
		PauseTotalNs: gauge("mem", "gc_pause_total_ns", "The cumulative nanoseconds in GC stop-the-world pauses since the program started."),
		PauseNs:      gauge("mem", "gc_pause_last_ns", "The nanoseconds of the most recent GC stop-the-world pause."),
		NumGC:        gauge("mem", "gc_completed_count", "The number of completed GC cycles."),
		NumForcedGC:  gauge("mem", "gc_forced_count", "The number of GC cycles forced by the application calling the GC function."),
	}
}

// CollectAndPublish takes a snapshot on every tick until the channel closes.
func (c *Collector) CollectAndPublish(ticks <-chan time.Time) {
	for range ticks {
		c.Publish(CollectStats())
	}
}

func (c *Collector) Publish(stats Stats) {
	c.publishProcess(stats)
	c.publishHeap(&stats.MemStats)
	c.publishRuntimeSys(&stats.MemStats)
	c.publishGC(&stats)
}

func (c *Collector) publishProcess(stats Stats) {
	c.CgoCalls.Set(float64(stats.CgoCalls))
	c.GoRoutines.Set(float64(stats.GoRoutines))
	c.ThreadsCreated.Set(float64(stats.ThreadsCreated))
}

func (c *Collector) publishHeap(ms *runtime.MemStats) {
	c.HeapAlloc.Set(float64(ms.HeapAlloc))
	c.TotalAlloc.Set(float64(ms.TotalAlloc))
	c.Mallocs.Set(float64(ms.Mallocs))
	c.Frees.Set(float64(ms.Frees))
	c.HeapSys.Set(float64(ms.HeapSys))
	c.HeapIdle.Set(float64(ms.HeapIdle))
	c.HeapInuse.Set(float64(ms.HeapInuse))
	c.HeapReleased.Set(float64(ms.HeapReleased))
	c.HeapObjects.Set(float64(ms.HeapObjects))
}

func (c *Collector) publishRuntimeSys(ms *runtime.MemStats) {
	c.StackInuse.Set(float64(ms.StackInuse))
	c.StackSys.Set(float64(ms.StackSys))
	c.MSpanInuse.Set(float64(ms.MSpanInuse))
	c.MSpanSys.Set(float64(ms.MSpanSys))
	c.MCacheInuse.Set(float64(ms.MCacheInuse))
	c.MCacheSys.Set(float64(ms.MCacheSys))
	c.BuckHashSys.Set(float64(ms.BuckHashSys))
	c.GCSys.Set(float64(ms.GCSys))
	c.OtherSys.Set(float64(ms.OtherSys))
}

func (c *Collector) publishGC(stats *Stats) {
	ms := &stats.MemStats
	c.NextGC.Set(float64(ms.NextGC))
	c.LastGC.Set(float64(ms.LastGC))
	c.PauseTotalNs.Set(float64(ms.PauseTotalNs))
	c.PauseNs.Set(float64(stats.LastPause()))
	c.NumGC.Set(float64(ms.NumGC))
	c.NumForcedGC.Set(float64(ms.NumForcedGC))
}

// Stats is one snapshot of the runtime counters.
type Stats struct {
	CgoCalls       int64
	GoRoutines     int
	ThreadsCreated int
	MemStats       runtime.MemStats
}

// LastPause returns the duration of the most recent stop-the-world pause.
// PauseNs is a circular buffer indexed by GC cycle.
func (s *Stats) LastPause() uint64 {
	return s.MemStats.PauseNs[(s.MemStats.NumGC+255)%256]
}

func CollectStats() Stats {
	var stats Stats
	stats.CgoCalls = runtime.NumCgoCall()
	stats.GoRoutines = runtime.NumGoroutine()
	stats.ThreadsCreated, _ = runtime.ThreadCreateProfile(nil)
	runtime.ReadMemStats(&stats.MemStats)
	return stats
}
