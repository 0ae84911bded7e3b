package metrics

import (
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"
)

// MetricsCollector tracks throughput and runtime statistics of a simulation run
type MetricsCollector struct {
	mutex          sync.RWMutex
	startTime      time.Time       // time when collection started
	endTime        time.Time       // time when collection stopped
	totalTrials    int64           // trials observed across all batches
	totalSuccesses int64           // trials whose shape contained the origin
	batchLatencies []time.Duration // wall time of each recorded batch
	memoryUsage    []MemorySnapshot
	gcStats        []GCSnapshot
	numCPU         int
	maxGoroutines  int
}

// MemorySnapshot captures memory usage at a point in time
type MemorySnapshot struct {
	Timestamp    time.Time `json:"timestamp"`
	HeapAlloc    uint64    `json:"heap_alloc"`
	HeapSys      uint64    `json:"heap_sys"`
	HeapInuse    uint64    `json:"heap_inuse"`
	StackInuse   uint64    `json:"stack_inuse"`
	NumGoroutine int       `json:"num_goroutine"`
}

// GCSnapshot captures garbage collection statistics
type GCSnapshot struct {
	Timestamp    time.Time `json:"timestamp"`
	NumGC        uint32    `json:"num_gc"`
	PauseTotalNs uint64    `json:"pause_total_ns"`
	LastPauseNs  uint64    `json:"last_pause_ns"`
}

// PerformanceMetrics contains all collected performance data
type PerformanceMetrics struct {
	Duration         time.Duration    `json:"duration"`
	TotalTrials      int64            `json:"total_trials"`
	TotalSuccesses   int64            `json:"total_successes"`
	TotalBatches     int              `json:"total_batches"`
	TrialsPerSecond  float64          `json:"trials_per_second"`
	AvgBatchLatency  time.Duration    `json:"avg_batch_latency"`
	P95BatchLatency  time.Duration    `json:"p95_batch_latency"`
	P99BatchLatency  time.Duration    `json:"p99_batch_latency"`
	PeakMemoryUsage  uint64           `json:"peak_memory_usage"`
	MaxGoroutines    int              `json:"max_goroutines"`
	NumCPU           int              `json:"num_cpu"`
	TotalGCPauses    uint64           `json:"total_gc_pauses"`
	MemorySnapshots  []MemorySnapshot `json:"memory_snapshots"`
	GCSnapshots      []GCSnapshot     `json:"gc_snapshots"`
	BatchLatencyHist []int64          `json:"batch_latency_histogram"`
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		startTime:      time.Now(),
		batchLatencies: make([]time.Duration, 0, 1024),
		memoryUsage:    make([]MemorySnapshot, 0, 256),
		gcStats:        make([]GCSnapshot, 0, 256),
		numCPU:         runtime.NumCPU(),
	}
}

// Start begins metrics collection
func (mc *MetricsCollector) Start() {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.startTime = time.Now()
	mc.endTime = time.Time{}
}

// Stop ends metrics collection
func (mc *MetricsCollector) Stop() {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.endTime = time.Now()
}

// RecordBatch records a finished batch of trials with its wall time
func (mc *MetricsCollector) RecordBatch(trials, successes int, elapsed time.Duration) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.totalTrials += int64(trials)
	mc.totalSuccesses += int64(successes)
	mc.batchLatencies = append(mc.batchLatencies, elapsed)
}

// TakeSnapshot captures current system state
func (mc *MetricsCollector) TakeSnapshot() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	now := time.Now()
	numGoroutines := runtime.NumGoroutine()

	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	mc.memoryUsage = append(mc.memoryUsage, MemorySnapshot{
		Timestamp:    now,
		HeapAlloc:    memStats.HeapAlloc,
		HeapSys:      memStats.HeapSys,
		HeapInuse:    memStats.HeapInuse,
		StackInuse:   memStats.StackInuse,
		NumGoroutine: numGoroutines,
	})

	mc.gcStats = append(mc.gcStats, GCSnapshot{
		Timestamp:    now,
		NumGC:        memStats.NumGC,
		PauseTotalNs: memStats.PauseTotalNs,
		// PauseNs is a ring buffer indexed by NumGC
		LastPauseNs: memStats.PauseNs[(memStats.NumGC+255)%256],
	})

	if numGoroutines > mc.maxGoroutines {
		mc.maxGoroutines = numGoroutines
	}
}

// GetMetrics returns comprehensive performance metrics
func (mc *MetricsCollector) GetMetrics() PerformanceMetrics {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()

	duration := mc.endTime.Sub(mc.startTime)
	if mc.endTime.IsZero() {
		duration = time.Since(mc.startTime)
	}

	var avgLatency, p95Latency, p99Latency time.Duration
	var peakMemory, totalGCPauses uint64

	if len(mc.batchLatencies) > 0 {
		total := time.Duration(0)
		for _, lat := range mc.batchLatencies {
			total += lat
		}
		avgLatency = total / time.Duration(len(mc.batchLatencies))

		sorted := make([]time.Duration, len(mc.batchLatencies))
		copy(sorted, mc.batchLatencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		p95Latency = sorted[percentileIndex(len(sorted), 0.95)]
		p99Latency = sorted[percentileIndex(len(sorted), 0.99)]
	}

	for _, snapshot := range mc.memoryUsage {
		if snapshot.HeapAlloc > peakMemory {
			peakMemory = snapshot.HeapAlloc
		}
	}

	if len(mc.gcStats) > 0 {
		totalGCPauses = mc.gcStats[len(mc.gcStats)-1].PauseTotalNs
	}

	var trialsPerSecond float64
	if duration > 0 {
		trialsPerSecond = float64(mc.totalTrials) / duration.Seconds()
	}

	return PerformanceMetrics{
		Duration:         duration,
		TotalTrials:      mc.totalTrials,
		TotalSuccesses:   mc.totalSuccesses,
		TotalBatches:     len(mc.batchLatencies),
		TrialsPerSecond:  trialsPerSecond,
		AvgBatchLatency:  avgLatency,
		P95BatchLatency:  p95Latency,
		P99BatchLatency:  p99Latency,
		PeakMemoryUsage:  peakMemory,
		MaxGoroutines:    mc.maxGoroutines,
		NumCPU:           mc.numCPU,
		TotalGCPauses:    totalGCPauses,
		MemorySnapshots:  append([]MemorySnapshot(nil), mc.memoryUsage...),
		GCSnapshots:      append([]GCSnapshot(nil), mc.gcStats...),
		BatchLatencyHist: createLatencyHistogram(mc.batchLatencies),
	}
}

func percentileIndex(n int, p float64) int {
	i := int(float64(n) * p)
	if i >= n {
		i = n - 1
	}
	return i
}

// createLatencyHistogram buckets latencies into 20 equal-width bins
func createLatencyHistogram(latencies []time.Duration) []int64 {
	if len(latencies) == 0 {
		return []int64{}
	}

	buckets := make([]int64, 20)

	maxLatency := time.Duration(0)
	for _, lat := range latencies {
		if lat > maxLatency {
			maxLatency = lat
		}
	}

	bucketSize := maxLatency / time.Duration(len(buckets))
	if bucketSize == 0 {
		buckets[0] = int64(len(latencies))
		return buckets
	}

	for _, lat := range latencies {
		bucketIndex := int(lat / bucketSize)
		if bucketIndex >= len(buckets) {
			bucketIndex = len(buckets) - 1
		}
		buckets[bucketIndex]++
	}

	return buckets
}

// ExportToJSON exports metrics to JSON format
func (mc *MetricsCollector) ExportToJSON() ([]byte, error) {
	return json.MarshalIndent(mc.GetMetrics(), "", "  ")
}

// PrintSummary prints a summary of the metrics
func (mc *MetricsCollector) PrintSummary() {
	metrics := mc.GetMetrics()

	fmt.Println("\n========== PERFORMANCE METRICS SUMMARY ==========")
	fmt.Printf("Duration: %v\n", metrics.Duration)
	fmt.Printf("Total Trials: %d\n", metrics.TotalTrials)
	fmt.Printf("Total Successes: %d\n", metrics.TotalSuccesses)
	fmt.Printf("Batches: %d\n", metrics.TotalBatches)
	fmt.Printf("Trials/Second: %.2f\n", metrics.TrialsPerSecond)
	fmt.Printf("Average Batch Latency: %v\n", metrics.AvgBatchLatency)
	fmt.Printf("P95 Batch Latency: %v\n", metrics.P95BatchLatency)
	fmt.Printf("P99 Batch Latency: %v\n", metrics.P99BatchLatency)
	fmt.Printf("Peak Memory Usage: %.2f MB\n", float64(metrics.PeakMemoryUsage)/1024/1024)
	fmt.Printf("Max Goroutines: %d\n", metrics.MaxGoroutines)
	fmt.Printf("Number of CPUs: %d\n", metrics.NumCPU)
	fmt.Printf("Total GC Pauses: %.2f ms\n", float64(metrics.TotalGCPauses)/1e6)
	fmt.Println("=================================================")
}
