package analysis

import (
	"slices"
	"sync"
	"time"
)

// Outcome classifies a finished generation call.
type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeRetryable Outcome = "retryable"
	OutcomeFailed    Outcome = "failed"
)

// OutcomeOf maps a Generate error to its outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case IsRetryable(err):
		return OutcomeRetryable
	default:
		return OutcomeFailed
	}
}

// Call is one recorded generation attempt.
type Call struct {
	Mode     Mode
	Duration time.Duration
	Outcome  Outcome
	// Chars is the length of the response text; zero for failed calls.
	Chars int
}

type callSample struct {
	at time.Time
	Call
}

// Latency summarizes call durations in milliseconds.
type Latency struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms int64   `json:"p50_ms"`
	P95Ms int64   `json:"p95_ms"`
}

// ModeStats aggregates the calls made for one analysis mode.
type ModeStats struct {
	Calls     int     `json:"calls"`
	Retryable int     `json:"retryable"`
	Failed    int     `json:"failed"`
	AvgChars  float64 `json:"avg_chars"`
	Latency   Latency `json:"latency"`
}

// StatsSnapshot is the state of the rolling window at one point in time.
// Latency covers every call, successful or not.
type StatsSnapshot struct {
	WindowSeconds int64              `json:"window_seconds"`
	Calls         int                `json:"calls"`
	Succeeded     int                `json:"succeeded"`
	Retryable     int                `json:"retryable"`
	Failed        int                `json:"failed"`
	Latency       Latency            `json:"latency"`
	ByMode        map[Mode]ModeStats `json:"by_mode"`
}

// GenerationStats keeps the generation calls of a rolling window.
type GenerationStats struct {
	mu     sync.Mutex
	calls  []callSample
	window time.Duration
	now    func() time.Time
}

// NewGenerationStats creates a tracker for the given window (one hour if <= 0).
func NewGenerationStats(window time.Duration) *GenerationStats {
	if window <= 0 {
		window = time.Hour
	}
	return &GenerationStats{window: window, now: time.Now}
}

// Record adds a finished call. Negative durations count as zero.
func (s *GenerationStats) Record(c Call) {
	if c.Duration < 0 {
		c.Duration = 0
	}
	if c.Outcome == "" {
		c.Outcome = OutcomeOK
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.expireLocked(now)
	s.calls = append(s.calls, callSample{at: now, Call: c})
}

// Snapshot aggregates the calls still inside the window.
func (s *GenerationStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	s.expireLocked(s.now())
	calls := slices.Clone(s.calls)
	s.mu.Unlock()

	snap := StatsSnapshot{
		WindowSeconds: int64(s.window / time.Second),
		Calls:         len(calls),
		ByMode:        map[Mode]ModeStats{},
	}
	all := make([]time.Duration, 0, len(calls))
	perMode := map[Mode][]time.Duration{}
	chars := map[Mode]int{}
	for _, c := range calls {
		all = append(all, c.Duration)
		perMode[c.Mode] = append(perMode[c.Mode], c.Duration)

		ms := snap.ByMode[c.Mode]
		ms.Calls++
		switch c.Outcome {
		case OutcomeRetryable:
			snap.Retryable++
			ms.Retryable++
		case OutcomeFailed:
			snap.Failed++
			ms.Failed++
		default:
			snap.Succeeded++
			chars[c.Mode] += c.Chars
		}
		snap.ByMode[c.Mode] = ms
	}

	snap.Latency = summarize(all)
	for mode, ms := range snap.ByMode {
		ms.Latency = summarize(perMode[mode])
		if ok := ms.Calls - ms.Retryable - ms.Failed; ok > 0 {
			ms.AvgChars = float64(chars[mode]) / float64(ok)
		}
		snap.ByMode[mode] = ms
	}
	return snap
}

// expireLocked drops calls older than the window. Calls are appended in time
// order, so the expired ones form a prefix.
func (s *GenerationStats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.calls) && s.calls[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		s.calls = slices.Delete(s.calls, 0, i)
	}
}

func summarize(durations []time.Duration) Latency {
	if len(durations) == 0 {
		return Latency{}
	}
	ms := make([]int64, len(durations))
	var sum int64
	for i, d := range durations {
		ms[i] = d.Milliseconds()
		sum += ms[i]
	}
	slices.Sort(ms)
	return Latency{
		Count: len(ms),
		MinMs: ms[0],
		MaxMs: ms[len(ms)-1],
		AvgMs: float64(sum) / float64(len(ms)),
		P50Ms: nearestRank(ms, 50),
		P95Ms: nearestRank(ms, 95),
	}
}

// nearestRank returns the smallest value with at least pct percent of the
// sorted values at or below it.
func nearestRank(sorted []int64, pct int) int64 {
	rank := (pct*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}
