// Package invariant provides runtime invariant checks for the hashing
// package's internal bookkeeping. These checks detect violations that
// indicate a bug in the streaming state machine or the ring built on top of
// it, not anything a caller can trigger from outside.
// Violations are logged and can optionally trigger a panic (fail-fast mode).
package invariant

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/baxromumarov/spookyhash/pkg/metrics"
)

// Violation represents a detected invariant violation.
type Violation struct {
	Name      string
	Message   string
	Timestamp time.Time
	Stack     string
}

// Checker tracks and checks invariants.
type Checker struct {
	mu          sync.RWMutex
	nodeID      string
	failFast    bool
	violations  []Violation
	totalChecks int64
	failedCheck int64

	// Callbacks for external logging
	onViolation func(v Violation)
}

// New creates a new invariant checker.
func New(nodeID string, failFast bool) *Checker {
	return &Checker{
		nodeID:     nodeID,
		failFast:   failFast,
		violations: make([]Violation, 0),
	}
}

// SetViolationCallback sets a callback for violations.
func (c *Checker) SetViolationCallback(fn func(v Violation)) {
	c.mu.Lock()
	c.onViolation = fn
	c.mu.Unlock()
}

// Check checks an invariant condition.
// If the condition is false, it records a violation.
func (c *Checker) Check(name string, condition bool, format string, args ...any) bool {
	atomic.AddInt64(&c.totalChecks, 1)

	if condition {
		return true
	}

	atomic.AddInt64(&c.failedCheck, 1)

	message := fmt.Sprintf(format, args...)
	stack := getStack()

	v := Violation{
		Name:      name,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     stack,
	}

	c.mu.Lock()
	c.violations = append(c.violations, v)
	callback := c.onViolation
	c.mu.Unlock()

	metrics.Global().IncViolation(name)

	if callback != nil {
		callback(v)
	}

	// Log the violation
	fmt.Printf("[INVARIANT VIOLATION] %s: %s\n  at: %s\n", name, message, stack)

	if c.failFast {
		panic(fmt.Sprintf("INVARIANT VIOLATION [%s]: %s", name, message))
	}

	return false
}

// CheckNoPanic checks an invariant but never panics (for soft checks).
func (c *Checker) CheckNoPanic(name string, condition bool, format string, args ...any) bool {
	atomic.AddInt64(&c.totalChecks, 1)

	if condition {
		return true
	}

	atomic.AddInt64(&c.failedCheck, 1)

	message := fmt.Sprintf(format, args...)
	v := Violation{
		Name:      name,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     getStack(),
	}

	c.mu.Lock()
	c.violations = append(c.violations, v)
	c.mu.Unlock()

	metrics.Global().IncViolation(name)

	fmt.Printf("[INVARIANT VIOLATION] %s: %s\n", name, message)
	return false
}

// Violations returns all recorded violations.
func (c *Checker) Violations() []Violation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Violation, len(c.violations))
	copy(result, c.violations)
	return result
}

// Stats returns checker statistics.
func (c *Checker) Stats() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]any{
		"total_checks":    atomic.LoadInt64(&c.totalChecks),
		"failed_checks":   atomic.LoadInt64(&c.failedCheck),
		"violation_count": len(c.violations),
		"fail_fast":       c.failFast,
		"last_violation":  c.lastViolationTime(),
	}
}

func (c *Checker) lastViolationTime() string {
	if len(c.violations) == 0 {
		return ""
	}
	return c.violations[len(c.violations)-1].Timestamp.Format(time.RFC3339)
}

// Clear clears all recorded violations.
func (c *Checker) Clear() {
	c.mu.Lock()
	c.violations = c.violations[:0]
	c.mu.Unlock()
}

// ===== Common Invariant Checks =====
//
// These mirror the state-machine invariants from spec §6/§8 of the hasher:
// the remainder is always strictly bounded by the buffer size, length never
// decreases within a stream except across an explicit Init, and Final must
// not perturb the state it reads. cmd/spookyhash (run with
// --check-invariants) asserts these properties against live Hasher state
// rather than only against frozen test vectors, and pkg/consistent calls
// CheckRingStable on every membership change.

// CheckRemainderBound checks that a streaming hasher's staged-byte count
// never reaches the buffer size; reaching it means a block should already
// have been mixed and flushed.
func (c *Checker) CheckRemainderBound(remainder, bufSize int) bool {
	return c.Check(
		"REMAINDER_BOUND",
		remainder >= 0 && remainder < bufSize,
		"remainder %d out of [0, %d)", remainder, bufSize,
	)
}

// CheckLengthMonotonic checks that the total byte count absorbed by a
// Hasher never decreases between two observations taken without an
// intervening Init.
func (c *Checker) CheckLengthMonotonic(oldLen, newLen int64) bool {
	return c.Check(
		"LENGTH_MONOTONIC",
		newLen >= oldLen,
		"stream length decreased from %d to %d without Init", oldLen, newLen,
	)
}

// CheckFinalIdempotent checks that two consecutive Final calls on the same
// stream, with no Update in between, produced the same digest.
func (c *Checker) CheckFinalIdempotent(streamID string, h1a, h2a, h1b, h2b uint64) bool {
	return c.Check(
		"FINAL_IDEMPOTENT",
		h1a == h1b && h2a == h2b,
		"stream %s: repeated Final produced (%x,%x) then (%x,%x)",
		streamID, h1a, h2a, h1b, h2b,
	)
}

// CheckRingStable checks that adding or removing a node on a consistent-hash
// ring moved no more than an expected fraction of a sampled key set, catching a
// regression in the ring's virtual-node hash distribution.
func (c *Checker) CheckRingStable(moved, sampled int, maxFraction float64) bool {
	return c.Check(
		"RING_STABLE",
		float64(moved) <= maxFraction*float64(sampled),
		"%d/%d sampled keys moved, exceeding fraction %.2f",
		moved, sampled, maxFraction,
	)
}

func getStack() string {
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// ===== Global Instance (optional convenience) =====

var globalChecker *Checker
var globalOnce sync.Once

// Global returns the global invariant checker.
func Global() *Checker {
	globalOnce.Do(func() {
		globalChecker = New("", false)
	})
	return globalChecker
}

// InitGlobal initializes the global checker with specific settings.
func InitGlobal(nodeID string, failFast bool) {
	globalChecker = New(nodeID, failFast)
}
