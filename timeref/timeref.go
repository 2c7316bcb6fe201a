// Package timeref reconstructs wall-clock time for a decode session: it
// tracks the latest time-synchronization anchor and compensates for the
// device's 32-bit millisecond counter wrapping incorrectly.
package timeref

// Anchor is a time-synchronization point: an affine mapping from a
// (wrap-corrected) device system-time in milliseconds to an absolute UTC
// timestamp in seconds.
type Anchor struct {
	// CorrectedSystemTime is the wrap-corrected device ms reading at the
	// moment this anchor was taken.
	CorrectedSystemTime int64
	// UTC is the absolute UTC seconds value at CorrectedSystemTime.
	UTC uint32
}

// GetUTC maps a wrap-corrected device ms reading to an absolute UTC
// timestamp (fractional seconds) using this anchor.
func (a *Anchor) GetUTC(correctedSystemTime int64) float64 {
	return float64(a.UTC) + float64(correctedSystemTime-a.CorrectedSystemTime)/1000.0
}

// wrapPeriodMs is round(2^32 / 1000), the millisecond correction applied
// per detected wrap of the device's 32-bit counter.
const wrapPeriodMs = 4294967 // round(2^32/1000) = round(4294967.296)

// Tracker compensates for the producer's 32-bit millisecond counter
// wrapping: each time a new reading is lower than the previous one, a
// wrap is assumed and a fixed offset is added to keep the corrected
// stream monotonic.
type Tracker struct {
	prevSystemTime uint32
	highTime       int64
}

// NewTracker creates a tracker in its initial state (prevSystemTime=0,
// highTime=0).
func NewTracker() *Tracker {
	return &Tracker{}
}

// CheckTime must be called for every observed raw device ms reading, in
// the order they are encountered (time entries and data entries alike).
// It returns the wrap-corrected ms value.
func (t *Tracker) CheckTime(systemTime uint32) int64 {
	if systemTime < t.prevSystemTime {
		t.highTime++
	}
	t.prevSystemTime = systemTime

	return int64(systemTime) + t.highTime*wrapPeriodMs
}

// HighTime returns the current wrap counter, for diagnostics and
// persistence.
func (t *Tracker) HighTime() int64 {
	return t.highTime
}

// PrevSystemTime returns the last raw device ms reading observed, for
// persistence.
func (t *Tracker) PrevSystemTime() uint32 {
	return t.prevSystemTime
}

// Reset clears wrap-compensation state. Called on every boot entry (spec
// §4.5).
func (t *Tracker) Reset() {
	t.prevSystemTime = 0
	t.highTime = 0
}

// Restore re-establishes tracker state from a persisted snapshot (spec
// §4.6 "Persistable context").
func (t *Tracker) Restore(prevSystemTime uint32, highTime int64) {
	t.prevSystemTime = prevSystemTime
	t.highTime = highTime
}
