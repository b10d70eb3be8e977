// Package shifts holds the pure functions that derive display data from a
// list of shifts: durations, overlap hints, per-day grouping and area filters.
//
// Nothing here keeps state. Functions that depend on the current time take it
// as an argument so results are never cached across wall-clock changes, and
// local calendar days are taken in the location of that time.
package shifts
