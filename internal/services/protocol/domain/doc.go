// Package domain holds the per-user partition model and the pure state
// transitions of the daily protocol: ritual progression, the daily reset and
// task list bookkeeping.
//
// Functions here never touch storage, clocks or the network. Callers pass the
// current instant and receive new values; the engine package serializes
// access per login and persists the results.
package domain
