// Package snapshot archives the joined facility records of every successful
// refresh to object storage.
//
// Each refresh overwrites snapshots/latest.json. When Retain is positive a
// timestamped copy is also written under snapshots/history/ and the oldest
// copies beyond Retain are removed. Archive failures are reported to the
// caller, which only logs them.
package snapshot
