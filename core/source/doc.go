// Package source is the adapter to the upstream car park guidance API.
//
// Two read-only resources are consumed:
//
//   - PGS_GetPublicCarparksStallCount: aggregate counts per car park and level.
//   - PGS_GetStallsCurrentState: the state of every stall, grouped by car park and level.
//
// Calls are plain GETs against a configured base URL. Transport, status and
// decoding failures are returned to the caller; nothing is retried here. A
// circuit breaker makes repeated failures fail fast while the upstream is down.
package source
