// Package parking exposes the synchronization engine over HTTP.
//
// # HTTP Endpoints
//
//   - GET  /health           : liveness and controller state.
//   - GET  /parking/status   : controller status and last refresh report.
//   - GET  /parking/devices  : persisted devices with current endpoint values.
//   - POST /parking/refresh  : run a refresh cycle now.
//   - PUT  /parking/interval : change the pull interval ({"interval_ms": 30000}).
//   - GET  /parking/snapshot : last archived snapshot, 404 when storage is disabled.
package parking
