// Package integrity provides health checks of the infrastructure around the
// synchronization engine.
//
// # Checks Provided
//
//   - Schema: the node table has every column the graph store uses.
//   - Storage: the snapshot bucket exists and holds latest.json (supports ?fix=true).
//   - Drift: car parks of the source without a device, and devices without a car park.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/drift : Runs the drift check.
package integrity
