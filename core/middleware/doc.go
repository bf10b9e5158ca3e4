// Package middleware groups the HTTP middleware of the Fiber application.
//
//   - auth: API key validation (X-API-Key header or api_key query parameter).
//   - rayid: assigns a request id (ray id), stored in Locals and echoed in the
//     X-Ray-ID response header, so log lines of one request can be joined.
package middleware
