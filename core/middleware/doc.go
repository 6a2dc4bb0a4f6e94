// Package middleware groups the Fiber middleware used by the HTTP server.
//
//   - auth: API key check (X-API-Key header or Bearer token).
//   - rayid: assigns every request a RayID, stored in locals and echoed in
//     the X-Ray-ID response header.
//
// Register rayid first so that every later log line carries the RayID.
package middleware
