// Package server holds the HTTP server configuration.
//
// The start command reads Config to bind the listener, size request bodies
// and configure the auth middleware.
package server
