// Package server exposes the read path, on-demand updates and metrics over
// HTTP using gin.
//
// Routes:
//
//	GET  /health
//	GET  /v1/prices/:date
//	GET  /v1/yields/:date
//	POST /v1/update/:date
//	GET  /metrics
//
// Dates are YYYY-MM-DD.
package server
