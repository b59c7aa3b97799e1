// Package server exposes the engine's HTTP surface.
//
// Routes:
//
//	POST /api/chat    — SSE stream of answer fragments, then a sources event
//	GET  /api/series  — concept intensity time series as JSON
//	GET  /api/sources — distinct source identifiers in the corpus
//
// Engine errors map onto status codes: invalid input 400, incomplete
// expansion 422, provider or store unavailability 502, everything else 500.
package server
