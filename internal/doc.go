// Package internal holds the site server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, rendering, and routing
// - admin: the operator panel workflow
// - public: the visitor-facing upcoming-events projection
// - events, assets: event records and poster image storage
// - supabase: the remote backend client (auth, storage, table queries)
// - config, metrics, web: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
