// Package pagination collects multi-page results from external service
// clients that expose cursor-based pagination.
//
// Upstream cursors are opaque and chain from page to page, so pages are
// fetched sequentially. The walk is bounded by MaxPages to keep a single
// aggregation call from consuming a whole rate-limit budget.
package pagination
