// Package models defines the core domain models for the imfoot settlement engine.
//
// # Models
//
//   - ContentItem: a sellable unit (meetup, tour recruitment post, tour report,
//     lecture, matchmaking event) published by a host
//   - Listing: the category-specific part of a ContentItem; one variant per
//     category, each carrying only the sale-count signal that category tracks
//   - SettlementRecord: a derived per-item view of gross revenue, commission
//     fee, net amount, payment direction and ledger status
//
// # Persisted vs derived state
//
// The only settlement state that is persisted is the SettlementFlag on an item
// (pending or settled) plus the timestamps of the invoice and settlement actions.
// SettlementRecords are recomputed from the item and the current commission rate
// on every query and are never stored.
//
// # Identifiers
//
// Items use UUID strings. Hosts are identified by an opaque host ID string
// (the item's author).
package models
