// Package recommend orchestrates the recommendation pipeline: candidate
// ingestion, cross-source deduplication, blacklist and reject filtering, and
// balanced selection across sources. The engine owns no persisted state of
// its own; it coordinates the injected stores and is the only place where
// external availability outcomes mutate them.
package recommend
