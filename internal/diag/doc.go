// Package diag defines the findings model shared by the field, config loader
// and replay runner.
//
// A Diagnostic carries a Severity, a numeric Code with a stable ID
// (STA, CFG, SCR, FLD, OBS ranges), a short message and a primary Location.
// Notes add secondary locations and should add new context only.
//
// Producers emit through a Reporter: BagReporter collects into a Bag, which
// supports sorting, deduplication and line-per-entry formatting.
// DedupReporter suppresses repeats when a replay loops over the same input.
//
// Package diag does no IO and no colouring; the CLI renders bags.
package diag
