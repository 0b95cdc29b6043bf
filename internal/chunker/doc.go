// Package chunker splits cleaned text into token-bounded chunks.
//
// Four strategies are supported, selected by ChunkingConfig.Method:
//
//   - paragraph: split on blank-line boundaries, greedily packed
//   - sentence: split after sentence-ending punctuation, greedily packed
//   - custom: split on a caller-supplied literal delimiter
//   - token_aware: word-level sliding window with optional token overlap
//
// The first three share a greedy combiner that joins parts with the
// method's separator until the next part would exceed the token budget.
// The budget is soft in one deliberate way: a single part that is
// itself over budget (one huge paragraph, one giant table row) is
// emitted as its own oversized chunk rather than split mid-unit.
//
// Chunking is pure computation over in-memory text. There are no
// retries and no recoverable mid-algorithm errors; the only failure
// mode is an invalid configuration, rejected by New before any work.
//
// Each chunk carries best-effort positions into the input text,
// recovered by searching near the previous chunk's end and degrading
// to a hint offset when cleaning has reflowed whitespace.
package chunker
