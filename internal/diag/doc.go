// Package diag defines the diagnostic model shared by every compile stage.
//
// A Diagnostic carries a Severity, a Code, a short message, the primary
// source.Span and optional notes. Stages never print anything: they emit
// through a Reporter (usually a BagReporter writing into a Bag) and keep
// going, so a single compile reports as many independent problems as it can.
//
// Codes are grouped by stage and rendered with a stable prefix:
//
//   - SCN 1xxx: scanning
//   - PRS 2xxx: parsing
//   - CNV 3xxx: AST to IR conversion
//   - TRN 4xxx: transform passes
//   - EMT 5xxx: emission
//   - IO 6xxx: file loading
//
// Emission must check Bag.HasErrors before writing any output. The Bag keeps
// that answer correct even after its capacity was exhausted.
//
// Rendering (pretty, short and JSON) lives in internal/diagfmt.
package diag
