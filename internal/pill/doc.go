// Package pill orchestrates the pill counting pipeline: one photograph and
// one configuration in, one count and annotated image out.
//
// The pipeline is five sequential stages, each a pure function from image
// (plus parameters) to image or geometry:
//
//	region selection -> channel normalization -> binarization ->
//	separation of touching pills -> candidate filtering & reporting
//
// Package pill owns the configuration surface (Config, validated as a
// whole before any stage runs) and the result types; the stage
// implementations live in internal/imaging and internal/detection.
//
// # Statelessness
//
// An invocation allocates every buffer it needs and releases them when the
// Result is returned. There is no cross-run cache, no global tuning state,
// and no shared mutable memory, so any number of invocations may run
// concurrently in a server embedding.
//
// # Error Model
//
// Three outcomes are distinguished deliberately:
//
//   - *imaging.DecodeError: the input bytes are not an image; fatal,
//     nothing partial is returned
//   - *ConfigError: a tuning value is out of its domain; rejected before
//     processing begins
//   - a zero count: a valid Result, logged as degenerate, never an error
//
// Retrying a failed invocation without changing input or configuration is
// pointless: the pipeline is deterministic.
package pill
