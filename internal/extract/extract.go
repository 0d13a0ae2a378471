// Package extract implements the deterministic extractors: regex/heuristic
// parsing that locates a date signal and binds the remaining text on the same
// logical unit (line, row) to it as the event name. No extractor here makes
// a network call.
//
// Extractors never error on "no candidates found" — an empty result is valid
// and triggers the AI-assisted fallback upstream. They error only on
// malformed input a converter cannot open.
package extract
