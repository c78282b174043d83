// Package parse converts raw model text into Go values. Models frequently wrap
// JSON in markdown code fences or emit slightly broken JSON (single quotes,
// trailing commas, unquoted keys), so parsing falls back to fence stripping and
// automatic repair before giving up.
//
// The main entry point is the generic [As] function. [Repair] exposes the
// repair step alone for callers that want to keep the raw bytes.
package parse
