// Package content holds the static curriculum: radicals, HSK characters,
// and the staged learning path. The data ships embedded in the binary and
// is read-only at runtime. Scheduling never depends on this package; it is
// consumed by the lesson tracker for item ordering and by API handlers for
// display payloads.
package content
