// Package file provides filesystem adapters: conversation sessions, the
// last-request snapshot read by the external scraper, and the per-search
// log archive served by /debug.
package file
