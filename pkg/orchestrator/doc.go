// Package orchestrator resolves the theme and renderer for a page and renders
// it, so front-ends share one entry point for output.
package orchestrator
