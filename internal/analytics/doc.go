// Package analytics is the read path: stored prices joined with their
// references, and the yield table derived from them.
package analytics
