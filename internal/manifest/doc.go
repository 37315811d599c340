// Package manifest parses repo-style XML manifests into ordered project records.
//
// A manifest declares remote elements with fetch URLs and project elements that
// reference them; the parser resolves each project against its remote to build
// the full source clone URL consumed by the import pipeline.
package manifest
