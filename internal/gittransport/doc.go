// Package gittransport moves repository history between hosts by shelling out
// to the git binary.
//
// Transfers run as mirror operations: a bare mirror clone of the source
// followed by a mirror push to the destination, so every branch, tag, and ref
// arrives intact. Destination URLs embed the access token and are redacted
// before they can appear in errors or logs.
package gittransport
