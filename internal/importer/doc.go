// Package importer drives the GitLab to GitHub repository import pipeline.
//
// A run walks manifest project records in document order. For each record the
// pipeline ensures the destination repository exists, mirrors the source
// history into a temporary workspace, pushes every ref to the destination,
// and removes the workspace. Records fail independently: a broken project is
// recorded and the run moves on, while an authentication failure aborts the
// remainder of the run. A fixed delay separates consecutive projects.
package importer
