// Package pg provides the Postgres plumbing shared by storage packages:
// pgxpool connection setup with startup retries, a health probe, goose
// migrations over the stdlib bridge, and SQLSTATE helper predicates.
package pg
