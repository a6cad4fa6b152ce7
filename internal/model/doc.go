// Package model defines the data structures shared by the crawler, the
// report writers and the CLI.
//
// This package contains the following main types:
//   - PageRecord: The metadata and contacts collected from one fetched page
//   - ResultSet: The append-only collection of records written at the end of a run
//   - Summary: A condensed view of a ResultSet for human-readable output
//
// Models live in their own package so that crawler and report can both use
// them without importing each other. All types serialize to JSON.
package model
