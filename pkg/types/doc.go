/*
Package types defines the core data structures used throughout jobwatch.

This package contains the fundamental types of the monitoring domain model:
raw log events, reconstructed job records, worker records, queue statistics,
health reports and persisted snapshots. All other packages depend on it and
it depends on nothing but the standard library.

Job and worker records are derived views, recomputed from collaborator state
on every query. Nothing in this package is persisted except Snapshot, which
the history store serializes as JSON.
*/
package types
