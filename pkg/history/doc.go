/*
Package history persists continuous-mode health snapshots in a local BoltDB
file.

The read path of the monitor owns no state; this store is strictly a
convenience trail of past verdicts for the `history` command and is never
consulted when computing a fresh report.
*/
package history
