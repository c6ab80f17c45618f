/*
Package monitor orchestrates one observation pass: queue attributes, worker
listing and correlation, job-state reconstruction and health evaluation.

Passes are sequential and single-threaded on purpose; the data volumes are
small and consistent snapshot semantics matter more than query parallelism.
Every collaborator call is bounded by a timeout and never retried; a
failed call becomes a report-level issue, not a retry loop. The continuous
mode is a plain polling loop that honors cancellation between iterations.
*/
package monitor
