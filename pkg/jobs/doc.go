/*
Package jobs reconstructs per-job state from unstructured worker log events.

Workers emit free-text lifecycle lines carrying job_id=... and worker_id=...
tokens. This package owns that token grammar, folds an unordered event batch
into one JobRecord per job id (tolerating out-of-order delivery and
conflicting terminal events via last-write-wins on event timestamps), and
classifies long-running processing jobs as stuck.

Any change to the worker log format that alters the lifecycle markers or
the token grammar is a breaking change to this package.
*/
package jobs
