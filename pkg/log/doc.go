/*
Package log provides structured logging for jobwatch built on zerolog.

A single global logger is initialized once at startup via Init and shared by
all packages. Console output (human-readable, stderr) is the default;
JSONOutput switches to machine-readable JSON for log shippers. Child loggers
carrying component, job_id or worker_id fields are created with the With*
helpers.

Diagnostic logging is deliberately separate from report rendering: reports
print to stdout, logs to stderr.
*/
package log
