/*
Package workers correlates compute instances with their recent log
activity.

The compute registry owns worker identity and lifecycle state; this package
only derives a per-worker last-activity timestamp from a bounded log window
so operators can tell a quiet worker from a missing one.
*/
package workers
