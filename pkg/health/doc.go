/*
Package health combines queue depth, worker presence and stuck-job counts
into a single pass/fail verdict with a human-readable issue list.

Rules are independent and non-exclusive; any number can fire in one pass.
The evaluator is a pure function of its inputs and an explicit "now", which
keeps every scenario reproducible in tests. Partial collaborator failure
degrades to an explicit "check failed" issue for that section rather than a
silently healthy report.
*/
package health
