/*
Package remediate implements the two operator write actions: terminating a
job's worker and purging the queue.

Both are destructive and fail closed without explicit confirmation. Neither
is part of the read path; they share the source adapters but are invoked
only on demand.
*/
package remediate
