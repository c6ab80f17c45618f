/*
Package source defines the adapter contracts for the three external
collaborators jobwatch reads from: the log store, the message queue and the
compute registry.

Everything above this package consumes these interfaces; the AWS-backed
implementations live in the awscloud subpackage. Adapters are read-only
except for the two remediation operations (queue purge, instance terminate),
which are exposed here because they travel over the same connections.
*/
package source
