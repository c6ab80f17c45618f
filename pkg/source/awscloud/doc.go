/*
Package awscloud implements the source adapter contracts against AWS:
CloudWatch Logs as the log store, SQS as the message queue and EC2 as the
compute registry.

This is the only package that imports the AWS SDK. All failures to reach a
service are wrapped as source.CollaboratorError so the layers above can
degrade per collaborator instead of aborting.
*/
package awscloud
