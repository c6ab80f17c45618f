/*
Package config loads jobwatch configuration from the environment.

The deployment scripts for the transcription pipeline maintain a .env file
with the queue URL, log group and region; jobwatch reads the same variables
so operators need no separate configuration. An optional YAML file can
override the health thresholds without touching the environment.
*/
package config
