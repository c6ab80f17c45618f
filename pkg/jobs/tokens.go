package jobs

import (
	"strings"
)

// Token keys embedded in worker log messages.
const (
	TokenJobID    = "job_id"
	TokenWorkerID = "worker_id"
)

// tokenTerminators end a token value. Everything between the key separator
// and the first terminator is the value.
const tokenTerminators = " \t\n\r,}"

// Token extracts the value of a key=value (or key:value) token from a free
// text log message. The value runs from the character after the separator
// to the next whitespace, comma or closing brace. The second return is
// false when the key is absent or its value is empty; callers treat such
// events as noise and skip them.
func Token(message, key string) (string, bool) {
	for _, sep := range []string{"=", ":"} {
		marker := key + sep
		idx := strings.Index(message, marker)
		if idx < 0 {
			continue
		}
		rest := message[idx+len(marker):]
		if end := strings.IndexAny(rest, tokenTerminators); end >= 0 {
			rest = rest[:end]
		}
		if rest != "" {
			return rest, true
		}
	}
	return "", false
}

// JobID extracts the job_id token from a message.
func JobID(message string) (string, bool) {
	return Token(message, TokenJobID)
}

// WorkerID extracts the worker_id token from a message.
func WorkerID(message string) (string, bool) {
	return Token(message, TokenWorkerID)
}
