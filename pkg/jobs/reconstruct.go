package jobs

import (
	"sort"
	"strings"

	"github.com/audiolith/jobwatch/pkg/types"
)

// LifecyclePattern is the log store filter that narrows a query to
// job-lifecycle marker lines. CloudWatch filter syntax: ?term matches any
// line containing the term.
const LifecyclePattern = "?START ?SUCCESS ?COMPLETE ?FAILED ?ERROR"

// eventKind classifies a lifecycle log line.
type eventKind int

const (
	kindNone eventKind = iota
	kindStart
	kindComplete
	kindFailed
)

// kindOf classifies a message by its lifecycle marker. Terminal markers are
// checked before start markers: "STARTING" contains "START", and a line
// that reports an error about a started job must count as the terminal
// signal.
func kindOf(message string) eventKind {
	upper := strings.ToUpper(message)
	switch {
	case strings.Contains(upper, "FAILED") || strings.Contains(upper, "ERROR"):
		return kindFailed
	case strings.Contains(upper, "SUCCESS") || strings.Contains(upper, "COMPLETE"):
		return kindComplete
	case strings.Contains(upper, "START"):
		return kindStart
	default:
		return kindNone
	}
}

// jobState carries per-job bookkeeping that doesn't belong in the public
// record: whether a real START anchored the record, and the timestamp of
// the terminal event currently applied.
type jobState struct {
	record      *types.JobRecord
	anchored    bool  // a START event set StartedAt
	hasTerminal bool  // a terminal event has been applied
	terminalAt  int64 // UnixMilli of the applied terminal event
}

// Reconstruct folds an unordered batch of lifecycle events into one
// JobRecord per distinct job id.
//
// START events anchor a record; the first one seen wins and later STARTs
// for the same id are ignored. Terminal events (complete/failed) resolve by
// last-write-wins on the event timestamp, not arrival order, so
// out-of-order delivery from the log store cannot flip a job's final
// status. A terminal event with no prior START synthesizes a record with
// StartedAt equal to CompletedAt rather than dropping the event; discarding
// terminal signals would hide real failures. If the matching START shows up
// later in the batch, it replaces the synthesized anchor.
//
// Events without an extractable job_id token contribute nothing.
func Reconstruct(events []types.LogEvent) map[string]*types.JobRecord {
	states := make(map[string]*jobState)

	for _, ev := range events {
		kind := kindOf(ev.Message)
		if kind == kindNone {
			continue
		}
		id, ok := JobID(ev.Message)
		if !ok {
			continue
		}

		st := states[id]

		switch kind {
		case kindStart:
			if st == nil {
				states[id] = &jobState{
					record: &types.JobRecord{
						JobID:     id,
						Status:    types.JobProcessing,
						StartedAt: ev.Timestamp,
					},
					anchored: true,
				}
			} else if !st.anchored {
				// Record was synthesized from an orphan terminal
				// event; the real START supplies the anchor.
				st.record.StartedAt = ev.Timestamp
				st.anchored = true
			}

		case kindComplete, kindFailed:
			status := types.JobCompleted
			if kind == kindFailed {
				status = types.JobFailed
			}

			if st == nil {
				states[id] = &jobState{
					record: &types.JobRecord{
						JobID:       id,
						Status:      status,
						StartedAt:   ev.Timestamp,
						CompletedAt: ev.Timestamp,
					},
					hasTerminal: true,
					terminalAt:  ev.Timestamp.UnixMilli(),
				}
				continue
			}

			if !st.hasTerminal || ev.Timestamp.UnixMilli() > st.terminalAt {
				st.record.Status = status
				st.record.CompletedAt = ev.Timestamp
				st.hasTerminal = true
				st.terminalAt = ev.Timestamp.UnixMilli()
				if !st.anchored {
					st.record.StartedAt = ev.Timestamp
				}
			}
		}
	}

	records := make(map[string]*types.JobRecord, len(states))
	for id, st := range states {
		records[id] = st.record
	}
	return records
}

// Sorted returns the records ordered most recently started first.
func Sorted(records map[string]*types.JobRecord) []*types.JobRecord {
	out := make([]*types.JobRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].JobID < out[j].JobID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}
