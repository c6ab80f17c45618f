package jobs

import (
	"sort"
	"time"

	"github.com/audiolith/jobwatch/pkg/types"
)

// Stuck returns the jobs still processing whose age meets or exceeds
// threshold as of now, ordered oldest first. Pure function of its inputs:
// callers supply now so detection is reproducible in tests and consistent
// across one report pass.
func Stuck(records map[string]*types.JobRecord, now time.Time, threshold time.Duration) []types.StuckJob {
	var stuck []types.StuckJob
	for _, r := range records {
		if r.Status != types.JobProcessing {
			continue
		}
		elapsed := r.Elapsed(now)
		if elapsed >= threshold {
			stuck = append(stuck, types.StuckJob{Job: r, Elapsed: elapsed})
		}
	}
	sort.Slice(stuck, func(i, j int) bool {
		if stuck[i].Elapsed == stuck[j].Elapsed {
			return stuck[i].Job.JobID < stuck[j].Job.JobID
		}
		return stuck[i].Elapsed > stuck[j].Elapsed
	})
	return stuck
}
