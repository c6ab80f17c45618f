package awscloud

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwltypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/audiolith/jobwatch/pkg/source"
	"github.com/audiolith/jobwatch/pkg/types"
)

// LogStore implements source.LogStore on top of CloudWatch Logs
// FilterLogEvents.
type LogStore struct {
	client   *cloudwatchlogs.Client
	logGroup string
}

// Query fetches all events in the window matching pattern, following
// pagination to exhaustion. A missing log group returns an empty slice:
// workers that have not started yet have created no streams.
func (s *LogStore) Query(ctx context.Context, window source.Window, pattern string) ([]types.LogEvent, error) {
	end := window.End
	if end.IsZero() {
		end = time.Now()
	}

	input := &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: aws.String(s.logGroup),
		StartTime:    aws.Int64(window.Start.UnixMilli()),
		EndTime:      aws.Int64(end.UnixMilli()),
	}
	if pattern != "" {
		input.FilterPattern = aws.String(pattern)
	}

	var events []types.LogEvent
	for {
		out, err := s.client.FilterLogEvents(ctx, input)
		if err != nil {
			var notFound *cwltypes.ResourceNotFoundException
			if errors.As(err, &notFound) {
				return nil, nil
			}
			return nil, source.Unavailable(source.CollaboratorLogStore, err)
		}

		for _, ev := range out.Events {
			events = append(events, types.LogEvent{
				Timestamp: time.UnixMilli(aws.ToInt64(ev.Timestamp)),
				Message:   aws.ToString(ev.Message),
				Stream:    aws.ToString(ev.LogStreamName),
			})
		}

		if out.NextToken == nil {
			return events, nil
		}
		input.NextToken = out.NextToken
	}
}
