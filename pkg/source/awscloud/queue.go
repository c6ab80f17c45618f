package awscloud

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/audiolith/jobwatch/pkg/source"
	"github.com/audiolith/jobwatch/pkg/types"
)

// Queue implements source.MessageQueue on top of SQS.
type Queue struct {
	client   *sqs.Client
	queueURL string
}

// Attributes returns the queue's approximate visible and in-flight counts
// and whether a redrive (dead-letter) policy is configured.
func (q *Queue) Attributes(ctx context.Context) (types.QueueStats, error) {
	out, err := q.client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl: aws.String(q.queueURL),
		AttributeNames: []sqstypes.QueueAttributeName{
			sqstypes.QueueAttributeNameApproximateNumberOfMessages,
			sqstypes.QueueAttributeNameApproximateNumberOfMessagesNotVisible,
			sqstypes.QueueAttributeNameRedrivePolicy,
		},
	})
	if err != nil {
		return types.QueueStats{}, source.Unavailable(source.CollaboratorMessageQueue, err)
	}

	attrs := out.Attributes
	visible, _ := strconv.Atoi(attrs[string(sqstypes.QueueAttributeNameApproximateNumberOfMessages)])
	inflight, _ := strconv.Atoi(attrs[string(sqstypes.QueueAttributeNameApproximateNumberOfMessagesNotVisible)])
	_, hasDLQ := attrs[string(sqstypes.QueueAttributeNameRedrivePolicy)]

	return types.QueueStats{
		Visible:              visible,
		InFlight:             inflight,
		DeadLetterConfigured: hasDLQ,
	}, nil
}

// Purge clears all messages from the queue. SQS returns no receipt, so the
// cleared count is the approximate total sampled immediately before the
// purge call.
func (q *Queue) Purge(ctx context.Context) (int, error) {
	stats, err := q.Attributes(ctx)
	if err != nil {
		return 0, err
	}

	_, err = q.client.PurgeQueue(ctx, &sqs.PurgeQueueInput{
		QueueUrl: aws.String(q.queueURL),
	})
	if err != nil {
		return 0, source.Unavailable(source.CollaboratorMessageQueue, err)
	}

	return stats.Visible + stats.InFlight, nil
}
