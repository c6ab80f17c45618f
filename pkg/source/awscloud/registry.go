package awscloud

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"

	"github.com/audiolith/jobwatch/pkg/source"
	"github.com/audiolith/jobwatch/pkg/types"
)

// Registry implements source.ComputeRegistry on top of EC2.
type Registry struct {
	client   *ec2.Client
	tagKey   string
	tagValue string
}

// workerStates are the instance lifecycle states a worker can usefully be
// observed in. Terminated and stopped instances are invisible to the
// monitor on purpose.
var workerStates = []string{"running", "pending", "shutting-down"}

// ListWorkers returns all instances carrying the worker tag in a live
// state.
func (r *Registry) ListWorkers(ctx context.Context) ([]types.WorkerRecord, error) {
	input := &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("tag:" + r.tagKey), Values: []string{r.tagValue}},
			{Name: aws.String("instance-state-name"), Values: workerStates},
		},
	}

	var workers []types.WorkerRecord
	for {
		out, err := r.client.DescribeInstances(ctx, input)
		if err != nil {
			return nil, source.Unavailable(source.CollaboratorComputeRegistry, err)
		}

		for _, res := range out.Reservations {
			for _, inst := range res.Instances {
				workers = append(workers, workerRecord(inst))
			}
		}

		if out.NextToken == nil {
			return workers, nil
		}
		input.NextToken = out.NextToken
	}
}

// Terminate requests termination of the given instance. Terminating an
// instance that is already terminated, or that EC2 has since forgotten,
// is treated as success.
func (r *Registry) Terminate(ctx context.Context, instanceID string) error {
	_, err := r.client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "InvalidInstanceID.NotFound" {
			return nil
		}
		return source.Unavailable(source.CollaboratorComputeRegistry, err)
	}
	return nil
}

func workerRecord(inst ec2types.Instance) types.WorkerRecord {
	w := types.WorkerRecord{
		InstanceID:   aws.ToString(inst.InstanceId),
		InstanceType: string(inst.InstanceType),
	}
	if inst.State != nil {
		w.State = types.WorkerState(inst.State.Name)
	}
	if inst.LaunchTime != nil {
		w.LaunchTime = *inst.LaunchTime
	}
	for _, tag := range inst.Tags {
		if aws.ToString(tag.Key) == "Name" {
			w.Name = aws.ToString(tag.Value)
			break
		}
	}
	return w
}
