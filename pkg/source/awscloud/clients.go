package awscloud

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/audiolith/jobwatch/pkg/config"
)

// Clients bundles the three AWS-backed collaborator adapters sharing one
// credential chain.
type Clients struct {
	Logs     *LogStore
	Queue    *Queue
	Registry *Registry
}

// New resolves the default AWS credential chain for the configured region
// and builds adapters for the log group, queue and worker tag filter named
// in cfg.
func New(ctx context.Context, cfg *config.Config) (*Clients, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &Clients{
		Logs: &LogStore{
			client:   cloudwatchlogs.NewFromConfig(awsCfg),
			logGroup: cfg.LogGroup,
		},
		Queue: &Queue{
			client:   sqs.NewFromConfig(awsCfg),
			queueURL: cfg.QueueURL,
		},
		Registry: &Registry{
			client:   ec2.NewFromConfig(awsCfg),
			tagKey:   cfg.WorkerTagKey,
			tagValue: cfg.WorkerTagValue,
		},
	}, nil
}
