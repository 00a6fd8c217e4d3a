// Package cloudwatch publishes data point batches to AWS CloudWatch.
package cloudwatch

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/grafana/cloudmetrics/schema"
)

// api is the slice of the CloudWatch client we call. Lets tests swap in a fake.
type api interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

type Client struct {
	cw api
}

// New resolves credentials and region from the environment the usual AWS
// way (env vars, shared config, instance metadata).
func New(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("cloudwatch: cannot load AWS config: %w", err)
	}
	return NewFromConfig(cfg), nil
}

// NewFromConfig wraps an already-resolved AWS config.
func NewFromConfig(cfg aws.Config) *Client {
	return &Client{cw: cloudwatch.NewFromConfig(cfg)}
}

func (c *Client) PutMetricData(ctx context.Context, namespace string, points []schema.Point) error {
	if len(points) == 0 {
		return nil
	}
	data := make([]types.MetricDatum, 0, len(points))
	for _, p := range points {
		data = append(data, datum(p))
	}
	_, err := c.cw.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(namespace),
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("cloudwatch: PutMetricData %s: %w", namespace, err)
	}
	return nil
}

func (c *Client) Close() error {
	return nil
}

func datum(p schema.Point) types.MetricDatum {
	d := types.MetricDatum{
		MetricName: aws.String(p.Name),
		Timestamp:  aws.Time(p.Timestamp),
		Unit:       types.StandardUnit(p.Unit),
	}
	for _, dim := range p.Dimensions {
		d.Dimensions = append(d.Dimensions, types.Dimension{
			Name:  aws.String(dim.Name),
			Value: aws.String(dim.Value),
		})
	}
	if p.Stats != nil {
		d.StatisticValues = &types.StatisticSet{
			SampleCount: aws.Float64(p.Stats.SampleCount),
			Sum:         aws.Float64(p.Stats.Sum),
			Minimum:     aws.Float64(p.Stats.Minimum),
			Maximum:     aws.Float64(p.Stats.Maximum),
		}
	} else {
		d.Value = aws.Float64(p.Value)
	}
	return d
}
