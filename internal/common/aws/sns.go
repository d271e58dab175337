// internal/common/aws/sns.go
package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// CrisisAlerter publishes crisis-state diagnostics to an SNS topic.
type CrisisAlerter struct {
	client   SNSService
	topicARN string
}

func NewCrisisAlerter(ctx context.Context, region, topicARN string) (*CrisisAlerter, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewCrisisAlerterWithClient(sns.NewFromConfig(cfg), topicARN), nil
}

func NewCrisisAlerterWithClient(client SNSService, topicARN string) *CrisisAlerter {
	return &CrisisAlerter{client: client, topicARN: topicARN}
}

// Alert publishes message with the state as a filterable attribute.
func (a *CrisisAlerter) Alert(ctx context.Context, state, subject, message string) (string, error) {
	out, err := a.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(a.topicARN),
		Subject:  awssdk.String(truncateSubject(subject)),
		Message:  awssdk.String(message),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"state": {DataType: awssdk.String("String"), StringValue: awssdk.String(state)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("sns publish to %s: %w", a.topicARN, err)
	}
	return awssdk.ToString(out.MessageId), nil
}

// SNS rejects subjects of 100 characters or more.
func truncateSubject(s string) string {
	r := []rune(s)
	if len(r) < 100 {
		return s
	}
	return string(r[:99])
}
