package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSPublisher is a minimal interface for publishing messages to SNS.
type SNSPublisher interface {
	Publish(ctx context.Context, topicArn string, subject string, message []byte) (string, error)
}

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client snsAPI
}

func NewSNSClient(cfg sdkaws.Config) *SNSClient {
	return &SNSClient{client: sns.NewFromConfig(cfg)}
}

// Publish publishes a raw message to the given SNS topic ARN and returns the
// message id.
func (s *SNSClient) Publish(ctx context.Context, topicArn string, subject string, message []byte) (string, error) {
	if topicArn == "" {
		return "", fmt.Errorf("empty topicArn")
	}
	input := &sns.PublishInput{
		TopicArn: sdkaws.String(topicArn),
		Message:  sdkaws.String(string(message)),
	}
	if subject != "" {
		// SNS caps subjects at 100 characters.
		if len(subject) > 100 {
			subject = subject[:100]
		}
		input.Subject = sdkaws.String(subject)
	}

	out, err := s.client.Publish(ctx, input)
	if err != nil {
		return "", fmt.Errorf("sns publish failed for topic %s: %w", topicArn, err)
	}
	return sdkaws.ToString(out.MessageId), nil
}
