package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsAPI is the part of the SNS client the sender calls.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type awsSNSSender struct {
	topicARN string
	client   snsAPI
	log      Logger
}

func newAWSSNSSender(ctx context.Context, cfg *SNSConfig, log Logger) (queueSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("aws sns configuration is missing")
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.AWSCredentials)
	if err != nil {
		return nil, err
	}

	return &awsSNSSender{
		topicARN: cfg.TopicARN,
		client:   sns.NewFromConfig(awsCfg),
		log:      ensureLogger(log),
	}, nil
}

// Send publishes the JSON event to the topic, using the title as subject.
func (s *awsSNSSender) Send(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String(snsSubject(evt.Title)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"article_id": {DataType: aws.String("String"), StringValue: aws.String(evt.ArticleID)},
			"country":    {DataType: aws.String("String"), StringValue: aws.String(orUnknown(evt.Country))},
		},
	})
	if err != nil {
		s.log.ErrorObj("sns publisher send failed", "publisher_sns_error", map[string]any{
			"article_id": evt.ArticleID,
			"error":      err.Error(),
		})
		return fmt.Errorf("publish to sns: %w", err)
	}

	s.log.DebugObj("sns publisher delivered event", "publisher_sns_delivery", map[string]any{
		"article_id": evt.ArticleID,
		"message_id": aws.ToString(out.MessageId),
	})
	return nil
}

// loadAWSConfig builds an aws.Config with static credentials.
func loadAWSConfig(ctx context.Context, creds AWSCredentials) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx,
		awscfg.WithRegion(creds.Region),
		awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// snsSubject fits title into the 100 character SNS subject limit.
func snsSubject(title string) string {
	const maxSubject = 100
	if title == "" {
		return "headline"
	}
	r := []rune(title)
	if len(r) > maxSubject {
		return string(r[:maxSubject-3]) + "..."
	}
	return title
}

// SQS and SNS reject empty string attribute values.
func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
