package adapters

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/config"
)

type seenItem struct {
	ID  string `dynamodbav:"id"`
	TTL int64  `dynamodbav:"ttl"`
}

// dynamoSeenCache persists the dedup set across invocations so a restart
// never narrates the same attachment twice.
type dynamoSeenCache struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

func NewDynamoSeenCache(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB, dynamoConfig *config.DynamoConfig) outbound.SeenCachePort {
	return &dynamoSeenCache{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (c *dynamoSeenCache) Seen(ctx context.Context, key string) (bool, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(c.dynamoConfig.TableName),
		Key: map[string]*dynamodb.AttributeValue{
			"id": {S: aws.String(key)},
		},
	}

	result, err := c.dynamoSvc.GetItemWithContext(ctx, input)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to look up seen item", map[string]interface{}{
			"key": key,
		})
		return false, err
	}

	return len(result.Item) > 0, nil
}

func (c *dynamoSeenCache) MarkSeen(ctx context.Context, key string) error {
	item := seenItem{
		ID:  key,
		TTL: time.Now().Add(time.Duration(c.dynamoConfig.TtlHours) * time.Hour).Unix(),
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to marshal seen item", map[string]interface{}{
			"key": key,
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(c.dynamoConfig.TableName),
	}

	_, err = c.dynamoSvc.PutItemWithContext(ctx, input)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to save seen item", map[string]interface{}{
			"key": key,
		})
	}
	return err
}
