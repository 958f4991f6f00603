package config

import (
	"fmt"
	"os"
	"strconv"
)

type DynamoConfig struct {
	TableName string
	TtlHours  int
}

func GetDynamoConfig() (*DynamoConfig, error) {
	tableName := os.Getenv("DYNAMO_TABLE_NAME")
	if tableName == "" {
		return nil, fmt.Errorf("DYNAMO_TABLE_NAME must be set")
	}

	ttlHours := 24 * 30
	if raw := os.Getenv("DYNAMO_TTL_HOURS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("failed to parse DYNAMO_TTL_HOURS")
		}
		ttlHours = parsed
	}

	return &DynamoConfig{
		TableName: tableName,
		TtlHours:  ttlHours,
	}, nil
}
