package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dreschagin/fleet-maintenance/internal/application/port"
	"github.com/dreschagin/fleet-maintenance/internal/domain/repository"
)

const (
	attrPK          = "PK"
	attrSK          = "SK"
	attrScope       = "scope"
	attrGeneratedAt = "generated_at"
	attrAlertCount  = "alert_count"
	attrAlerts      = "alerts"

	latestSK = "LATEST"
)

type Config struct {
	TableName       string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	StrongReads     bool
}

// AlertSnapshotRepository keeps the latest alert snapshot per scope in a
// single-item DynamoDB layout: each refresh overwrites PK=SCOPE#<scope>,
// SK=LATEST. History lives in NATS, not here.
type AlertSnapshotRepository struct {
	client      *dynamodb.Client
	tableName   string
	strongReads bool
}

func NewAlertSnapshotRepository(ctx context.Context, cfg Config) (*AlertSnapshotRepository, error) {
	if strings.TrimSpace(cfg.TableName) == "" {
		return nil, fmt.Errorf("dynamodb table name is required")
	}

	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = "us-east-1"
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	accessKeyID := strings.TrimSpace(cfg.AccessKeyID)
	secretAccessKey := strings.TrimSpace(cfg.SecretAccessKey)
	if accessKeyID != "" || secretAccessKey != "" {
		if accessKeyID == "" || secretAccessKey == "" {
			return nil, fmt.Errorf("both dynamodb access key id and secret access key are required for static credentials")
		}
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config for dynamodb: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(options *dynamodb.Options) {
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			options.BaseEndpoint = &endpoint
		}
	})

	return &AlertSnapshotRepository{
		client:      client,
		tableName:   strings.TrimSpace(cfg.TableName),
		strongReads: cfg.StrongReads,
	}, nil
}

// PutSnapshot stores (overwrites) the snapshot for its scope.
func (r *AlertSnapshotRepository) PutSnapshot(ctx context.Context, snapshot port.FleetAlertSnapshot) error {
	scope := strings.TrimSpace(snapshot.Scope)
	if scope == "" {
		return fmt.Errorf("snapshot scope is required")
	}

	generatedAt := snapshot.GeneratedAt.UTC()
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	alertsJSON, err := json.Marshal(snapshot.Alerts)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot alerts: %w", err)
	}

	item := map[string]types.AttributeValue{
		attrPK:          &types.AttributeValueMemberS{Value: buildPK(scope)},
		attrSK:          &types.AttributeValueMemberS{Value: latestSK},
		attrScope:       &types.AttributeValueMemberS{Value: scope},
		attrGeneratedAt: &types.AttributeValueMemberN{Value: strconv.FormatInt(generatedAt.UnixMilli(), 10)},
		attrAlertCount:  &types.AttributeValueMemberN{Value: strconv.Itoa(len(snapshot.Alerts))},
		attrAlerts:      &types.AttributeValueMemberS{Value: string(alertsJSON)},
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put snapshot failed: %w", err)
	}

	return nil
}

// GetSnapshot loads the latest snapshot for a scope.
func (r *AlertSnapshotRepository) GetSnapshot(ctx context.Context, scope string) (*port.FleetAlertSnapshot, error) {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return nil, fmt.Errorf("snapshot scope is required")
	}

	output, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.tableName,
		Key: map[string]types.AttributeValue{
			attrPK: &types.AttributeValueMemberS{Value: buildPK(scope)},
			attrSK: &types.AttributeValueMemberS{Value: latestSK},
		},
		ConsistentRead: &r.strongReads,
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get snapshot failed: %w", err)
	}
	if len(output.Item) == 0 {
		return nil, fmt.Errorf("snapshot for scope %s: %w", scope, repository.ErrNotFound)
	}

	return fromItem(output.Item)
}

func fromItem(item map[string]types.AttributeValue) (*port.FleetAlertSnapshot, error) {
	scope, err := attrStringValue(item, attrScope)
	if err != nil {
		return nil, err
	}

	generatedAtMS, err := attrInt64Value(item, attrGeneratedAt)
	if err != nil {
		return nil, err
	}

	alertsJSON, err := attrStringValue(item, attrAlerts)
	if err != nil {
		return nil, err
	}

	var alerts []port.AlertSnapshotRecord
	if err := json.Unmarshal([]byte(alertsJSON), &alerts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot alerts: %w", err)
	}

	return &port.FleetAlertSnapshot{
		Scope:       scope,
		GeneratedAt: time.UnixMilli(generatedAtMS).UTC(),
		AlertCount:  len(alerts),
		Alerts:      alerts,
	}, nil
}

func buildPK(scope string) string {
	return "SCOPE#" + scope
}

func attrStringValue(item map[string]types.AttributeValue, name string) (string, error) {
	raw, ok := item[name]
	if !ok {
		return "", fmt.Errorf("missing attribute %s", name)
	}
	value, ok := raw.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("invalid attribute %s", name)
	}
	return value.Value, nil
}

func attrInt64Value(item map[string]types.AttributeValue, name string) (int64, error) {
	raw, ok := item[name]
	if !ok {
		return 0, fmt.Errorf("missing attribute %s", name)
	}
	value, ok := raw.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("invalid attribute %s", name)
	}
	parsed, err := strconv.ParseInt(value.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid attribute %s: %w", name, err)
	}
	return parsed, nil
}
