package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pulse-app/pulse-push/internal/domain"
)

// UserIndexName is the GSI keyed by user_id.
const UserIndexName = "user-id-index"

// DeviceRepo provides typed DynamoDB operations for the device registry.
type DeviceRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDeviceRepo(client *dynamodb.Client, tableName string) *DeviceRepo {
	return &DeviceRepo{client: client, tableName: tableName}
}

// table returns the configured table name. The table identity comes from
// the environment and has no default, so every operation checks it.
func (r *DeviceRepo) table() (string, error) {
	if r.tableName == "" {
		return "", domain.ErrTableNotConfigured
	}
	return r.tableName, nil
}

// Put writes the full registration item, replacing any prior item with
// the same device_id.
func (r *DeviceRepo) Put(ctx context.Context, d *domain.Device) error {
	table, err := r.table()
	if err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal device: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	return err
}

func (r *DeviceRepo) Get(ctx context.Context, deviceID string) (*domain.Device, error) {
	table, err := r.table()
	if err != nil {
		return nil, err
	}
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"device_id": &types.AttributeValueMemberS{Value: deviceID},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("device %s: %w", deviceID, domain.ErrNotFound)
	}
	var d domain.Device
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByUser returns every registration for userID via the user-id GSI.
func (r *DeviceRepo) ListByUser(ctx context.Context, userID string) ([]domain.Device, error) {
	table, err := r.table()
	if err != nil {
		return nil, err
	}
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(table),
		IndexName:              aws.String(UserIndexName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var devices []domain.Device
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// ListAll scans the whole registry. Unscoped, test/debug fallback for the
// notification handler's broadcast path.
func (r *DeviceRepo) ListAll(ctx context.Context) ([]domain.Device, error) {
	table, err := r.table()
	if err != nil {
		return nil, err
	}
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(table),
	})
	if err != nil {
		return nil, err
	}
	var devices []domain.Device
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}
