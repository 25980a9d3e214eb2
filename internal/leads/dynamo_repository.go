package leads

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/artemisa-labs/website-api/pkg/logging"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoRepository persists leads and requests to DynamoDB. The leads
// table is keyed by normalized email, which makes the one-lead-per-email
// invariant a property of the key schema; the requests table is keyed
// by request id.
type DynamoRepository struct {
	client        dynamoAPI
	leadsTable    string
	requestsTable string
	logger        *logging.Logger
	now           func() time.Time
}

var _ Repository = (*DynamoRepository)(nil)

// NewDynamoRepository builds a repository backed by the provided
// DynamoDB client.
func NewDynamoRepository(client dynamoAPI, leadsTable, requestsTable string, logger *logging.Logger) *DynamoRepository {
	if client == nil {
		panic("leads: dynamodb client cannot be nil")
	}
	if leadsTable == "" || requestsTable == "" {
		panic("leads: table names cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoRepository{
		client:        client,
		leadsTable:    leadsTable,
		requestsTable: requestsTable,
		logger:        logger,
		now:           time.Now,
	}
}

// UpsertLead creates or updates the lead document keyed by normalized
// email. Creation uses a conditional write, so two concurrent first
// submissions for the same email cannot produce two documents: the
// loser of the race falls back to the update path.
func (r *DynamoRepository) UpsertLead(ctx context.Context, lead *Lead) (string, error) {
	sanitizeLead(lead)
	if lead.Email == "" {
		return "", invalidArgument("email", "missing required field")
	}

	now := r.now().UTC()

	existing, err := r.getLeadItem(ctx, lead.Email)
	if err != nil {
		return "", err
	}

	if existing == nil {
		created := *lead
		created.ID = NewLeadID(lead.Email, now)
		created.Status = StatusActive
		created.CreatedAt = now
		created.LastUpdated = now

		item, err := attributevalue.MarshalMap(created)
		if err != nil {
			return "", fmt.Errorf("leads: failed to marshal lead: %w", err)
		}
		_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           aws.String(r.leadsTable),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(email)"),
		})
		if err == nil {
			return created.ID, nil
		}

		var conditionFailed *types.ConditionalCheckFailedException
		if !errors.As(err, &conditionFailed) {
			return "", fmt.Errorf("leads: failed to create lead: %w: %w", ErrStorageUnavailable, err)
		}

		// Lost a create race; re-read and update instead.
		existing, err = r.getLeadItem(ctx, lead.Email)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return "", fmt.Errorf("leads: lead vanished after conditional write conflict: %w", ErrStorageUnavailable)
		}
	}

	updated := *lead
	updated.ID = existing.ID
	updated.Status = StatusActive
	updated.CreatedAt = existing.CreatedAt
	updated.LastUpdated = now

	item, err := attributevalue.MarshalMap(updated)
	if err != nil {
		return "", fmt.Errorf("leads: failed to marshal lead: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.leadsTable),
		Item:      item,
	}); err != nil {
		return "", fmt.Errorf("leads: failed to update lead: %w: %w", ErrStorageUnavailable, err)
	}
	return updated.ID, nil
}

// CreateRequest inserts a new request document. Requests are never
// deduplicated.
func (r *DynamoRepository) CreateRequest(ctx context.Context, req *Request) (string, error) {
	now := r.now().UTC()

	stored := *req
	if stored.ID == "" {
		stored.ID = NewRequestID()
	}
	if stored.Status == "" {
		stored.Status = StatusPending
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	item, err := attributevalue.MarshalMap(stored)
	if err != nil {
		return "", fmt.Errorf("leads: failed to marshal request: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.requestsTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(requestId)"),
	}); err != nil {
		return "", fmt.Errorf("leads: failed to persist request: %w: %w", ErrStorageUnavailable, err)
	}
	return stored.ID, nil
}

// GetLeadByEmail fetches a lead document by normalized email.
func (r *DynamoRepository) GetLeadByEmail(ctx context.Context, email string) (*Lead, error) {
	lead, err := r.getLeadItem(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// GetLeadByID scans for a lead by id. Admin-only path; the hot path
// always addresses leads by email.
func (r *DynamoRepository) GetLeadByID(ctx context.Context, id string) (*Lead, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.leadsTable),
		FilterExpression: aws.String("leadId = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("leads: failed to scan leads: %w: %w", ErrStorageUnavailable, err)
	}
	if len(out.Items) == 0 {
		return nil, ErrLeadNotFound
	}

	var lead Lead
	if err := attributevalue.UnmarshalMap(out.Items[0], &lead); err != nil {
		return nil, fmt.Errorf("leads: failed to decode lead: %w", err)
	}
	return &lead, nil
}

// ListLeads scans the leads table for the admin listing.
func (r *DynamoRepository) ListLeads(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.leadsTable)}
	if filter.OnlySuspicious {
		input.FilterExpression = aws.String("isSuspicious = :sus")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":sus": &types.AttributeValueMemberBOOL{Value: true},
		}
	}

	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("leads: failed to scan leads: %w: %w", ErrStorageUnavailable, err)
	}

	var all []*Lead
	for _, item := range out.Items {
		var lead Lead
		if err := attributevalue.UnmarshalMap(item, &lead); err != nil {
			return nil, fmt.Errorf("leads: failed to decode lead: %w", err)
		}
		all = append(all, &lead)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].LastUpdated.After(all[j].LastUpdated) })
	return paginate(all, filter.Offset, filter.Limit), nil
}

// ListRequests scans the requests table for the admin listing.
func (r *DynamoRepository) ListRequests(ctx context.Context, filter ListRequestsFilter) ([]*Request, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.requestsTable)}
	if filter.Type != "" {
		input.FilterExpression = aws.String("#type = :type")
		input.ExpressionAttributeNames = map[string]string{"#type": "type"}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":type": &types.AttributeValueMemberS{Value: string(filter.Type)},
		}
	}

	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("leads: failed to scan requests: %w: %w", ErrStorageUnavailable, err)
	}

	var all []*Request
	for _, item := range out.Items {
		var req Request
		if err := attributevalue.UnmarshalMap(item, &req); err != nil {
			return nil, fmt.Errorf("leads: failed to decode request: %w", err)
		}
		all = append(all, &req)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, filter.Offset, filter.Limit), nil
}

func (r *DynamoRepository) getLeadItem(ctx context.Context, email string) (*Lead, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.leadsTable),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("leads: failed to fetch lead: %w: %w", ErrStorageUnavailable, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var lead Lead
	if err := attributevalue.UnmarshalMap(out.Item, &lead); err != nil {
		return nil, fmt.Errorf("leads: failed to decode lead: %w", err)
	}
	return &lead, nil
}
