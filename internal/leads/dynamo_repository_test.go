package leads

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory stand-in for the DynamoDB client that
// honors attribute_not_exists conditions on its key attribute.
type fakeDynamo struct {
	items    map[string]map[string]map[string]types.AttributeValue // table -> key -> item
	keyAttr  map[string]string
	putCalls int
	failPut  error
	failGet  error
	// missReads makes the next N GetItem calls report an empty result
	// without touching storage, simulating a concurrent writer landing
	// between a read and a conditional put.
	missReads int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		items: map[string]map[string]map[string]types.AttributeValue{
			"leads":    {},
			"requests": {},
		},
		keyAttr: map[string]string{"leads": "email", "requests": "requestId"},
	}
}

func (f *fakeDynamo) keyOf(table string, item map[string]types.AttributeValue) string {
	attr := f.keyAttr[table]
	if s, ok := item[attr].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putCalls++
	if f.failPut != nil {
		return nil, f.failPut
	}
	table := *in.TableName
	key := f.keyOf(table, in.Item)
	if in.ConditionExpression != nil && strings.Contains(*in.ConditionExpression, "attribute_not_exists") {
		if _, exists := f.items[table][key]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	f.items[table][key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	if f.missReads > 0 {
		f.missReads--
		return &dynamodb.GetItemOutput{}, nil
	}
	table := *in.TableName
	key := f.keyOf(table, in.Key)
	item, ok := f.items[table][key]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	table := *in.TableName
	var items []map[string]types.AttributeValue
	for _, item := range f.items[table] {
		if !f.matches(in, item) {
			continue
		}
		items = append(items, item)
	}
	return &dynamodb.ScanOutput{Items: items}, nil
}

// matches evaluates the three filter shapes the repository issues.
func (f *fakeDynamo) matches(in *dynamodb.ScanInput, item map[string]types.AttributeValue) bool {
	if in.FilterExpression == nil {
		return true
	}
	switch {
	case strings.Contains(*in.FilterExpression, "leadId"):
		want := in.ExpressionAttributeValues[":id"].(*types.AttributeValueMemberS).Value
		got, ok := item["leadId"].(*types.AttributeValueMemberS)
		return ok && got.Value == want
	case strings.Contains(*in.FilterExpression, "isSuspicious"):
		got, ok := item["isSuspicious"].(*types.AttributeValueMemberBOOL)
		return ok && got.Value
	case strings.Contains(*in.FilterExpression, "#type"):
		want := in.ExpressionAttributeValues[":type"].(*types.AttributeValueMemberS).Value
		got, ok := item["type"].(*types.AttributeValueMemberS)
		return ok && got.Value == want
	}
	return false
}

func newTestDynamoRepo(f *fakeDynamo) *DynamoRepository {
	repo := NewDynamoRepository(f, "leads", "requests", nil)
	current := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		current = current.Add(time.Millisecond)
		return current
	}
	return repo
}

func TestDynamoUpsertCreatesThenUpdates(t *testing.T) {
	f := newFakeDynamo()
	repo := newTestDynamoRepo(f)
	ctx := context.Background()

	id1, err := repo.UpsertLead(ctx, &Lead{Email: "Mariana@Acme.com", Company: "Acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	id2, err := repo.UpsertLead(ctx, &Lead{Email: "mariana@acme.com", Company: "Acme Corp"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("lead id changed across upserts: %s vs %s", id1, id2)
	}

	if len(f.items["leads"]) != 1 {
		t.Fatalf("expected a single lead document, got %d", len(f.items["leads"]))
	}

	lead, err := repo.GetLeadByEmail(ctx, "mariana@acme.com")
	if err != nil {
		t.Fatalf("GetLeadByEmail: %v", err)
	}
	if lead.Company != "Acme Corp" {
		t.Errorf("company = %q, want overwritten value", lead.Company)
	}
	if !lead.LastUpdated.After(lead.CreatedAt) {
		t.Error("LastUpdated should advance on update")
	}
}

func TestDynamoUpsertLosesCreateRace(t *testing.T) {
	f := newFakeDynamo()
	repo := newTestDynamoRepo(f)
	ctx := context.Background()

	// A concurrent first submission wins between our initial read and
	// the conditional put: the winner's document is already in the
	// table, but our read raced ahead of it and missed. The
	// conditional write must fail and the repository must fall back to
	// updating the winner's document under its id.
	winner := Lead{ID: "lead_winner", Email: "race@acme.com", Status: StatusActive, CreatedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)}
	item, _ := attributevalue.MarshalMap(winner)
	f.items["leads"]["race@acme.com"] = item
	f.missReads = 1

	id, err := repo.UpsertLead(ctx, &Lead{Email: "race@acme.com", Company: "Acme"})
	if err != nil {
		t.Fatalf("upsert after lost race: %v", err)
	}
	if id != "lead_winner" {
		t.Fatalf("loser must adopt the winner's id, got %s", id)
	}
	if len(f.items["leads"]) != 1 {
		t.Fatalf("expected a single lead document, got %d", len(f.items["leads"]))
	}

	var stored Lead
	if err := attributevalue.UnmarshalMap(f.items["leads"]["race@acme.com"], &stored); err != nil {
		t.Fatalf("decode stored lead: %v", err)
	}
	if stored.Company != "Acme" {
		t.Errorf("update should have applied, company = %q", stored.Company)
	}
	if !stored.CreatedAt.Equal(winner.CreatedAt) {
		t.Errorf("CreatedAt must come from the winner, got %v", stored.CreatedAt)
	}
}

func TestDynamoCreateRequest(t *testing.T) {
	f := newFakeDynamo()
	repo := newTestDynamoRepo(f)
	ctx := context.Background()

	id1, err := repo.CreateRequest(ctx, &Request{Type: RequestTypeDemo, Requester: Requester{Type: "lead", ID: "lead_1"}})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	id2, err := repo.CreateRequest(ctx, &Request{Type: RequestTypeQuote, Requester: Requester{Type: "lead", ID: "lead_1"}})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if id1 == id2 {
		t.Fatal("request ids must be unique")
	}
	if len(f.items["requests"]) != 2 {
		t.Fatalf("expected 2 request documents, got %d", len(f.items["requests"]))
	}
}

func TestDynamoGetLeadByEmailNotFound(t *testing.T) {
	repo := newTestDynamoRepo(newFakeDynamo())
	if _, err := repo.GetLeadByEmail(context.Background(), "missing@acme.com"); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestDynamoStorageErrorsWrapped(t *testing.T) {
	f := newFakeDynamo()
	f.failGet = errors.New("throttled")
	repo := newTestDynamoRepo(f)

	_, err := repo.UpsertLead(context.Background(), &Lead{Email: "a@acme.com"})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestDynamoListLeadsSuspiciousFilter(t *testing.T) {
	f := newFakeDynamo()
	repo := newTestDynamoRepo(f)
	ctx := context.Background()

	repo.UpsertLead(ctx, &Lead{Email: "clean@acme.com"})
	repo.UpsertLead(ctx, &Lead{Email: "spam@mailinator.com", SpamScore: 80, IsSuspicious: true})

	suspicious, err := repo.ListLeads(ctx, ListLeadsFilter{OnlySuspicious: true})
	if err != nil {
		t.Fatalf("ListLeads: %v", err)
	}
	if len(suspicious) != 1 || suspicious[0].Email != "spam@mailinator.com" {
		t.Fatalf("suspicious filter returned %d leads", len(suspicious))
	}
}

func TestDynamoListRequestsTypeFilter(t *testing.T) {
	f := newFakeDynamo()
	repo := newTestDynamoRepo(f)
	ctx := context.Background()

	repo.CreateRequest(ctx, &Request{Type: RequestTypeDemo})
	repo.CreateRequest(ctx, &Request{Type: RequestTypeQuote})

	demos, err := repo.ListRequests(ctx, ListRequestsFilter{Type: RequestTypeDemo})
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(demos) != 1 || demos[0].Type != RequestTypeDemo {
		t.Fatalf("type filter returned %d requests", len(demos))
	}
}
