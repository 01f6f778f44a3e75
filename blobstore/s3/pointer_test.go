package s3

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/smtgo/blobstore"
)

// mockDDBClient is an in-memory DynamoDB pointer log.
type mockDDBClient struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	queryErr error
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{items: make(map[string]map[string]types.AttributeValue)}
}

func (m *mockDDBClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	baseURI := params.Item["base_uri"].(*types.AttributeValueMemberS).Value
	version := params.Item["version"].(*types.AttributeValueMemberN).Value
	key := baseURI + ":" + version

	if aws.ToString(params.ConditionExpression) == "attribute_not_exists(version)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}

	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.queryErr != nil {
		return nil, m.queryErr
	}

	baseURI := params.ExpressionAttributeValues[":uri"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["base_uri"].(*types.AttributeValueMemberS).Value == baseURI {
			items = append(items, item)
		}
	}

	version := func(i int) uint64 {
		v, _ := strconv.ParseUint(items[i]["version"].(*types.AttributeValueMemberN).Value, 10, 64)
		return v
	}
	sort.Slice(items, func(i, j int) bool { return version(i) > version(j) })

	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}
	return &dynamodb.QueryOutput{Items: items}, nil
}

func newTestPointerStore(ddb *mockDDBClient) (*PointerStore, *blobstore.MemoryStore) {
	inner := blobstore.NewMemoryStore()
	return NewPointerStore(inner, ddb, "smtgo-models", "s3://models/en-it/"), inner
}

func TestPointerStore_NothingPublished(t *testing.T) {
	ps, _ := newTestPointerStore(newMockDDBClient())

	_, err := ps.Open(t.Context(), blobstore.CurrentPointer)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestPointerStore_PublishAndResolve(t *testing.T) {
	ps, inner := newTestPointerStore(newMockDDBClient())
	ctx := t.Context()

	require.NoError(t, inner.Put(ctx, "v1/model.json", []byte("{}")))

	v, err := ps.Publish(ctx, "v1/model.json")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	v, err = ps.Publish(ctx, "v2/model.json")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)

	data, _, err := blobstore.ReadAll(ctx, ps, blobstore.CurrentPointer, nil)
	require.NoError(t, err)
	assert.Equal(t, "v2/model.json", string(data))

	// Other names go to the inner store.
	data, _, err = blobstore.ReadAll(ctx, ps, "v1/model.json", nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	names, err := ps.List(ctx, "v1/")
	require.NoError(t, err)
	assert.Equal(t, []string{"v1/model.json"}, names)
}

func TestPointerStore_PartitionsAreIsolated(t *testing.T) {
	ddb := newMockDDBClient()
	a := NewPointerStore(blobstore.NewMemoryStore(), ddb, "t", "s3://a/")
	b := NewPointerStore(blobstore.NewMemoryStore(), ddb, "t", "s3://b/")

	_, err := a.Publish(t.Context(), "a.json")
	require.NoError(t, err)

	v, _, err := b.Latest(t.Context())
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestPointerStore_ConcurrentModification(t *testing.T) {
	ddb := newMockDDBClient()
	ps, _ := newTestPointerStore(ddb)

	// Simulate a writer that already claimed version 1.
	_, err := ddb.PutItem(t.Context(), &dynamodb.PutItemInput{
		Item: map[string]types.AttributeValue{
			"base_uri":      &types.AttributeValueMemberS{Value: "s3://models/en-it/"},
			"version":       &types.AttributeValueMemberN{Value: "1"},
			"manifest_path": &types.AttributeValueMemberS{Value: "other.json"},
		},
	})
	require.NoError(t, err)

	racing := &racingDDB{mockDDBClient: ddb}
	ps.ddb = racing

	_, err = ps.Publish(t.Context(), "mine.json")
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

// racingDDB hides the newest version from Query, as if a concurrent writer
// committed between the read and the conditional put.
type racingDDB struct {
	*mockDDBClient
}

func (r *racingDDB) Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return &dynamodb.QueryOutput{}, nil
}

func TestPointerStore_QueryError(t *testing.T) {
	ddb := newMockDDBClient()
	boom := errors.New("throttled")
	ddb.queryErr = boom
	ps, _ := newTestPointerStore(ddb)

	_, err := ps.Open(t.Context(), blobstore.CurrentPointer)
	assert.ErrorIs(t, err, boom)
}
