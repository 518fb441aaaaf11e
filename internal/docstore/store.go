package docstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/imrishuroy/go-watch-store/internal/aws"
)

// IDAttribute is the store-internal identifier attribute present on every document.
const IDAttribute = "_id"

var (
	// ErrInvalidID is returned when an identifier is not a valid document id.
	ErrInvalidID = errors.New("invalid document id")
	// ErrNotConfigured is returned by Connect when the connection string or database name is missing.
	ErrNotConfigured = errors.New("database url or name not configured")
)

// Options configure Connect.
type Options struct {
	URL     string // endpoint the client was built for; only checked for presence here
	Name    string // database name, used as the table name prefix
	Timeout time.Duration
	// Collections are created when missing.
	Collections []string
	// TTL maps a collection to the epoch-seconds attribute DynamoDB expires its items on.
	TTL map[string]string
}

// Store is a document store on DynamoDB: each collection is a table named
// "<name>_<collection>" with a string hash key "_id".
type Store struct {
	client aws.DynamoDBAPI
	name   string
}

// New returns a Store without contacting DynamoDB.
func New(client aws.DynamoDBAPI, name string) *Store {
	return &Store{client: client, name: name}
}

// Connect checks the configuration, pings DynamoDB and creates missing
// collections. Callers treat any error as "database unavailable" for the
// lifetime of the process.
func Connect(ctx context.Context, client aws.DynamoDBAPI, opts Options) (*Store, error) {
	if opts.URL == "" || opts.Name == "" || client == nil {
		return nil, ErrNotConfigured
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	s := New(client, opts.Name)
	if _, err := client.ListTables(ctx, &dyn.ListTablesInput{Limit: sdkaws.Int32(1)}); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	for _, c := range opts.Collections {
		if err := s.EnsureCollection(ctx, c); err != nil {
			return nil, err
		}
	}
	for c, attr := range opts.TTL {
		if err := s.EnableTTL(ctx, c, attr); err != nil {
			return nil, err
		}
	}
	log.Printf("[docstore] connected database=%s collections=%d", opts.Name, len(opts.Collections))
	return s, nil
}

// Client exposes the underlying DynamoDB client for stores that manage their own item shape.
func (s *Store) Client() aws.DynamoDBAPI { return s.client }

// TableName returns the table backing a collection.
func (s *Store) TableName(collection string) string {
	return s.name + "_" + collection
}

// EnsureCollection creates the collection's table if it does not exist and waits until it is active.
func (s *Store) EnsureCollection(ctx context.Context, collection string) error {
	table := s.TableName(collection)
	_, err := s.client.DescribeTable(ctx, &dyn.DescribeTableInput{TableName: &table})
	if err == nil {
		return nil
	}
	var nf *types.ResourceNotFoundException
	if !errors.As(err, &nf) {
		return fmt.Errorf("describe table %s: %w", table, err)
	}

	_, err = s.client.CreateTable(ctx, &dyn.CreateTableInput{
		TableName:   &table,
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: sdkaws.String(IDAttribute), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: sdkaws.String(IDAttribute), KeyType: types.KeyTypeHash},
		},
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}

	waiter := dyn.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dyn.DescribeTableInput{TableName: &table}, 2*time.Minute); err != nil {
		return fmt.Errorf("wait for table %s: %w", table, err)
	}
	log.Printf("[docstore] created collection %s", collection)
	return nil
}

// EnableTTL turns on item expiry for a collection unless it is already enabled on attr.
func (s *Store) EnableTTL(ctx context.Context, collection, attr string) error {
	table := s.TableName(collection)
	desc, err := s.client.DescribeTimeToLive(ctx, &dyn.DescribeTimeToLiveInput{TableName: &table})
	if err != nil {
		return fmt.Errorf("describe ttl %s: %w", table, err)
	}
	if d := desc.TimeToLiveDescription; d != nil && d.AttributeName != nil && *d.AttributeName == attr {
		switch d.TimeToLiveStatus {
		case types.TimeToLiveStatusEnabled, types.TimeToLiveStatusEnabling:
			return nil
		}
	}

	_, err = s.client.UpdateTimeToLive(ctx, &dyn.UpdateTimeToLiveInput{
		TableName: &table,
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: sdkaws.String(attr),
			Enabled:       sdkaws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("update ttl %s: %w", table, err)
	}
	log.Printf("[docstore] enabled ttl on %s.%s", collection, attr)
	return nil
}

// Insert stores doc under a newly generated id and returns that id.
// doc must marshal to a map; any "_id" it carries is replaced.
func (s *Store) Insert(ctx context.Context, collection string, doc interface{}) (string, error) {
	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	id := uuid.NewString()
	item[IDAttribute] = &types.AttributeValueMemberS{Value: id}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:                sdkaws.String(s.TableName(collection)),
		Item:                     item,
		ConditionExpression:      sdkaws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": IDAttribute},
	})
	if err != nil {
		return "", fmt.Errorf("put item: %w", err)
	}
	return id, nil
}

// FindOne loads the document with the given id into out.
// It returns (false, nil) when no such document exists and ErrInvalidID for a malformed id.
func (s *Store) FindOne(ctx context.Context, collection, id string, out interface{}) (bool, error) {
	key, err := ParseID(id)
	if err != nil {
		return false, err
	}
	res, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: sdkaws.String(s.TableName(collection)),
		Key: map[string]types.AttributeValue{
			IDAttribute: &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return false, fmt.Errorf("get item: %w", err)
	}
	if len(res.Item) == 0 {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return false, fmt.Errorf("unmarshal document: %w", err)
	}
	return true, nil
}

// Query loads every document matching f into out, which must be a pointer to a slice.
func (s *Store) Query(ctx context.Context, collection string, f Filter, out interface{}) error {
	items, err := s.scan(ctx, collection, f)
	if err != nil {
		return err
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("unmarshal documents: %w", err)
	}
	return nil
}

// Count returns the number of documents matching f.
func (s *Store) Count(ctx context.Context, collection string, f Filter) (int, error) {
	if len(f.Match) > 0 {
		items, err := s.scan(ctx, collection, f)
		if err != nil {
			return 0, err
		}
		return len(items), nil
	}
	input, err := f.scanInput(s.TableName(collection))
	if err != nil {
		return 0, err
	}
	input.Select = types.SelectCount

	total := 0
	p := dyn.NewScanPaginator(s.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("scan count: %w", err)
		}
		total += int(page.Count)
	}
	return total, nil
}

// ListCollections returns up to limit collection names belonging to this database, sorted.
func (s *Store) ListCollections(ctx context.Context, limit int) ([]string, error) {
	prefix := s.name + "_"
	var names []string
	input := &dyn.ListTablesInput{}
	p := dyn.NewListTablesPaginator(s.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		for _, t := range page.TableNames {
			if strings.HasPrefix(t, prefix) {
				names = append(names, strings.TrimPrefix(t, prefix))
			}
		}
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

func (s *Store) scan(ctx context.Context, collection string, f Filter) ([]map[string]types.AttributeValue, error) {
	input, err := f.scanInput(s.TableName(collection))
	if err != nil {
		return nil, err
	}
	matchers, err := f.matchers()
	if err != nil {
		return nil, err
	}

	var items []map[string]types.AttributeValue
	p := dyn.NewScanPaginator(s.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		for _, item := range page.Items {
			if matchAll(item, matchers) {
				items = append(items, item)
			}
		}
	}
	return items, nil
}

// ParseID validates id and returns its canonical form.
func ParseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return u.String(), nil
}

func matchAll(item map[string]types.AttributeValue, matchers map[string]*regexp.Regexp) bool {
	for field, re := range matchers {
		v, ok := item[field].(*types.AttributeValueMemberS)
		if !ok || !re.MatchString(v.Value) {
			return false
		}
	}
	return true
}
