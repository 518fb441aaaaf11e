// Package testkit holds in-memory fakes shared by package tests.
package testkit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// FakeDynamo is a small in-memory DynamoDB used in unit tests.
// It understands the expressions this module writes: clauses joined by AND,
// each one of `attribute_exists(x)`, `attribute_not_exists(x)` or `x = :v`,
// and `SET a = :x, #b = :y` update expressions. Tables have a single hash key.
type FakeDynamo struct {
	mu     sync.Mutex
	tables map[string]*fakeTable

	// Fail forces the named operation ("PutItem", "Scan", ...) to return the error.
	Fail map[string]error
	// Calls counts invocations per operation.
	Calls map[string]int
}

type fakeTable struct {
	key   string
	ttl   string
	order []string
	items map[string]map[string]types.AttributeValue
}

func NewFakeDynamo() *FakeDynamo {
	return &FakeDynamo{
		tables: map[string]*fakeTable{},
		Fail:   map[string]error{},
		Calls:  map[string]int{},
	}
}

// AddTable registers an empty table keyed by keyAttr.
func (f *FakeDynamo) AddTable(name, keyAttr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[name] = &fakeTable{key: keyAttr, items: map[string]map[string]types.AttributeValue{}}
}

// Items returns a copy of the stored items of a table, in insertion order.
func (f *FakeDynamo) Items(table string) []map[string]types.AttributeValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tables[table]
	if !ok {
		return nil
	}
	out := make([]map[string]types.AttributeValue, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, copyItem(t.items[k]))
	}
	return out
}

// TableNames lists registered tables, sorted.
func (f *FakeDynamo) TableNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedNames()
}

// TTLAttribute returns the attribute time to live is enabled on, or "".
func (f *FakeDynamo) TTLAttribute(table string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tables[table]; ok {
		return t.ttl
	}
	return ""
}

func (f *FakeDynamo) sortedNames() []string {
	names := make([]string, 0, len(f.tables))
	for n := range f.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (f *FakeDynamo) enter(op string) error {
	f.mu.Lock()
	f.Calls[op]++
	return f.Fail[op]
}

func (f *FakeDynamo) table(name *string) (*fakeTable, error) {
	if name == nil {
		return nil, errors.New("missing table name")
	}
	t, ok := f.tables[*name]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: strPtr("table not found: " + *name)}
	}
	return t, nil
}

func (f *FakeDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	err := f.enter("PutItem")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t, err := f.table(params.TableName)
	if err != nil {
		return nil, err
	}
	pk, err := keyValue(params.Item, t.key)
	if err != nil {
		return nil, err
	}
	existing := t.items[pk]
	if params.ConditionExpression != nil {
		ok, err := evaluate(*params.ConditionExpression, existing, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &types.ConditionalCheckFailedException{Message: strPtr("conditional check failed")}
		}
	}
	if existing == nil {
		t.order = append(t.order, pk)
	}
	t.items[pk] = copyItem(params.Item)
	return &dyn.PutItemOutput{}, nil
}

func (f *FakeDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	err := f.enter("GetItem")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t, err := f.table(params.TableName)
	if err != nil {
		return nil, err
	}
	pk, err := keyValue(params.Key, t.key)
	if err != nil {
		return nil, err
	}
	item, ok := t.items[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *FakeDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	err := f.enter("UpdateItem")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t, err := f.table(params.TableName)
	if err != nil {
		return nil, err
	}
	pk, err := keyValue(params.Key, t.key)
	if err != nil {
		return nil, err
	}
	item := t.items[pk]
	if params.ConditionExpression != nil {
		ok, err := evaluate(*params.ConditionExpression, item, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &types.ConditionalCheckFailedException{Message: strPtr("conditional check failed")}
		}
	}
	if item == nil {
		item = copyItem(params.Key)
		t.order = append(t.order, pk)
	}
	if params.UpdateExpression != nil {
		expr := strings.TrimSpace(*params.UpdateExpression)
		if !strings.HasPrefix(expr, "SET ") {
			return nil, fmt.Errorf("unsupported update expression %q", expr)
		}
		for _, assign := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
			parts := strings.SplitN(assign, "=", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("bad assignment %q", assign)
			}
			name := resolveName(strings.TrimSpace(parts[0]), params.ExpressionAttributeNames)
			v, ok := params.ExpressionAttributeValues[strings.TrimSpace(parts[1])]
			if !ok {
				return nil, fmt.Errorf("missing value %q", parts[1])
			}
			item[name] = v
		}
	}
	t.items[pk] = item
	return &dyn.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

func (f *FakeDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	err := f.enter("DeleteItem")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t, err := f.table(params.TableName)
	if err != nil {
		return nil, err
	}
	pk, err := keyValue(params.Key, t.key)
	if err != nil {
		return nil, err
	}
	if _, ok := t.items[pk]; ok {
		delete(t.items, pk)
		for i, k := range t.order {
			if k == pk {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
	}
	return &dyn.DeleteItemOutput{}, nil
}

// Scan returns every matching item in one page.
func (f *FakeDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	err := f.enter("Scan")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t, err := f.table(params.TableName)
	if err != nil {
		return nil, err
	}
	out := &dyn.ScanOutput{}
	for _, k := range t.order {
		item := t.items[k]
		out.ScannedCount++
		if params.FilterExpression != nil {
			ok, err := evaluate(*params.FilterExpression, item, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out.Count++
		if params.Select != types.SelectCount {
			out.Items = append(out.Items, copyItem(item))
		}
	}
	return out, nil
}

func (f *FakeDynamo) ListTables(ctx context.Context, params *dyn.ListTablesInput, optFns ...func(*dyn.Options)) (*dyn.ListTablesOutput, error) {
	err := f.enter("ListTables")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := &dyn.ListTablesOutput{}
	for _, n := range f.sortedNames() {
		if params.ExclusiveStartTableName != nil && n <= *params.ExclusiveStartTableName {
			continue
		}
		if params.Limit != nil && int32(len(out.TableNames)) == *params.Limit {
			last := out.TableNames[len(out.TableNames)-1]
			out.LastEvaluatedTableName = &last
			break
		}
		out.TableNames = append(out.TableNames, n)
	}
	return out, nil
}

func (f *FakeDynamo) DescribeTable(ctx context.Context, params *dyn.DescribeTableInput, optFns ...func(*dyn.Options)) (*dyn.DescribeTableOutput, error) {
	err := f.enter("DescribeTable")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t, err := f.table(params.TableName)
	if err != nil {
		return nil, err
	}
	return &dyn.DescribeTableOutput{Table: &types.TableDescription{
		TableName:   params.TableName,
		TableStatus: types.TableStatusActive,
		ItemCount:   int64Ptr(int64(len(t.items))),
	}}, nil
}

func (f *FakeDynamo) CreateTable(ctx context.Context, params *dyn.CreateTableInput, optFns ...func(*dyn.Options)) (*dyn.CreateTableOutput, error) {
	err := f.enter("CreateTable")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if params.TableName == nil || len(params.KeySchema) == 0 {
		return nil, errors.New("table name and key schema required")
	}
	if _, ok := f.tables[*params.TableName]; ok {
		return nil, &types.ResourceInUseException{Message: strPtr("table exists")}
	}
	f.tables[*params.TableName] = &fakeTable{
		key:   *params.KeySchema[0].AttributeName,
		items: map[string]map[string]types.AttributeValue{},
	}
	return &dyn.CreateTableOutput{TableDescription: &types.TableDescription{
		TableName:   params.TableName,
		TableStatus: types.TableStatusActive,
	}}, nil
}

func (f *FakeDynamo) DescribeTimeToLive(ctx context.Context, params *dyn.DescribeTimeToLiveInput, optFns ...func(*dyn.Options)) (*dyn.DescribeTimeToLiveOutput, error) {
	err := f.enter("DescribeTimeToLive")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t, err := f.table(params.TableName)
	if err != nil {
		return nil, err
	}
	desc := &types.TimeToLiveDescription{TimeToLiveStatus: types.TimeToLiveStatusDisabled}
	if t.ttl != "" {
		desc.TimeToLiveStatus = types.TimeToLiveStatusEnabled
		desc.AttributeName = strPtr(t.ttl)
	}
	return &dyn.DescribeTimeToLiveOutput{TimeToLiveDescription: desc}, nil
}

func (f *FakeDynamo) UpdateTimeToLive(ctx context.Context, params *dyn.UpdateTimeToLiveInput, optFns ...func(*dyn.Options)) (*dyn.UpdateTimeToLiveOutput, error) {
	err := f.enter("UpdateTimeToLive")
	defer f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t, err := f.table(params.TableName)
	if err != nil {
		return nil, err
	}
	spec := params.TimeToLiveSpecification
	if spec == nil || spec.AttributeName == nil || spec.Enabled == nil {
		return nil, errors.New("time to live specification required")
	}
	if *spec.Enabled {
		t.ttl = *spec.AttributeName
	} else {
		t.ttl = ""
	}
	return &dyn.UpdateTimeToLiveOutput{TimeToLiveSpecification: spec}, nil
}

func evaluate(expr string, item map[string]types.AttributeValue, names map[string]string, values map[string]types.AttributeValue) (bool, error) {
	for _, clause := range strings.Split(expr, " AND ") {
		clause = strings.TrimSpace(clause)
		switch {
		case strings.HasPrefix(clause, "attribute_not_exists(") && strings.HasSuffix(clause, ")"):
			name := resolveName(clause[len("attribute_not_exists("):len(clause)-1], names)
			if _, ok := item[name]; ok {
				return false, nil
			}
		case strings.HasPrefix(clause, "attribute_exists(") && strings.HasSuffix(clause, ")"):
			name := resolveName(clause[len("attribute_exists("):len(clause)-1], names)
			if _, ok := item[name]; !ok {
				return false, nil
			}
		case strings.Contains(clause, " = "):
			parts := strings.SplitN(clause, " = ", 2)
			name := resolveName(strings.TrimSpace(parts[0]), names)
			want, ok := values[strings.TrimSpace(parts[1])]
			if !ok {
				return false, fmt.Errorf("missing value %q", parts[1])
			}
			if !equalAV(item[name], want) {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported expression %q", clause)
		}
	}
	return true, nil
}

func resolveName(token string, names map[string]string) string {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, "#") {
		if n, ok := names[token]; ok {
			return n
		}
	}
	return token
}

func equalAV(a, b types.AttributeValue) bool {
	switch x := a.(type) {
	case *types.AttributeValueMemberS:
		y, ok := b.(*types.AttributeValueMemberS)
		return ok && x.Value == y.Value
	case *types.AttributeValueMemberN:
		y, ok := b.(*types.AttributeValueMemberN)
		return ok && x.Value == y.Value
	case *types.AttributeValueMemberBOOL:
		y, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && x.Value == y.Value
	}
	return false
}

func keyValue(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("missing string key %q", key)
	}
	return v.Value, nil
}

func copyItem(in map[string]types.AttributeValue) map[string]types.AttributeValue {
	if in == nil {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func strPtr(s string) *string  { return &s }
func int64Ptr(n int64) *int64 { return &n }
