package docstore

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Filter selects documents.
//
// Equal fields are compared exactly and evaluated by DynamoDB. Match fields
// hold case-insensitive patterns applied to string attributes after the scan;
// a pattern that is not a valid regular expression is matched literally.
type Filter struct {
	Equal map[string]interface{}
	Match map[string]string
}

// Where returns a Filter with a single equality condition.
func Where(field string, value interface{}) Filter {
	return Filter{Equal: map[string]interface{}{field: value}}
}

func (f Filter) scanInput(table string) (*dyn.ScanInput, error) {
	input := &dyn.ScanInput{TableName: sdkaws.String(table)}
	if len(f.Equal) == 0 {
		return input, nil
	}

	fields := make([]string, 0, len(f.Equal))
	for k := range f.Equal {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	clauses := make([]string, 0, len(fields))
	for i, field := range fields {
		av, err := attributevalue.Marshal(f.Equal[field])
		if err != nil {
			return nil, fmt.Errorf("marshal filter value for %s: %w", field, err)
		}
		n, v := fmt.Sprintf("#f%d", i), fmt.Sprintf(":v%d", i)
		names[n] = field
		values[v] = av
		clauses = append(clauses, n+" = "+v)
	}
	input.FilterExpression = sdkaws.String(strings.Join(clauses, " AND "))
	input.ExpressionAttributeNames = names
	input.ExpressionAttributeValues = values
	return input, nil
}

func (f Filter) matchers() (map[string]*regexp.Regexp, error) {
	if len(f.Match) == 0 {
		return nil, nil
	}
	out := make(map[string]*regexp.Regexp, len(f.Match))
	for field, pattern := range f.Match {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			re, err = regexp.Compile("(?i)" + regexp.QuoteMeta(pattern))
			if err != nil {
				return nil, fmt.Errorf("compile pattern for %s: %w", field, err)
			}
		}
		out[field] = re
	}
	return out, nil
}
