package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes business counters to CloudWatch under one namespace.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
}

// NewMetrics returns nil when no namespace is configured.
func NewMetrics(cw CloudWatchAPI, namespace string) *Metrics {
	if cw == nil || namespace == "" {
		return nil
	}
	return &Metrics{CloudWatch: cw, Namespace: namespace}
}

// Count records a Count-unit datum.
func (m *Metrics) Count(ctx context.Context, name string, value float64, dims map[string]string) error {
	return m.put(ctx, name, value, cwtypes.StandardUnitCount, dims)
}

// Value records a unitless datum, e.g. an order subtotal.
func (m *Metrics) Value(ctx context.Context, name string, value float64, dims map[string]string) error {
	return m.put(ctx, name, value, cwtypes.StandardUnitNone, dims)
}

func (m *Metrics) put(ctx context.Context, name string, value float64, unit cwtypes.StandardUnit, dims map[string]string) error {
	if m == nil {
		return nil
	}
	datum := cwtypes.MetricDatum{
		MetricName: sdkaws.String(name),
		Value:      sdkaws.Float64(value),
		Unit:       unit,
	}
	for k, v := range dims {
		datum.Dimensions = append(datum.Dimensions, cwtypes.Dimension{
			Name:  sdkaws.String(k),
			Value: sdkaws.String(v),
		})
	}
	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  sdkaws.String(m.Namespace),
		MetricData: []cwtypes.MetricDatum{datum},
	})
	if err != nil {
		return fmt.Errorf("put metric %s: %w", name, err)
	}
	return nil
}
