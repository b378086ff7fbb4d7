package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricNamespace groups all metrics emitted by the service.
const MetricNamespace = "QRCodeAPI"

// MetricsEmitter publishes aggregate counters to CloudWatch.
type MetricsEmitter struct {
	CloudWatch CloudWatchAPI
	Namespace  string
}

// NewMetricsEmitter returns an emitter bound to a namespace.
func NewMetricsEmitter(cw CloudWatchAPI, namespace string) *MetricsEmitter {
	if namespace == "" {
		namespace = MetricNamespace
	}
	return &MetricsEmitter{CloudWatch: cw, Namespace: namespace}
}

// PutGeneratedCounts emits one QRCodesGenerated datum per output format.
func (m *MetricsEmitter) PutGeneratedCounts(ctx context.Context, counts map[string]int, at time.Time) error {
	if len(counts) == 0 {
		return nil
	}

	data := make([]cwtypes.MetricDatum, 0, len(counts))
	for format, n := range counts {
		data = append(data, cwtypes.MetricDatum{
			MetricName: awsString("QRCodesGenerated"),
			Timestamp:  &at,
			Unit:       cwtypes.StandardUnitCount,
			Value:      awsFloat64(float64(n)),
			Dimensions: []cwtypes.Dimension{
				{Name: awsString("Format"), Value: awsString(format)},
			},
		})
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  &m.Namespace,
		MetricData: data,
	}
	if _, err := m.CloudWatch.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

func awsFloat64(f float64) *float64 { return &f }
