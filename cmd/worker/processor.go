package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/go-qrcode-api/internal/aws"
	"github.com/imrishuroy/go-qrcode-api/internal/qrcode"
)

// Processor turns batches of generation events into CloudWatch metrics.
type Processor struct {
	metrics *aws.MetricsEmitter
	nowFunc func() time.Time
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, namespace string) *Processor {
	return &Processor{
		metrics: aws.NewMetricsEmitter(clients.CloudWatch, namespace),
		nowFunc: time.Now,
	}
}

// Handle receives an SQS batch event, aggregates per-format counts and emits
// them in a single PutMetricData call. Returning an error makes the Lambda
// runtime retry the batch and eventually dead-letter it.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	counts := make(map[string]int)
	for _, rec := range ev.Records {
		var msg GeneratedEvent
		if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
			return fmt.Errorf("invalid message body: %w", err)
		}
		format := msg.Format
		if format == "" {
			format = qrcode.FormatPNG
		}
		counts[format]++
		log.Printf("[worker] counted generation id=%s format=%s", msg.ID, format)
	}

	if err := p.metrics.PutGeneratedCounts(ctx, counts, p.nowFunc().UTC()); err != nil {
		return fmt.Errorf("emit metrics: %w", err)
	}
	return nil
}
