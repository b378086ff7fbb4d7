package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// GeneratedEvent is the payload published after a QR code is generated. The
// metrics worker consumes these to aggregate CloudWatch counters.
type GeneratedEvent struct {
	ID        string    `json:"id"`
	Format    string    `json:"format"`
	Size      string    `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// SendGeneratedEvent publishes a generation event. Callers treat this as
// fire-and-forget: a failure here must never fail the originating request.
func (p *Publisher) SendGeneratedEvent(ctx context.Context, ev GeneratedEvent, correlationID string) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msgBody := string(body)
	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &msgBody,
	}
	if correlationID != "" {
		input.MessageAttributes = map[string]sqstypes.MessageAttributeValue{
			"correlation_id": {
				DataType:    awsString("String"),
				StringValue: &correlationID,
			},
		}
	}

	if _, err := p.SQS.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
