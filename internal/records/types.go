package records

import (
	"time"

	"github.com/imrishuroy/go-qrcode-api/internal/qrcode"
)

// recordType is the constant partition key of the created_at-index GSI, so
// listings can be queried (not scanned) in created_at order.
const recordType = "QRCODE"

// Record is the item persisted in the QR codes DynamoDB table.
type Record struct {
	ID         string               `dynamodbav:"id" json:"id"`                          // PK
	RecordType string               `dynamodbav:"record_type" json:"-"`                  // GSI partition key
	Input      string               `dynamodbav:"input" json:"input"`                    // source text, trimmed
	Options    qrcode.RenderOptions `dynamodbav:"options" json:"options"`                // always fully populated
	UserID     string               `dynamodbav:"user_id,omitempty" json:"userId,omitempty"` // absent for anonymous requests
	CreatedAt  time.Time            `dynamodbav:"created_at" json:"createdAt"`           // immutable after insert
	ExpiresAt  int64                `dynamodbav:"expires_at" json:"-"`                   // TTL epoch seconds
}
