package idempotency

import "time"

// Collection holds idempotency records for checkout requests.
const Collection = "idempotency"

// TTLAttribute holds the epoch-seconds expiry DynamoDB removes records on.
const TTLAttribute = "expires_at"

// Status values for idempotency entries
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// IdempotencyRecord is the shape persisted in the idempotency collection.
type IdempotencyRecord struct {
	IdempotencyKey string    `dynamodbav:"_id"` // PK
	CartID         string    `dynamodbav:"cart_id,omitempty"`
	Status         string    `dynamodbav:"status"`
	OrderID        string    `dynamodbav:"order_id,omitempty"`
	ResponseBody   string    `dynamodbav:"response_body,omitempty"`
	ResponseStatus int       `dynamodbav:"response_status,omitempty"`
	CreatedAt      time.Time `dynamodbav:"created_at"`
	UpdatedAt      time.Time `dynamodbav:"updated_at"`
	ExpiresAt      int64     `dynamodbav:"expires_at"` // TTL epoch seconds
}
