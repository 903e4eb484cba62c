package publishers

import "context"

// Publisher sends new-project events to a downstream sink (SQS, SNS, Pub/Sub, HTTP, ...).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}
