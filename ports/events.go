package ports

import "context"

// EventPublisher publishes events to notify other components
type EventPublisher interface {
	PublishLogin(ctx context.Context, address string, profileID string) error
}
