package mq

import (
	"context"

	"github.com/apache/rocketmq-client-go/v2/primitive"
)

// ProducerInterface defines the interface for message production
type ProducerInterface interface {
	SendClick(ctx context.Context, msg *ClickMessage) error
	Close() error
}

// ConsumerInterface defines the interface for message consumption
type ConsumerInterface interface {
	Subscribe() error
	Close() error
}

// syncSender is the part of rocketmq.Producer the Producer relies on
type syncSender interface {
	SendSync(ctx context.Context, msgs ...*primitive.Message) (*primitive.SendResult, error)
	Shutdown() error
}
