package jetstream

import (
	"catering-quote/common/constant"
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

//go:generate mockgen -destination=mocks/publisher.go -package=mocks catering-quote/common/jetstream Publisher

// Publisher is the slice of jetstream.JetStream used to enqueue work.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

func CreateQueueStream(ctx context.Context, js jetstream.JetStream, maxBytes int64) (jetstream.Stream, error) {
	cfg := jetstream.StreamConfig{
		Name:      constant.QueueStreamName,
		Retention: jetstream.WorkQueuePolicy,
		Subjects:  []string{constant.AllWildcard},
		MaxBytes:  maxBytes,
	}

	st, err := js.CreateOrUpdateStream(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create queue stream: %w", err)
	}

	return st, nil
}
