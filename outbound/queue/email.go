package queue

import (
	"catering-quote/common"
	"catering-quote/common/constant"
	"catering-quote/common/jetstream"
	"catering-quote/model"
	"context"
	"fmt"
)

// EmailQueue hands quote emails to the serve-queue:email consumer instead of
// talking to the relay inside the request.
type EmailQueue struct {
	Publisher jetstream.Publisher
}

func (q EmailQueue) Notify(ctx context.Context, msg model.SendEmailEventMessage) error {
	if err := common.PublishMessage(ctx, q.Publisher, constant.SubjectSendEmail, msg); err != nil {
		return fmt.Errorf("enqueue quote email: %w", err)
	}
	return nil
}
