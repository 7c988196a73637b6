package queue

import (
	"catering-quote/common/constant"
	"catering-quote/common/jetstream/mocks"
	"catering-quote/model"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEmailQueueNotify(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)

	msg := model.SendEmailEventMessage{
		SessionID:   "01J",
		To:          []string{"jamie@example.com"},
		Subject:     "Your Catering Quote - Wedding",
		Body:        "body",
		ContentType: "text/plain; charset=UTF-8",
	}
	expected, err := json.Marshal(msg)
	require.NoError(t, err)

	publisher.EXPECT().
		Publish(gomock.Any(), constant.SubjectSendEmail, expected).
		Return(&jetstream.PubAck{Stream: constant.QueueStreamName, Sequence: 1}, nil)

	assert.NoError(t, EmailQueue{Publisher: publisher}.Notify(context.Background(), msg))
}

func TestEmailQueueNotifyError(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)

	publisher.EXPECT().
		Publish(gomock.Any(), constant.SubjectSendEmail, gomock.Any()).
		Return(nil, errors.New("nats: no responders available for request"))

	err := EmailQueue{Publisher: publisher}.Notify(context.Background(), model.SendEmailEventMessage{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "enqueue quote email")
}
