package event

import (
	"catering-quote/model"
	emailOutbound "catering-quote/outbound/email"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/smtp"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

type EmailEventTestSuite struct {
	suite.Suite

	Sent    []sentMail
	SendErr error

	emailEvent EmailEvent
}

func (s *EmailEventTestSuite) SetupTest() {
	s.Sent = nil
	s.SendErr = nil

	cfg := viper.New()
	cfg.Set("email.host", "smtp.example.com")
	cfg.Set("email.port", 587)
	cfg.Set("email.user", "quotes@example.com")
	cfg.Set("email.password", "secret")

	outbound := &emailOutbound.EmailOutbound{
		Cfg: cfg,
		SendMail: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			if s.SendErr != nil {
				return s.SendErr
			}
			s.Sent = append(s.Sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
			return nil
		},
		TimeNow: func() time.Time { return time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC) },
	}
	outbound.Init()

	s.emailEvent = EmailEvent{EmailOutbound: outbound, Timeout: 10 * time.Second}

	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func TestEmailEventTestSuite(t *testing.T) {
	suite.Run(t, new(EmailEventTestSuite))
}

func (s *EmailEventTestSuite) TestSendEmailHandler() {
	valid := model.SendEmailEventMessage{
		SessionID:   "01JA0000000000000000000000",
		To:          []string{"dana@example.com"},
		Subject:     "Your Catering Quote - Wedding",
		Body:        "<p>Grand Total: $42.67</p>",
		ContentType: "text/html; charset=UTF-8",
	}

	testCases := []struct {
		name        string
		input       func() []byte
		sendErr     error
		expectError bool
		expectSent  int
	}{
		{
			name: "success",
			input: func() []byte {
				b, _ := json.Marshal(valid)
				return b
			},
			expectSent: 1,
		},
		{
			name:  "invalid payload is dropped",
			input: func() []byte { return []byte(`{invalid`) },
		},
		{
			name: "no recipient is dropped",
			input: func() []byte {
				msg := valid
				msg.To = []string{" "}
				b, _ := json.Marshal(msg)
				return b
			},
		},
		{
			name: "relay error is retried",
			input: func() []byte {
				b, _ := json.Marshal(valid)
				return b
			},
			sendErr:     errors.New("421 service not available"),
			expectError: true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Sent = nil
			s.SendErr = tc.sendErr

			err := s.emailEvent.SendEmailHandler(context.Background(), tc.input())

			if tc.expectError {
				s.Require().Error(err)
				s.Contains(err.Error(), "421 service not available")
			} else {
				s.NoError(err)
			}
			s.Len(s.Sent, tc.expectSent)
		})
	}
}

func (s *EmailEventTestSuite) TestSendEmailHandlerMessage() {
	b, err := json.Marshal(model.SendEmailEventMessage{
		To:          []string{"dana@example.com"},
		Subject:     "Your Catering Quote - Wedding",
		Body:        "Grand Total: $42.67",
		ContentType: "text/plain; charset=UTF-8",
	})
	s.Require().NoError(err)

	s.Require().NoError(s.emailEvent.SendEmailHandler(context.Background(), b))
	s.Require().Len(s.Sent, 1)

	sent := s.Sent[0]
	s.Equal("smtp.example.com:587", sent.addr)
	s.Equal("quotes@example.com", sent.from)
	s.Equal([]string{"dana@example.com"}, sent.to)
	s.Contains(sent.msg, "Subject: Your Catering Quote - Wedding\r\n")
	s.Contains(sent.msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	s.Contains(sent.msg, "\r\n\r\nGrand Total: $42.67")
}
