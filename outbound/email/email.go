package email

import (
	"catering-quote/common"
	"catering-quote/common/otel"
	"catering-quote/model"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
)

var ErrNoRecipient = errors.New("email has no recipient")

type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailOutbound struct {
	Cfg      *viper.Viper
	SendMail SendMailFunc
	TimeNow  func() time.Time

	auth  smtp.Auth
	addr  string
	email string
}

func (out *EmailOutbound) Init() {
	host := out.Cfg.GetString("email.host")

	out.email = out.Cfg.GetString("email.from")
	if out.email == "" {
		out.email = out.Cfg.GetString("email.user")
	}
	out.addr = fmt.Sprintf("%s:%d", host, out.Cfg.GetInt("email.port"))
	out.auth = smtp.PlainAuth("", out.Cfg.GetString("email.user"), out.Cfg.GetString("email.password"), host)

	if out.SendMail == nil {
		out.SendMail = smtp.SendMail
	}
	if out.TimeNow == nil {
		out.TimeNow = time.Now
	}
}

// Send transmits one message over an authenticated relay session. smtp.SendMail
// upgrades with STARTTLS when the relay offers it.
func (out *EmailOutbound) Send(ctx context.Context, msg model.SendEmailEventMessage) error {
	_, span := otel.Tracer.Start(ctx, "EmailOutbound.Send")
	defer span.End()

	span.SetAttributes(attribute.Int("email.recipients", len(msg.To)))

	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		common.UtilSpanError(span, ErrNoRecipient)
		return ErrNoRecipient
	}

	err := out.SendMail(out.addr, out.auth, out.email, to, out.buildMessage(to, msg))
	if err != nil {
		common.UtilSpanError(span, err)
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}

// Notify lets the outbound serve directly as the quote notifier.
func (out *EmailOutbound) Notify(ctx context.Context, msg model.SendEmailEventMessage) error {
	return out.Send(ctx, msg)
}

func (out *EmailOutbound) buildMessage(to []string, msg model.SendEmailEventMessage) []byte {
	contentType := msg.ContentType
	if contentType == "" {
		contentType = "text/plain; charset=UTF-8"
	}

	var sb strings.Builder
	sb.WriteString("From: " + out.email + "\r\n")
	sb.WriteString("To: " + strings.Join(to, ",") + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	sb.WriteString("Date: " + out.TimeNow().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: " + contentType + "\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(msg.Body)

	return []byte(sb.String())
}
