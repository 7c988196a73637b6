package event

import (
	"catering-quote/common"
	"catering-quote/common/constant"
	"catering-quote/common/otel"
	"catering-quote/model"
	emailOutbound "catering-quote/outbound/email"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

type EmailEvent struct {
	EmailOutbound *emailOutbound.EmailOutbound
	Timeout       time.Duration
}

// SendEmailHandler delivers one queued quote email. Messages that can never
// succeed (bad payload, no recipient) are dropped so they are not redelivered.
func (in EmailEvent) SendEmailHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	ctx, span := otel.Tracer.Start(ctx, "EmailEvent.SendEmailHandler")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	reqAttr := slog.Any(constant.LogFieldPayload, string(msg))

	var req model.SendEmailEventMessage
	err := json.Unmarshal(msg, &req)
	if err != nil {
		slog.WarnContext(ctx, "send email event unmarshal error", traceIdAttr, reqAttr, slog.Any(constant.LogFieldErr, err))
		return nil
	}

	err = in.EmailOutbound.Send(ctx, req)
	if errors.Is(err, emailOutbound.ErrNoRecipient) {
		slog.WarnContext(ctx, "send email event without recipient", traceIdAttr, slog.String(constant.LogFieldSession, req.SessionID))
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "send email event error", traceIdAttr, slog.String(constant.LogFieldSession, req.SessionID), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return err
	}

	slog.InfoContext(ctx, "quote email delivered", traceIdAttr, slog.String(constant.LogFieldSession, req.SessionID))

	return nil
}
