package http

import (
	"catering-quote/common"
	"catering-quote/common/constant"
	"catering-quote/common/errs"
	"catering-quote/common/otel"
	"catering-quote/common/vars"
	"catering-quote/core/order"
	"catering-quote/core/quote"
	"catering-quote/model"
	emailOutbound "catering-quote/outbound/email"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const eventDateLayout = "2006-01-02"

type SessionStore interface {
	Get(ctx context.Context, id string) (*order.Session, error)
	Save(ctx context.Context, s *order.Session) error
	Delete(ctx context.Context, id string) error
}

// QuoteNotifier delivers a rendered quote, either straight over SMTP or
// through the email queue.
type QuoteNotifier interface {
	Notify(ctx context.Context, msg model.SendEmailEventMessage) error
}

type SessionHttp struct {
	Store     SessionStore
	Notifier  QuoteNotifier
	Renderer  emailOutbound.Renderer
	Validate  *validator.Validate
	Formatter quote.Formatter
	Policy    quote.Policy

	TimeNow func() time.Time
	NewID   func() string

	withInfo      bool
	dietaryFilter bool
}

func RegisterSessionHttp(
	mux *http.ServeMux,
	cfg *viper.Viper,
	store SessionStore,
	notifier QuoteNotifier,
	renderer emailOutbound.Renderer,
	validate *validator.Validate,
	formatter quote.Formatter,
	policy quote.Policy,
) *SessionHttp {
	in := &SessionHttp{
		Store:     store,
		Notifier:  notifier,
		Renderer:  renderer,
		Validate:  validate,
		Formatter: formatter,
		Policy:    policy,
		TimeNow:   time.Now,
		NewID:     newSessionID,

		withInfo:      cfg.GetBool("wizard.info_screen"),
		dietaryFilter: cfg.GetBool("catalog.dietary_filter"),
	}

	mux.HandleFunc("POST /api/sessions", in.create)
	mux.HandleFunc("GET /api/sessions/{id}", in.get)
	mux.HandleFunc("DELETE /api/sessions/{id}", in.end)
	mux.HandleFunc("POST /api/sessions/{id}/info", in.submitInfo)
	mux.HandleFunc("POST /api/sessions/{id}/next", in.next)
	mux.HandleFunc("POST /api/sessions/{id}/back", in.back)
	mux.HandleFunc("POST /api/sessions/{id}/selection", in.selection)
	mux.HandleFunc("PUT /api/sessions/{id}/filters", in.filters)
	mux.HandleFunc("GET /api/sessions/{id}/quote", in.quote)
	mux.HandleFunc("POST /api/sessions/{id}/send", in.send)

	return in
}

func (in *SessionHttp) machine() (order.Machine, error) {
	cat := vars.GetCatalog()
	if cat == nil {
		return order.Machine{}, errs.New(http.StatusServiceUnavailable, "Catalog not loaded")
	}
	return order.NewMachine(cat, in.withInfo, in.dietaryFilter), nil
}

// load fetches the session and moves it off a screen the current catalog no
// longer has.
func (in *SessionHttp) load(ctx context.Context, id string) (order.Machine, *order.Session, error) {
	m, err := in.machine()
	if err != nil {
		return order.Machine{}, nil, err
	}

	sess, err := in.Store.Get(ctx, id)
	if err != nil {
		return order.Machine{}, nil, err
	}

	if m.Resume(sess) {
		slog.InfoContext(ctx, "session screen reset after catalog change", slog.String(constant.LogFieldSession, id))
		if err := in.save(ctx, sess); err != nil {
			return order.Machine{}, nil, err
		}
	}

	return m, sess, nil
}

func (in *SessionHttp) save(ctx context.Context, sess *order.Session) error {
	sess.UpdatedAt = in.TimeNow()
	return in.Store.Save(ctx, sess)
}

// mutate runs one transition and persists the session only when it succeeded,
// so a rejected action leaves the stored state untouched.
func (in *SessionHttp) mutate(w http.ResponseWriter, r *http.Request, spanName string, apply func(m order.Machine, sess *order.Session) error) {
	ctx, span := otel.Tracer.Start(r.Context(), spanName)
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	id := r.PathValue("id")

	m, sess, err := in.load(ctx, id)
	if err != nil {
		slog.DebugContext(ctx, "failed to load session", traceIdAttr, slog.String(constant.LogFieldSession, id), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	if err := apply(m, sess); err != nil {
		slog.DebugContext(ctx, "session action rejected", traceIdAttr, slog.String(constant.LogFieldSession, id), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	if err := in.save(ctx, sess); err != nil {
		slog.ErrorContext(ctx, "failed to save session", traceIdAttr, slog.String(constant.LogFieldSession, id), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, in.view(m, sess))
}

func (in *SessionHttp) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "SessionHttp.create")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	m, err := in.machine()
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	sess := order.NewSession(in.NewID(), m.Flow, in.TimeNow())
	if err := in.Store.Save(ctx, sess); err != nil {
		slog.ErrorContext(ctx, "failed to save session", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	slog.InfoContext(ctx, "session started", traceIdAttr, slog.String(constant.LogFieldSession, sess.ID))

	writeJSONResponse(w, http.StatusCreated, in.view(m, sess))
}

func (in *SessionHttp) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "SessionHttp.get")
	defer span.End()

	m, sess, err := in.load(ctx, r.PathValue("id"))
	if err != nil {
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, in.view(m, sess))
}

func (in *SessionHttp) end(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "SessionHttp.end")
	defer span.End()

	id := r.PathValue("id")
	if err := in.Store.Delete(ctx, id); err != nil {
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	slog.InfoContext(ctx, "session ended", common.ExtractTraceIDFromCtx(ctx), slog.String(constant.LogFieldSession, id))

	w.WriteHeader(http.StatusNoContent)
}

func (in *SessionHttp) submitInfo(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	info := order.EventInfo{
		ContactName:  req.Name,
		ContactEmail: req.Email,
		EventType:    req.EventType,
	}
	if req.EventDate != "" {
		date, err := time.Parse(eventDateLayout, req.EventDate)
		if err != nil {
			writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
			return
		}
		info.EventDate = &date
	}

	in.mutate(w, r, "SessionHttp.submitInfo", func(m order.Machine, sess *order.Session) error {
		return m.Submit(sess, info)
	})
}

func (in *SessionHttp) next(w http.ResponseWriter, r *http.Request) {
	in.mutate(w, r, "SessionHttp.next", func(m order.Machine, sess *order.Session) error {
		return m.Next(sess)
	})
}

func (in *SessionHttp) back(w http.ResponseWriter, r *http.Request) {
	in.mutate(w, r, "SessionHttp.back", func(m order.Machine, sess *order.Session) error {
		return m.Back(sess)
	})
}

func (in *SessionHttp) selection(w http.ResponseWriter, r *http.Request) {
	var req model.SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	if req.Include == nil && req.Quantity == nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	in.mutate(w, r, "SessionHttp.selection", func(m order.Machine, sess *order.Session) error {
		if req.Include != nil {
			if err := m.Include(sess, req.Item, *req.Include); err != nil {
				return err
			}
		}
		if req.Quantity != nil {
			return m.SetQuantity(sess, req.Item, *req.Quantity)
		}
		return nil
	})
}

func (in *SessionHttp) filters(w http.ResponseWriter, r *http.Request) {
	if !in.dietaryFilter {
		writeErrorResponse(w, errs.New(http.StatusConflict, "Dietary filter disabled"))
		return
	}

	var req model.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	in.mutate(w, r, "SessionHttp.filters", func(m order.Machine, sess *order.Session) error {
		return m.SetFilter(sess, req.Tags)
	})
}

func (in *SessionHttp) quote(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "SessionHttp.quote")
	defer span.End()

	m, sess, err := in.load(ctx, r.PathValue("id"))
	if err != nil {
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	q := quote.Calculate(sess.Selection, m.Catalog, in.Policy)
	writeJSONResponse(w, http.StatusOK, quoteResponse(q, in.Policy, in.Formatter))
}

// send renders the quote and hands it to the notifier. The session is never
// written here, so a failed delivery can simply be retried.
func (in *SessionHttp) send(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "SessionHttp.send")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	id := r.PathValue("id")

	m, sess, err := in.load(ctx, id)
	if err != nil {
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	if !m.CanSend(sess) {
		writeErrorResponse(w, fmt.Errorf("%w: send on %s", order.ErrInvalidTransition, sess.Screen.Name()))
		return
	}

	q := quote.Calculate(sess.Selection, m.Catalog, in.Policy)
	if err := q.Err(); err != nil {
		slog.WarnContext(ctx, "quote skipped selections", traceIdAttr, slog.String(constant.LogFieldSession, id), slog.Any(constant.LogFieldErr, err))
	}

	body, contentType, err := in.Renderer.Render(emailOutbound.QuoteMail{Event: sess.Event, Quote: q, Policy: in.Policy})
	if err != nil {
		slog.ErrorContext(ctx, "failed to render quote email", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		writeErrorResponse(w, err)
		return
	}

	to := strings.TrimSpace(sess.Event.ContactEmail)
	if to == "" {
		writeErrorResponse(w, errs.New(http.StatusBadGateway, emailOutbound.ErrNoRecipient.Error()))
		return
	}

	msg := model.SendEmailEventMessage{
		SessionID:   sess.ID,
		To:          []string{to},
		Subject:     fmt.Sprintf(constant.EmailQuoteSubject, sess.Event.EventType),
		Body:        body,
		ContentType: contentType,
	}

	if err := in.Notifier.Notify(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to send quote email", traceIdAttr, slog.String(constant.LogFieldSession, id), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		writeErrorResponse(w, errs.New(http.StatusBadGateway, err.Error()))
		return
	}

	slog.InfoContext(ctx, "quote email sent", traceIdAttr, slog.String(constant.LogFieldSession, id))

	writeJSONResponse(w, http.StatusOK, model.MessageResponse{Message: constant.EmailSentMessage})
}

func (in *SessionHttp) view(m order.Machine, sess *order.Session) model.SessionResponse {
	resp := model.SessionResponse{
		ID: sess.ID,
		Screen: model.ScreenResponse{
			Kind:     string(sess.Screen.Kind),
			Category: sess.Screen.Category,
			Name:     sess.Screen.Name(),
		},
		Navigation: model.NavigationResponse{
			CanBack:   m.CanBack(sess),
			BackLabel: m.BackLabel(sess),
			CanNext:   m.CanNext(sess),
			CanSend:   m.CanSend(sess),
		},
		Event: model.EventInfoResponse{
			Name:      sess.Event.ContactName,
			Email:     sess.Event.ContactEmail,
			EventType: sess.Event.EventType,
		},
		Selection:    sess.Selection,
		CurrentTotal: in.Formatter.Money(quote.Subtotal(sess.Selection, m.Catalog)),
	}

	if sess.Event.EventDate != nil {
		date := sess.Event.EventDate.Format(eventDateLayout)
		resp.Event.EventDate = &date
	}

	switch sess.Screen.Kind {
	case order.ScreenCategory:
		resp.Items = []model.ScreenItemResponse{}
		for _, item := range m.VisibleItems(sess) {
			screenItem := model.ScreenItemResponse{CatalogItemResponse: catalogItemResponse(item)}
			if qty, ok := sess.Selection[item.Name]; ok {
				screenItem.Included = true
				screenItem.Quantity = &qty
			}
			resp.Items = append(resp.Items, screenItem)
		}

		if m.DietaryFilter {
			resp.Filter = sess.Filter(sess.Screen.Category)
			resp.DietaryTags = m.Catalog.DietaryTags()
		}
	case order.ScreenSummary:
		q := quote.Calculate(sess.Selection, m.Catalog, in.Policy)
		resp.Quote = quoteResponse(q, in.Policy, in.Formatter)
	}

	return resp
}
