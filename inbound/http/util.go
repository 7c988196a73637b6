package http

import (
	"catering-quote/common/errs"
	"catering-quote/core/catalog"
	"catering-quote/core/order"
	"catering-quote/core/quote"
	"catering-quote/model"
	"catering-quote/outbound/sessionstore"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
)

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeErrorResponse(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")

	err = mapDomainError(err)

	var message string
	var data any
	var httpErr *errs.HttpError
	var validationErr validator.ValidationErrors
	if errors.As(err, &httpErr) {
		message = httpErr.Message
		data = httpErr.Data
		w.WriteHeader(httpErr.Code)
	} else if errors.As(err, &validationErr) {
		message = "Validation failed"
		w.WriteHeader(http.StatusBadRequest)

		validationErrors := make(map[string]string)
		for _, fieldErr := range validationErr {
			fieldName := fieldErr.Field()
			validationErrors[fieldName] = fieldErr.Tag()
		}

		data = validationErrors
	} else {
		message = "Internal Server Error"
		w.WriteHeader(500)
	}

	errorResponse := model.ErrorResponse{Error: message, Data: data}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// mapDomainError turns sentinel errors of the wizard into client errors.
// Anything unrecognised passes through and ends up as a 500.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, sessionstore.ErrSessionNotFound):
		return errs.New(http.StatusNotFound, "Session not found")
	case errors.Is(err, order.ErrUnknownItem):
		return errs.New(http.StatusNotFound, "Item not found")
	case errors.Is(err, order.ErrInvalidTransition):
		return errs.New(http.StatusConflict, "Action not allowed on current screen")
	case errors.Is(err, order.ErrItemNotOnScreen):
		return errs.New(http.StatusConflict, "Item not on current screen")
	case errors.Is(err, order.ErrItemNotSelected):
		return errs.New(http.StatusConflict, "Item not selected")
	case errors.Is(err, order.ErrQuantityOutOfRange):
		return &errs.HttpError{Code: http.StatusBadRequest, Message: "Quantity out of range", Data: err.Error()}
	default:
		return err
	}
}

func newSessionID() string {
	return ulid.Make().String()
}

func catalogItemResponse(item catalog.Item) model.CatalogItemResponse {
	tags := item.DietaryTags
	if tags == nil {
		tags = []string{}
	}

	return model.CatalogItemResponse{
		Name:            item.Name,
		UnitPrice:       item.UnitPrice.String(),
		DefaultQuantity: item.DefaultQuantity,
		MaxQuantity:     item.MaxQuantity(),
		Description:     item.Description,
		Category:        item.Category,
		DietaryTags:     tags,
	}
}

func quoteResponse(q quote.Quote, policy quote.Policy, f quote.Formatter) *model.QuoteResponse {
	lines := make([]model.QuoteLineResponse, 0, len(q.Lines))
	for _, line := range q.Lines {
		lines = append(lines, model.QuoteLineResponse{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.String(),
			LineTotal: line.LineTotal.StringFixed(2),
		})
	}

	return &model.QuoteResponse{
		Lines:             lines,
		Subtotal:          q.Subtotal.StringFixed(2),
		ServiceFeePercent: f.Percent(policy.ServiceFeePercent),
		ServiceFee:        q.ServiceFee.StringFixed(2),
		TaxPercent:        f.Percent(policy.TaxPercent),
		Tax:               q.Tax.StringFixed(2),
		GrandTotal:        q.GrandTotal.StringFixed(2),
		Missing:           q.Missing,
		Display: model.QuoteDisplay{
			Subtotal:   f.Money(q.Subtotal),
			ServiceFee: f.Money(q.ServiceFee),
			Tax:        f.Money(q.Tax),
			GrandTotal: f.Money(q.GrandTotal),
		},
	}
}
