package email

import (
	"bytes"
	"catering-quote/common/constant"
	"catering-quote/core/order"
	"catering-quote/core/quote"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// QuoteMail is everything a renderer needs to describe one quote.
type QuoteMail struct {
	Event  order.EventInfo
	Quote  quote.Quote
	Policy quote.Policy
}

type Renderer interface {
	Render(mail QuoteMail) (body string, contentType string, err error)
}

type lineView struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

type mailView struct {
	ContactName  string
	ContactEmail string
	EventType    string
	EventDate    string
	Lines        []lineView
	Subtotal     string
	ShowFee      bool
	FeePercent   string
	ServiceFee   string
	ShowTax      bool
	TaxPercent   string
	Tax          string
	GrandTotal   string
}

func newMailView(mail QuoteMail, f quote.Formatter) mailView {
	eventDate := "TBD"
	if mail.Event.EventDate != nil {
		eventDate = mail.Event.EventDate.Format("January 2, 2006")
	}

	lines := make([]lineView, 0, len(mail.Quote.Lines))
	for _, line := range mail.Quote.Lines {
		lines = append(lines, lineView{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: f.Money(line.UnitPrice),
			LineTotal: f.Money(line.LineTotal),
		})
	}

	return mailView{
		ContactName:  mail.Event.ContactName,
		ContactEmail: mail.Event.ContactEmail,
		EventType:    mail.Event.EventType,
		EventDate:    eventDate,
		Lines:        lines,
		Subtotal:     f.Money(mail.Quote.Subtotal),
		ShowFee:      mail.Policy.ServiceFeePercent.IsPositive(),
		FeePercent:   f.Percent(mail.Policy.ServiceFeePercent),
		ServiceFee:   f.Money(mail.Quote.ServiceFee),
		ShowTax:      mail.Policy.TaxPercent.IsPositive(),
		TaxPercent:   f.Percent(mail.Policy.TaxPercent),
		Tax:          f.Money(mail.Quote.Tax),
		GrandTotal:   f.Money(mail.Quote.GrandTotal),
	}
}

type HTMLRenderer struct {
	Formatter quote.Formatter
	tmpl      *htmltemplate.Template
}

func NewHTMLRenderer(f quote.Formatter) (*HTMLRenderer, error) {
	tmpl, err := htmltemplate.New("quote.html").Parse(constant.EmailQuoteHTMLTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse html template: %w", err)
	}
	return &HTMLRenderer{Formatter: f, tmpl: tmpl}, nil
}

func (r *HTMLRenderer) Render(mail QuoteMail) (string, string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, newMailView(mail, r.Formatter)); err != nil {
		return "", "", fmt.Errorf("render html quote: %w", err)
	}
	return buf.String(), "text/html; charset=UTF-8", nil
}

type PlainRenderer struct {
	Formatter quote.Formatter
	tmpl      *texttemplate.Template
}

func NewPlainRenderer(f quote.Formatter) (*PlainRenderer, error) {
	tmpl, err := texttemplate.New("quote.txt").Parse(constant.EmailQuotePlainTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse text template: %w", err)
	}
	return &PlainRenderer{Formatter: f, tmpl: tmpl}, nil
}

func (r *PlainRenderer) Render(mail QuoteMail) (string, string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, newMailView(mail, r.Formatter)); err != nil {
		return "", "", fmt.Errorf("render text quote: %w", err)
	}
	return buf.String(), "text/plain; charset=UTF-8", nil
}

// NewRenderer picks the message format configured under email.format.
func NewRenderer(format string, f quote.Formatter) (Renderer, error) {
	switch format {
	case "", constant.EmailFormatHTML:
		return NewHTMLRenderer(f)
	case constant.EmailFormatPlain:
		return NewPlainRenderer(f)
	default:
		return nil, fmt.Errorf("unknown email format %q", format)
	}
}
