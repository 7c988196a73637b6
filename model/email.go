package model

type SendEmailEventMessage struct {
	SessionID   string   `json:"session_id"`
	To          []string `json:"to"`
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	ContentType string   `json:"content_type"`
}
