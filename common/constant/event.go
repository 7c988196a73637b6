package constant

const (
	QueueStreamName = "catering_quote_queue_stream"
)

const (
	AllWildcard   = "events.>"
	EmailWildcard = "events.email.>"

	SubjectSendEmail = "events.email.send"
)
