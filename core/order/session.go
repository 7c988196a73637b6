package order

import "time"

type EventInfo struct {
	ContactName  string     `json:"contact_name"`
	ContactEmail string     `json:"contact_email"`
	EventType    string     `json:"event_type"`
	EventDate    *time.Time `json:"event_date"`
}

// Session is the whole state of one wizard run. It is owned by the request
// that loaded it and written back after every mutation.
type Session struct {
	ID        string              `json:"id"`
	Screen    Screen              `json:"screen"`
	Event     EventInfo           `json:"event"`
	Selection map[string]int      `json:"selection"`
	Filters   map[string][]string `json:"filters,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func NewSession(id string, flow Flow, now time.Time) *Session {
	return &Session{
		ID:        id,
		Screen:    flow.Start(),
		Selection: make(map[string]int),
		Filters:   make(map[string][]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) Included(name string) bool {
	_, ok := s.Selection[name]
	return ok
}

// Filter returns the dietary tags chosen on the given category screen.
func (s *Session) Filter(category string) []string {
	if s.Filters == nil {
		return nil
	}
	return s.Filters[category]
}
