package order

import (
	"errors"
	"fmt"

	"catering-quote/core/catalog"
)

var (
	ErrInvalidTransition  = errors.New("transition not allowed from current screen")
	ErrUnknownItem        = errors.New("unknown item")
	ErrItemNotOnScreen    = errors.New("item is not on the current screen")
	ErrItemNotSelected    = errors.New("item is not selected")
	ErrQuantityOutOfRange = errors.New("quantity out of range")
)

// Machine applies wizard transitions to a session against one catalog.
type Machine struct {
	Flow          Flow
	Catalog       *catalog.Catalog
	DietaryFilter bool
}

func NewMachine(cat *catalog.Catalog, withInfo, dietaryFilter bool) Machine {
	return Machine{
		Flow:          NewFlow(cat.Categories(), withInfo),
		Catalog:       cat,
		DietaryFilter: dietaryFilter,
	}
}

// Resume puts a session whose screen no longer exists (the catalog was
// reloaded under it) back on the start screen. It reports whether it moved.
func (m Machine) Resume(s *Session) bool {
	if m.Flow.Contains(s.Screen) {
		return false
	}
	s.Screen = m.Flow.Start()
	return true
}

// Submit overwrites the event info and moves to the first category. Any
// field values, empty ones included, are accepted.
func (m Machine) Submit(s *Session, info EventInfo) error {
	if s.Screen.Kind != ScreenInfo {
		return fmt.Errorf("%w: submit on %s", ErrInvalidTransition, s.Screen.Name())
	}

	s.Event = info
	s.Screen = m.Flow.FirstAfterInfo()
	return nil
}

func (m Machine) Next(s *Session) error {
	if s.Screen.Kind != ScreenCategory {
		return fmt.Errorf("%w: next on %s", ErrInvalidTransition, s.Screen.Name())
	}

	next, ok := m.Flow.Next(s.Screen)
	if !ok {
		return fmt.Errorf("%w: next on %s", ErrInvalidTransition, s.Screen.Name())
	}

	s.Screen = next
	return nil
}

func (m Machine) Back(s *Session) error {
	prev, ok := m.Flow.Prev(s.Screen)
	if !ok {
		return fmt.Errorf("%w: back on %s", ErrInvalidTransition, s.Screen.Name())
	}

	s.Screen = prev
	return nil
}

func (m Machine) CanNext(s *Session) bool {
	if s.Screen.Kind != ScreenCategory {
		return false
	}
	_, ok := m.Flow.Next(s.Screen)
	return ok
}

func (m Machine) CanBack(s *Session) bool {
	_, ok := m.Flow.Prev(s.Screen)
	return ok
}

func (m Machine) CanSend(s *Session) bool {
	return s.Screen.Kind == ScreenSummary
}

// BackLabel names the screen Back leads to, or "" when Back is disabled.
func (m Machine) BackLabel(s *Session) string {
	prev, ok := m.Flow.Prev(s.Screen)
	if !ok {
		return ""
	}
	return prev.Name()
}

// Include toggles an item on the current category screen. Including keeps an
// existing quantity or starts from the default; excluding drops the entry.
func (m Machine) Include(s *Session, name string, include bool) error {
	item, err := m.visibleItem(s, name)
	if err != nil {
		return err
	}

	if !include {
		delete(s.Selection, name)
		return nil
	}

	if s.Selection == nil {
		s.Selection = make(map[string]int)
	}
	if _, ok := s.Selection[name]; !ok {
		s.Selection[name] = item.DefaultQuantity
	}
	return nil
}

// SetQuantity overwrites the quantity of an included item. The allowed range
// is [0, 2 x default]; zero keeps the item included.
func (m Machine) SetQuantity(s *Session, name string, qty int) error {
	item, err := m.visibleItem(s, name)
	if err != nil {
		return err
	}

	if _, ok := s.Selection[name]; !ok {
		return fmt.Errorf("%w: %q", ErrItemNotSelected, name)
	}

	if qty < 0 || qty > item.MaxQuantity() {
		return fmt.Errorf("%w: %q accepts 0..%d, got %d", ErrQuantityOutOfRange, name, item.MaxQuantity(), qty)
	}

	s.Selection[name] = qty
	return nil
}

// SetFilter stores the dietary filter of the current category screen. It
// only changes which items are listed, never the selection.
func (m Machine) SetFilter(s *Session, tags []string) error {
	if s.Screen.Kind != ScreenCategory {
		return fmt.Errorf("%w: filter on %s", ErrInvalidTransition, s.Screen.Name())
	}

	if s.Filters == nil {
		s.Filters = make(map[string][]string)
	}

	uniq := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok || tag == "" {
			continue
		}
		seen[tag] = struct{}{}
		uniq = append(uniq, tag)
	}

	if len(uniq) == 0 {
		delete(s.Filters, s.Screen.Category)
		return nil
	}

	s.Filters[s.Screen.Category] = uniq
	return nil
}

// VisibleItems lists the items of the current category screen after the
// dietary filter. Other screens list nothing.
func (m Machine) VisibleItems(s *Session) []catalog.Item {
	if s.Screen.Kind != ScreenCategory {
		return nil
	}

	var keep catalog.Predicate
	if m.DietaryFilter {
		keep = catalog.DietaryFilter(s.Filter(s.Screen.Category))
	}

	return m.Catalog.InCategory(s.Screen.Category, keep)
}

func (m Machine) visibleItem(s *Session, name string) (catalog.Item, error) {
	item, ok := m.Catalog.Lookup(name)
	if !ok {
		return catalog.Item{}, fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}

	for _, visible := range m.VisibleItems(s) {
		if visible.Name == name {
			return item, nil
		}
	}

	return catalog.Item{}, fmt.Errorf("%w: %q on %s", ErrItemNotOnScreen, name, s.Screen.Name())
}
