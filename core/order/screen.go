package order

type ScreenKind string

const (
	ScreenInfo     ScreenKind = "info"
	ScreenCategory ScreenKind = "category"
	ScreenSummary  ScreenKind = "summary"
)

type Screen struct {
	Kind     ScreenKind `json:"kind"`
	Category string     `json:"category,omitempty"`
}

func InfoScreen() Screen {
	return Screen{Kind: ScreenInfo}
}

func SummaryScreen() Screen {
	return Screen{Kind: ScreenSummary}
}

func CategoryScreen(category string) Screen {
	return Screen{Kind: ScreenCategory, Category: category}
}

// Name is the label used for navigation, e.g. "Back to desserts".
func (s Screen) Name() string {
	if s.Kind == ScreenCategory {
		return s.Category
	}
	return string(s.Kind)
}

// Flow is the fixed screen sequence of a wizard: the optional info screen, one
// screen per category, then the summary.
type Flow struct {
	screens []Screen
}

func NewFlow(categories []string, withInfo bool) Flow {
	screens := make([]Screen, 0, len(categories)+2)
	if withInfo {
		screens = append(screens, InfoScreen())
	}
	for _, c := range categories {
		screens = append(screens, CategoryScreen(c))
	}
	screens = append(screens, SummaryScreen())

	return Flow{screens: screens}
}

func (f Flow) Screens() []Screen {
	out := make([]Screen, len(f.screens))
	copy(out, f.screens)
	return out
}

func (f Flow) HasInfo() bool {
	return len(f.screens) > 0 && f.screens[0].Kind == ScreenInfo
}

// Start is the screen a new session opens on.
func (f Flow) Start() Screen {
	return f.screens[0]
}

// FirstAfterInfo is where submitting the info form leads: the first category,
// or the summary when the catalog has no categories.
func (f Flow) FirstAfterInfo() Screen {
	if f.HasInfo() {
		return f.screens[1]
	}
	return f.screens[0]
}

func (f Flow) Index(s Screen) int {
	for i, screen := range f.screens {
		if screen == s {
			return i
		}
	}
	return -1
}

func (f Flow) Contains(s Screen) bool {
	return f.Index(s) >= 0
}

func (f Flow) Next(s Screen) (Screen, bool) {
	idx := f.Index(s)
	if idx < 0 || idx+1 >= len(f.screens) {
		return Screen{}, false
	}
	return f.screens[idx+1], true
}

func (f Flow) Prev(s Screen) (Screen, bool) {
	idx := f.Index(s)
	if idx <= 0 {
		return Screen{}, false
	}
	return f.screens[idx-1], true
}

func (f Flow) Last() Screen {
	return f.screens[len(f.screens)-1]
}
