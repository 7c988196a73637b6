package order

import (
	"errors"
	"testing"
	"time"

	"catering-quote/core/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type MachineTestSuite struct {
	suite.Suite

	Catalog *catalog.Catalog
	Machine Machine
	Session *Session
}

func (s *MachineTestSuite) SetupTest() {
	cat, err := catalog.New([]catalog.Item{
		{Name: "Spring Rolls", UnitPrice: decimal.RequireFromString("2.5"), DefaultQuantity: 10, Category: "appetizers", DietaryTags: []string{"Vegan"}},
		{Name: "Shrimp Cocktail", UnitPrice: decimal.RequireFromString("4"), DefaultQuantity: 6, Category: "appetizers"},
		{Name: "Beef Sliders", UnitPrice: decimal.RequireFromString("5"), DefaultQuantity: 12, Category: "entrees"},
		{Name: "Brownies", UnitPrice: decimal.RequireFromString("1"), DefaultQuantity: 20, Category: "desserts", DietaryTags: []string{"Vegan"}},
	})
	s.Require().NoError(err)

	s.Catalog = cat
	s.Machine = NewMachine(cat, true, true)
	s.Session = NewSession("01HZX", s.Machine.Flow, time.Date(2025, 8, 6, 10, 0, 0, 0, time.UTC))
}

func TestMachineTestSuite(t *testing.T) {
	suite.Run(t, new(MachineTestSuite))
}

func (s *MachineTestSuite) TestFlow() {
	s.Equal([]Screen{
		InfoScreen(),
		CategoryScreen("appetizers"),
		CategoryScreen("entrees"),
		CategoryScreen("desserts"),
		SummaryScreen(),
	}, s.Machine.Flow.Screens())
	s.Equal(InfoScreen(), s.Session.Screen)
}

func (s *MachineTestSuite) TestSubmit() {
	date := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	info := EventInfo{ContactName: "Jamie", ContactEmail: "jamie@example.com", EventType: "Corporate Luncheon", EventDate: &date}

	s.Require().NoError(s.Machine.Submit(s.Session, info))
	s.Equal(CategoryScreen("appetizers"), s.Session.Screen)
	s.Equal(info, s.Session.Event)

	err := s.Machine.Submit(s.Session, EventInfo{})
	s.True(errors.Is(err, ErrInvalidTransition))
	s.Equal(info, s.Session.Event)
}

func (s *MachineTestSuite) TestSubmitAcceptsEmptyFields() {
	s.Require().NoError(s.Machine.Submit(s.Session, EventInfo{}))
	s.Equal(CategoryScreen("appetizers"), s.Session.Screen)
	s.Nil(s.Session.Event.EventDate)
}

func (s *MachineTestSuite) TestNavigation() {
	s.True(errors.Is(s.Machine.Next(s.Session), ErrInvalidTransition))
	s.True(errors.Is(s.Machine.Back(s.Session), ErrInvalidTransition))
	s.False(s.Machine.CanBack(s.Session))
	s.False(s.Machine.CanNext(s.Session))

	s.Require().NoError(s.Machine.Submit(s.Session, EventInfo{}))
	s.Equal("info", s.Machine.BackLabel(s.Session))

	s.Require().NoError(s.Machine.Next(s.Session))
	s.Equal(CategoryScreen("entrees"), s.Session.Screen)
	s.Require().NoError(s.Machine.Next(s.Session))
	s.Equal(CategoryScreen("desserts"), s.Session.Screen)
	s.False(s.Machine.CanSend(s.Session))

	s.Require().NoError(s.Machine.Next(s.Session))
	s.Equal(SummaryScreen(), s.Session.Screen)
	s.True(s.Machine.CanSend(s.Session))
	s.False(s.Machine.CanNext(s.Session))
	s.Equal("desserts", s.Machine.BackLabel(s.Session))
	s.True(errors.Is(s.Machine.Next(s.Session), ErrInvalidTransition))

	s.Require().NoError(s.Machine.Back(s.Session))
	s.Equal(CategoryScreen("desserts"), s.Session.Screen)
	s.Require().NoError(s.Machine.Next(s.Session))
	s.Equal(SummaryScreen(), s.Session.Screen)

	for i := 0; i < 4; i++ {
		s.Require().NoError(s.Machine.Back(s.Session))
	}
	s.Equal(InfoScreen(), s.Session.Screen)
}

func (s *MachineTestSuite) TestNoInfoScreen() {
	m := NewMachine(s.Catalog, false, false)
	session := NewSession("x", m.Flow, time.Now())

	s.Equal(CategoryScreen("appetizers"), session.Screen)
	s.False(m.CanBack(session))
	s.True(errors.Is(m.Back(session), ErrInvalidTransition))
	s.True(errors.Is(m.Submit(session, EventInfo{}), ErrInvalidTransition))
}

func (s *MachineTestSuite) TestEmptyCatalogGoesStraightToSummary() {
	cat, err := catalog.New(nil)
	s.Require().NoError(err)

	m := NewMachine(cat, true, false)
	session := NewSession("x", m.Flow, time.Now())

	s.Require().NoError(m.Submit(session, EventInfo{}))
	s.Equal(SummaryScreen(), session.Screen)
	s.Equal("info", m.BackLabel(session))
}

func (s *MachineTestSuite) TestInclude() {
	s.Require().NoError(s.Machine.Submit(s.Session, EventInfo{}))

	s.Require().NoError(s.Machine.Include(s.Session, "Spring Rolls", true))
	s.Equal(10, s.Session.Selection["Spring Rolls"])

	s.Require().NoError(s.Machine.SetQuantity(s.Session, "Spring Rolls", 17))
	s.Require().NoError(s.Machine.Include(s.Session, "Spring Rolls", true))
	s.Equal(17, s.Session.Selection["Spring Rolls"])

	s.Require().NoError(s.Machine.Include(s.Session, "Spring Rolls", false))
	s.False(s.Session.Included("Spring Rolls"))

	s.Require().NoError(s.Machine.Include(s.Session, "Spring Rolls", true))
	s.Equal(10, s.Session.Selection["Spring Rolls"])
}

func (s *MachineTestSuite) TestIncludeErrors() {
	s.True(errors.Is(s.Machine.Include(s.Session, "Spring Rolls", true), ErrItemNotOnScreen))

	s.Require().NoError(s.Machine.Submit(s.Session, EventInfo{}))

	s.True(errors.Is(s.Machine.Include(s.Session, "Caviar", true), ErrUnknownItem))
	s.True(errors.Is(s.Machine.Include(s.Session, "Beef Sliders", true), ErrItemNotOnScreen))
	s.Empty(s.Session.Selection)
}

func (s *MachineTestSuite) TestSetQuantity() {
	s.Require().NoError(s.Machine.Submit(s.Session, EventInfo{}))

	s.True(errors.Is(s.Machine.SetQuantity(s.Session, "Shrimp Cocktail", 3), ErrItemNotSelected))

	s.Require().NoError(s.Machine.Include(s.Session, "Shrimp Cocktail", true))
	s.True(errors.Is(s.Machine.SetQuantity(s.Session, "Shrimp Cocktail", 13), ErrQuantityOutOfRange))
	s.True(errors.Is(s.Machine.SetQuantity(s.Session, "Shrimp Cocktail", -1), ErrQuantityOutOfRange))
	s.Equal(6, s.Session.Selection["Shrimp Cocktail"])

	s.Require().NoError(s.Machine.SetQuantity(s.Session, "Shrimp Cocktail", 12))
	s.Equal(12, s.Session.Selection["Shrimp Cocktail"])

	s.Require().NoError(s.Machine.SetQuantity(s.Session, "Shrimp Cocktail", 0))
	s.True(s.Session.Included("Shrimp Cocktail"))
	s.Equal(0, s.Session.Selection["Shrimp Cocktail"])
}

func (s *MachineTestSuite) TestDietaryFilter() {
	s.True(errors.Is(s.Machine.SetFilter(s.Session, []string{"Vegan"}), ErrInvalidTransition))

	s.Require().NoError(s.Machine.Submit(s.Session, EventInfo{}))
	s.Require().NoError(s.Machine.Include(s.Session, "Shrimp Cocktail", true))

	s.Require().NoError(s.Machine.SetFilter(s.Session, []string{"Vegan", "Vegan", ""}))
	s.Equal([]string{"Vegan"}, s.Session.Filter("appetizers"))

	visible := s.Machine.VisibleItems(s.Session)
	s.Require().Len(visible, 1)
	s.Equal("Spring Rolls", visible[0].Name)

	s.True(s.Session.Included("Shrimp Cocktail"))
	s.True(errors.Is(s.Machine.Include(s.Session, "Shrimp Cocktail", false), ErrItemNotOnScreen))

	s.Require().NoError(s.Machine.Next(s.Session))
	s.Len(s.Machine.VisibleItems(s.Session), 1)
	s.Nil(s.Session.Filter("entrees"))

	s.Require().NoError(s.Machine.Back(s.Session))
	s.Require().NoError(s.Machine.SetFilter(s.Session, nil))
	s.Len(s.Machine.VisibleItems(s.Session), 2)
}

func (s *MachineTestSuite) TestDietaryFilterDisabled() {
	m := NewMachine(s.Catalog, true, false)
	s.Require().NoError(m.Submit(s.Session, EventInfo{}))
	s.Require().NoError(m.SetFilter(s.Session, []string{"Vegan"}))

	s.Len(m.VisibleItems(s.Session), 2)
}

func (s *MachineTestSuite) TestResume() {
	s.Session.Screen = CategoryScreen("soups")

	s.True(s.Machine.Resume(s.Session))
	s.Equal(InfoScreen(), s.Session.Screen)
	s.False(s.Machine.Resume(s.Session))
}
