package pgcatalog

import (
	"catering-quote/core/catalog"
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/suite"
)

var (
	findAllQuery = regexp.QuoteMeta(findAllCatalogItems)
	itemColumns  = []string{"name", "unit_price", "servings", "description", "category", "dietary_tags"}
)

type RepositoryTestSuite struct {
	suite.Suite

	PgxMock pgxmock.PgxPoolIface
	Repo    Repository
}

func (s *RepositoryTestSuite) SetupTest() {
	pool, err := pgxmock.NewPool()
	if err != nil {
		s.T().Fatalf("failed to create pgxmock pool: %v", err)
	}

	s.PgxMock = pool
	s.Repo = Repository{Db: pool}
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.PgxMock.Close()
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) TestLoad() {
	tests := []struct {
		name      string
		setupMock func()
		assert    func(cat *catalog.Catalog, err error)
	}{
		{
			name: "success",
			setupMock: func() {
				rows := pgxmock.NewRows(itemColumns).
					AddRow("Spring Rolls", "2.50", int32(12), "Crispy", "Appetizers", []string{"Vegan"}).
					AddRow("Beef Sliders", "4.00", int32(8), "", "Entrees", []string{})
				s.PgxMock.ExpectQuery(findAllQuery).WillReturnRows(rows)
			},
			assert: func(cat *catalog.Catalog, err error) {
				s.Require().NoError(err)
				s.Equal(2, cat.Len())
				s.Equal([]string{"Appetizers", "Entrees"}, cat.Categories())

				item, ok := cat.Lookup("Spring Rolls")
				s.Require().True(ok)
				s.Equal("2.5", item.UnitPrice.String())
				s.Equal(12, item.DefaultQuantity)
				s.Equal([]string{"Vegan"}, item.DietaryTags)
			},
		},
		{
			name: "empty table",
			setupMock: func() {
				s.PgxMock.ExpectQuery(findAllQuery).WillReturnRows(pgxmock.NewRows(itemColumns))
			},
			assert: func(cat *catalog.Catalog, err error) {
				s.Require().NoError(err)
				s.Equal(0, cat.Len())
			},
		},
		{
			name: "database error",
			setupMock: func() {
				s.PgxMock.ExpectQuery(findAllQuery).WillReturnError(fmt.Errorf("database error"))
			},
			assert: func(cat *catalog.Catalog, err error) {
				s.Nil(cat)
				s.EqualError(err, "find catalog items: database error")
			},
		},
		{
			name: "bad price",
			setupMock: func() {
				rows := pgxmock.NewRows(itemColumns).
					AddRow("Spring Rolls", "n/a", int32(12), "", "Appetizers", []string{})
				s.PgxMock.ExpectQuery(findAllQuery).WillReturnRows(rows)
			},
			assert: func(cat *catalog.Catalog, err error) {
				s.Nil(cat)
				s.True(errors.Is(err, catalog.ErrInvalidCatalogRow))
			},
		},
		{
			name: "duplicate name",
			setupMock: func() {
				rows := pgxmock.NewRows(itemColumns).
					AddRow("Spring Rolls", "1", int32(1), "", "Appetizers", []string{}).
					AddRow("Spring Rolls", "2", int32(1), "", "Appetizers", []string{})
				s.PgxMock.ExpectQuery(findAllQuery).WillReturnRows(rows)
			},
			assert: func(cat *catalog.Catalog, err error) {
				s.Nil(cat)
				s.True(errors.Is(err, catalog.ErrInvalidCatalogRow))
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			tt.setupMock()

			cat, err := s.Repo.Load(context.Background())
			tt.assert(cat, err)

			s.NoError(s.PgxMock.ExpectationsWereMet())
		})
	}
}
