package http

import (
	"catering-quote/common/vars"
	"catering-quote/core/catalog"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CatalogHttpTestSuite struct {
	suite.Suite
}

func (s *CatalogHttpTestSuite) SetupTest() {
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func (s *CatalogHttpTestSuite) TearDownTest() {
	vars.SetCatalog(nil)
}

func TestCatalogHttpTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogHttpTestSuite))
}

func (s *CatalogHttpTestSuite) TestList() {
	tests := []struct {
		name           string
		setupVars      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success with items",
			setupVars: func() {
				cat, err := catalog.New([]catalog.Item{
					{Name: "Spring Rolls", UnitPrice: decimal.RequireFromString("2.5"), DefaultQuantity: 12, Description: "Crispy", Category: "Appetizers", DietaryTags: []string{"Vegan"}},
				})
				s.Require().NoError(err)
				vars.SetCatalog(cat)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"items":[{"name":"Spring Rolls","unit_price":"2.5","default_quantity":12,"max_quantity":24,"description":"Crispy","category":"Appetizers","dietary_tags":["Vegan"]}],"categories":["Appetizers"],"dietary_tags":["Vegan"]}`,
		},
		{
			name: "catalog not loaded",
			setupVars: func() {
				vars.SetCatalog(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"items":[],"categories":[],"dietary_tags":[]}`,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			tc.setupVars()

			catalogHttp := RegisterCatalogHttp(http.NewServeMux())

			req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
			w := httptest.NewRecorder()

			catalogHttp.list(w, req)

			s.Equal(tc.expectedStatus, w.Code)

			actual := strings.TrimSpace(w.Body.String())
			s.Equal(tc.expectedBody, actual)
		})
	}
}
