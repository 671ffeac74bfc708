package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/testutil"
)

func setupPortfolioHandler(t *testing.T) (*PortfolioHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ps := testutil.NewTestPortfolioService(t, db)
	return NewPortfolioHandler(ps), db
}

func TestPortfolioHandler_Portfolios(t *testing.T) {
	t.Run("returns empty list when no portfolios exist", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
		w := httptest.NewRecorder()

		handler.Portfolios(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.Portfolio
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 0 {
			t.Errorf("Expected empty list, got %d portfolios", len(response))
		}
	})

	t.Run("filters by owner query parameter", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)

		anna := testutil.NewPortfolio().WithOwner("anna").Build(t, db)
		testutil.NewPortfolio().WithOwner("piotr").Build(t, db)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/portfolio", map[string]string{"owner": "anna"})
		w := httptest.NewRecorder()

		handler.Portfolios(w, req)

		var response []model.Portfolio
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response) != 1 || response[0].ID != anna.ID {
			t.Errorf("Expected only anna's portfolio, got %+v", response)
		}
	})
}

func TestPortfolioHandler_CreatePortfolio(t *testing.T) {
	t.Run("creates portfolio", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)

		req := testutil.NewRequestWithBody(http.MethodPost, "/api/portfolio",
			`{"owner": "anna", "name": "IKE", "cashBalance": "120.50"}`)
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Portfolio
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.ID == "" || response.Name != "IKE" {
			t.Errorf("Expected stored portfolio IKE, got %+v", response)
		}
		if n := testutil.CountRows(t, db, "portfolio", "id = ?", response.ID); n != 1 {
			t.Errorf("Expected portfolio in database, got %d rows", n)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `not json`},
		{"unknown field", `{"owner": "anna", "name": "IKE", "currency": "PLN"}`},
		{"missing name", `{"owner": "anna"}`},
		{"bad cash balance", `{"owner": "anna", "name": "IKE", "cashBalance": "a lot"}`},
	}

	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			handler, _ := setupPortfolioHandler(t)

			req := testutil.NewRequestWithBody(http.MethodPost, "/api/portfolio", tt.body)
			w := httptest.NewRecorder()

			handler.CreatePortfolio(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestPortfolioHandler_GetPortfolio(t *testing.T) {
	t.Run("returns summary", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)

		p := testutil.NewPortfolio().WithCash("10").Build(t, db)
		bond := testutil.NewBond().Build(t, db)
		testutil.NewHolding(p.ID, bond.ID).WithQuantity("2").WithCurrentValue("205").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/"+p.ID, map[string]string{"uuid": p.ID})
		w := httptest.NewRecorder()

		handler.GetPortfolio(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.PortfolioSummary
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.HoldingCount != 1 {
			t.Errorf("Expected 1 holding, got %d", response.HoldingCount)
		}
		if response.TotalValue.String() != "215" {
			t.Errorf("Expected total 215, got %s", response.TotalValue)
		}
	})

	t.Run("returns 404 for unknown portfolio", func(t *testing.T) {
		handler, _ := setupPortfolioHandler(t)
		id := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.GetPortfolio(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPortfolioHandler_DeletePortfolio(t *testing.T) {
	handler, db := setupPortfolioHandler(t)
	p := testutil.NewPortfolio().Build(t, db)

	req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/portfolio/"+p.ID, map[string]string{"uuid": p.ID})
	w := httptest.NewRecorder()

	handler.DeletePortfolio(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if n := testutil.CountRows(t, db, "portfolio", ""); n != 0 {
		t.Errorf("Expected portfolio to be deleted, got %d rows", n)
	}

	w = httptest.NewRecorder()
	handler.DeletePortfolio(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", w.Code)
	}
}

func TestPortfolioHandler_Holdings(t *testing.T) {
	handler, db := setupPortfolioHandler(t)

	p := testutil.NewPortfolio().Build(t, db)
	bond := testutil.NewBond().WithSeries("EDO0534").Build(t, db)
	testutil.NewHolding(p.ID, bond.ID).Build(t, db)

	req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/"+p.ID+"/holdings", map[string]string{"uuid": p.ID})
	w := httptest.NewRecorder()

	handler.Holdings(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response []model.HoldingView
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response) != 1 || response[0].ISIN != bond.ISIN || response[0].Name != "EDO0534" {
		t.Errorf("Expected one EDO0534 holding, got %+v", response)
	}
}

func TestPortfolioHandler_History(t *testing.T) {
	handler, db := setupPortfolioHandler(t)

	p := testutil.NewPortfolio().Build(t, db)
	testutil.CreateHistory(t, db, p.ID, "2024-01-31", "100")
	testutil.CreateHistory(t, db, p.ID, "2024-02-29", "110")

	tests := []struct {
		name       string
		query      map[string]string
		wantStatus int
		wantRows   int
	}{
		{"all", nil, http.StatusOK, 2},
		{"from february", map[string]string{"startDate": "2024-02-01"}, http.StatusOK, 1},
		{"malformed date", map[string]string{"startDate": "01/02/2024"}, http.StatusBadRequest, 0},
		{"inverted range", map[string]string{"startDate": "2024-03-01", "endDate": "2024-01-01"}, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/portfolio/"+p.ID+"/history", tt.query)
			req = testutil.WithURLParams(req, map[string]string{"uuid": p.ID})
			w := httptest.NewRecorder()

			handler.History(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var response []model.PortfolioHistory
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if len(response) != tt.wantRows {
				t.Errorf("Expected %d rows, got %d", tt.wantRows, len(response))
			}
		})
	}
}
