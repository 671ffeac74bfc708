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

func setupTransactionHandler(t *testing.T) (*TransactionHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ts := testutil.NewTestTransactionService(t, db)
	return NewTransactionHandler(ts), db
}

func TestTransactionHandler_TransactionsPerPortfolio(t *testing.T) {
	t.Run("returns ledger with bond identity", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)

		p := testutil.NewPortfolio().Build(t, db)
		bond := testutil.NewBond().WithSeries("COI0428").Build(t, db)
		testutil.NewTransaction(p.ID, bond.ID).WithReference("T-1").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/"+p.ID+"/transactions", map[string]string{"uuid": p.ID})
		w := httptest.NewRecorder()

		handler.TransactionsPerPortfolio(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.TransactionView
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response) != 1 {
			t.Fatalf("Expected 1 transaction, got %d", len(response))
		}
		if response[0].ISIN != bond.ISIN || response[0].BondName != "COI0428" {
			t.Errorf("Expected bond %s COI0428, got %s %s", bond.ISIN, response[0].ISIN, response[0].BondName)
		}
	})

	t.Run("returns 404 for unknown portfolio", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)
		id := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/"+id+"/transactions", map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.TransactionsPerPortfolio(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	handler, db := setupTransactionHandler(t)

	p := testutil.NewPortfolio().Build(t, db)
	bond := testutil.NewBond().Build(t, db)
	tx := testutil.NewTransaction(p.ID, bond.ID).Build(t, db)

	t.Run("returns transaction", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/"+tx.ID, map[string]string{"uuid": tx.ID})
		w := httptest.NewRecorder()

		handler.GetTransaction(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.TransactionView
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.ID != tx.ID {
			t.Errorf("Expected transaction %s, got %s", tx.ID, response.ID)
		}
	})

	t.Run("returns 404 for unknown transaction", func(t *testing.T) {
		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.GetTransaction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	post := func(handler *TransactionHandler, portfolioID, body string) *httptest.ResponseRecorder {
		req := testutil.NewRequestWithBody(http.MethodPost, "/api/portfolio/"+portfolioID+"/transaction", body)
		req = testutil.WithURLParams(req, map[string]string{"uuid": portfolioID})
		w := httptest.NewRecorder()
		handler.CreateTransaction(w, req)
		return w
	}

	t.Run("creates coupon entry without touching holdings", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		p := testutil.NewPortfolio().Build(t, db)
		bond := testutil.NewBond().Build(t, db)

		w := post(handler, p.ID, `{
			"isin": "`+bond.ISIN+`",
			"type": "coupon",
			"date": "2024-06-30",
			"quantity": "10",
			"price": "3.25"
		}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Transaction
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if response.Type != model.TransactionTypeCoupon {
			t.Errorf("Expected COUPON, got %s", response.Type)
		}
		if n := testutil.CountRows(t, db, "holding", ""); n != 0 {
			t.Errorf("Expected no holdings, got %d", n)
		}
	})

	t.Run("returns 409 on duplicate reference", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		p := testutil.NewPortfolio().Build(t, db)
		bond := testutil.NewBond().Build(t, db)
		testutil.NewTransaction(p.ID, bond.ID).WithReference("T-1").Build(t, db)

		w := post(handler, p.ID, `{"isin": "`+bond.ISIN+`", "type": "BUY", "date": "2024-06-30",
			"quantity": "1", "price": "100", "reference": "T-1"}`)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 on unknown ISIN", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		p := testutil.NewPortfolio().Build(t, db)

		w := post(handler, p.ID, `{"isin": "XX0000000000", "type": "BUY", "date": "2024-06-30", "quantity": "1", "price": "100"}`)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `invalid json`},
		{"invalid type", `{"isin": "PL0000000001", "type": "gift", "date": "2024-06-30", "quantity": "1", "price": "100"}`},
		{"negative quantity", `{"isin": "PL0000000001", "type": "BUY", "date": "2024-06-30", "quantity": "-1", "price": "100"}`},
		{"malformed date", `{"isin": "PL0000000001", "type": "BUY", "date": "30.06.2024", "quantity": "1", "price": "100"}`},
	}

	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			handler, db := setupTransactionHandler(t)
			p := testutil.NewPortfolio().Build(t, db)

			w := post(handler, p.ID, tt.body)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}
