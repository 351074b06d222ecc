package web_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/thejaskrizzz/business-managerpro/internal/adapters/web"
	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

const testSecret = "test-secret"

func testToken(t *testing.T, companyID int) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    1,
		"company_id": companyID,
		"role":       "admin",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newTestHandler(t *testing.T, quotes core.QuoteService) http.Handler {
	t.Helper()
	return web.NewHandler(web.Services{Quotes: quotes}, "*", testSecret, 1<<20, zerolog.Nop())
}

func doRequest(t *testing.T, h http.Handler, method, target, body string, companyID int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if companyID > 0 {
		req.Header.Set("Authorization", "Bearer "+testToken(t, companyID))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestQuoteRoutes_RequireAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newTestHandler(t, core.NewMockQuoteService(ctrl))

	rec := doRequest(t, h, http.MethodGet, "/api/quotes", "", 0)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "UNAUTHORIZED", resp.Code)
}

func TestCreateQuote_ScopesToTokenCompany(t *testing.T) {
	ctrl := gomock.NewController(t)
	quotes := core.NewMockQuoteService(ctrl)

	quotes.EXPECT().
		CreateQuote(gomock.Any(), 42, gomock.Any()).
		Return(&core.Quote{
			ID:     7,
			Number: "QUO-0007",
			Status: core.QuoteDraft,
			Total:  decimal.RequireFromString("143.00"),
		}, nil)

	h := newTestHandler(t, quotes)
	body := `{"customer_id": 1, "items": [{"name": "Consulting", "quantity": "2", "unit_price": "65"}]}`
	rec := doRequest(t, h, http.MethodPost, "/api/quotes", body, 42)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got core.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "QUO-0007", got.Number)
	assert.Equal(t, core.QuoteDraft, got.Status)
}

func TestCreateQuote_ValidationErrorMapsTo400(t *testing.T) {
	ctrl := gomock.NewController(t)
	quotes := core.NewMockQuoteService(ctrl)

	quotes.EXPECT().
		CreateQuote(gomock.Any(), 1, gomock.Any()).
		Return(nil, &core.ValidationError{Fields: map[string]string{"items": "at least one item is required"}})

	h := newTestHandler(t, quotes)
	rec := doRequest(t, h, http.MethodPost, "/api/quotes", `{"customer_id": 1}`, 1)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION", resp.Code)
	assert.Contains(t, resp.Fields, "items")
}

func TestGetQuote_NotFoundMapsTo404(t *testing.T) {
	ctrl := gomock.NewController(t)
	quotes := core.NewMockQuoteService(ctrl)

	quotes.EXPECT().
		GetQuote(gomock.Any(), 1, 99).
		Return(nil, &core.NotFoundError{Resource: "quote", Ref: "99"})

	h := newTestHandler(t, quotes)
	rec := doRequest(t, h, http.MethodGet, "/api/quotes/99", "", 1)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestAcceptQuote_IllegalTransitionMapsTo409(t *testing.T) {
	ctrl := gomock.NewController(t)
	quotes := core.NewMockQuoteService(ctrl)

	quotes.EXPECT().
		AcceptQuote(gomock.Any(), 1, 5).
		Return(nil, &core.IllegalTransitionError{DocType: "quote", Action: core.ActionAccept, Status: "draft"})

	h := newTestHandler(t, quotes)
	rec := doRequest(t, h, http.MethodPost, "/api/quotes/5/accept", "", 1)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ILLEGAL_TRANSITION", resp.Code)
}

func TestSendQuote_SurfacesWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	quotes := core.NewMockQuoteService(ctrl)

	quotes.EXPECT().
		SendQuote(gomock.Any(), 1, 5).
		Return(&core.Quote{ID: 5, Number: "QUO-0005", Status: core.QuoteSent},
			"customer has no email address on file", nil)

	h := newTestHandler(t, quotes)
	rec := doRequest(t, h, http.MethodPost, "/api/quotes/5/send", "", 1)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Quote   core.Quote `json:"quote"`
		Warning string     `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, core.QuoteSent, resp.Quote.Status)
	assert.NotEmpty(t, resp.Warning)
}

func TestListQuotes_ParsesFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	quotes := core.NewMockQuoteService(ctrl)

	sent := core.QuoteSent
	customerID := 3
	quotes.EXPECT().
		GetQuotes(gomock.Any(), 1, &sent, &customerID).
		Return([]core.Quote{{ID: 1, Number: "QUO-0001", Status: core.QuoteSent}}, nil)

	h := newTestHandler(t, quotes)
	rec := doRequest(t, h, http.MethodGet, "/api/quotes?status=sent&customer_id=3", "", 1)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []core.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "QUO-0001", got[0].Number)
}

func TestConvertQuote_PassesDueDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	quotes := core.NewMockQuoteService(ctrl)

	quotes.EXPECT().
		ConvertToInvoice(gomock.Any(), 1, 5, gomock.Not(gomock.Nil())).
		Return(&core.Invoice{ID: 11, Number: "INV-00001", Status: core.InvoiceDraft}, nil)

	h := newTestHandler(t, quotes)
	rec := doRequest(t, h, http.MethodPost, "/api/quotes/5/convert", `{"due_date": "2026-02-01T00:00:00Z"}`, 1)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got core.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "INV-00001", got.Number)
}

func TestQuoteRoutes_BadIDIs400(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newTestHandler(t, core.NewMockQuoteService(ctrl))

	rec := doRequest(t, h, http.MethodGet, "/api/quotes/abc", "", 1)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
