package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wylmer7856/AgroStock-Web-sub002/internal/auth"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/checkout"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	orderIDs []string
	err      error
	gotUser  string
	gotReq   checkout.Request
}

func (f *fakeEngine) Validate(_ context.Context, _ string, _ map[string]int64) (checkout.Result, error) {
	return checkout.Result{Valid: true}, nil
}

func (f *fakeEngine) Checkout(_ context.Context, userID string, req checkout.Request) ([]string, error) {
	f.gotUser = userID
	f.gotReq = req
	return f.orderIDs, f.err
}

func performCheckout(t *testing.T, engine CheckoutEngine, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(http.MethodPost, "/v1/checkout", bytes.NewBufferString(body))
	claims := auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "buyer-1"}, Roles: []string{auth.RoleUser}}
	req = req.WithContext(auth.WithClaims(req.Context(), claims))
	c.Request = req

	h := NewHandler(nil, nil, engine, nil)
	h.Checkout(c)
	return w
}

func TestCheckoutHandler_Created(t *testing.T) {
	engine := &fakeEngine{orderIDs: []string{"order-1", "order-2"}}

	w := performCheckout(t, engine, `{"deliveryAddress":"12 Market Street","paymentMethod":"card"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Success  bool     `json:"success"`
		OrderIds []string `json:"orderIds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"order-1", "order-2"}, resp.OrderIds)
	assert.Equal(t, "buyer-1", engine.gotUser)
	assert.Equal(t, "card", engine.gotReq.PaymentMethod)
}

func TestCheckoutHandler_CartInvalid(t *testing.T) {
	engine := &fakeEngine{err: &checkout.CartInvalidError{Errors: []string{"only 3 units available for p1"}}}

	w := performCheckout(t, engine, `{"deliveryAddress":"12 Market Street","paymentMethod":"card"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Success bool     `json:"success"`
		Errors  []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, []string{"only 3 units available for p1"}, resp.Errors)
}

func TestCheckoutHandler_CartEmpty(t *testing.T) {
	engine := &fakeEngine{err: checkout.ErrCartEmpty}

	w := performCheckout(t, engine, `{"deliveryAddress":"12 Market Street","paymentMethod":"card"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cart is empty")
}

func TestCheckoutHandler_StockRace(t *testing.T) {
	engine := &fakeEngine{err: &checkout.StockRaceError{ProductID: "p1"}}

	w := performCheckout(t, engine, `{"deliveryAddress":"12 Market Street","paymentMethod":"card"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "p1")
}

func TestCheckoutHandler_InvalidInput(t *testing.T) {
	engine := &fakeEngine{err: checkout.ErrInvalidInput}

	w := performCheckout(t, engine, `{"deliveryAddress":"x","paymentMethod":"card"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_UnexpectedFailure(t *testing.T) {
	engine := &fakeEngine{err: errors.New("connection lost")}

	w := performCheckout(t, engine, `{"deliveryAddress":"12 Market Street","paymentMethod":"card"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCheckoutHandler_MalformedBody(t *testing.T) {
	engine := &fakeEngine{}

	w := performCheckout(t, engine, `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, engine.gotUser)
}
