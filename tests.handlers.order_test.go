package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newOrderSubmissionRequest builds a multipart submission request with
// the usual contact fields and an optional proof part.
func newOrderSubmissionRequest(t *testing.T, fields map[string]string, proof []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, value := range fields {
		require.NoError(t, writer.WriteField(field, value))
	}
	if proof != nil {
		part, err := writer.CreateFormFile("proof", "proof.png")
		require.NoError(t, err)
		_, err = part.Write(proof)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/s:x/orders", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func testSubmissionFields() map[string]string {
	return map[string]string{
		"name":        "Jerome Amon",
		"email":       "jerome@example.com",
		"phone":       "+237600000000",
		"fulfillment": "store-pickup",
	}
}

// newTestOrderAPI wires an api handler over an order service backed by
// the given cart and submitter.
func newTestOrderAPI(t *testing.T, stored *CartLedger, submitter OrderSubmitter, archive OrderArchive) (*APIHandler, *bool) {
	t.Helper()
	var cleared bool
	storage := &MockCartStorage{
		GetFunc: func(ctx context.Context, sessionID string) (*CartLedger, error) {
			return stored, nil
		},
		DeleteFunc: func(ctx context.Context, sessionID string) error {
			cleared = true
			return nil
		},
	}
	queue := &MockQueuer{
		PushFunc: func(ctx context.Context, qid string, record OrderRecord) error {
			return nil
		},
	}
	if archive == nil {
		archive = &MockOrderArchive{}
	}
	ids := NewMockUIDHandler(testUID, true)
	orders := NewOrderService(zap.NewNop(), testOrdersConfig(), NewMockClocker(), ids, storage, submitter, archive, queue)
	clock := NewMockClocker()
	api := NewAPIHandler(zap.NewNop(), testOrdersConfig(), &Statistics{started: clock.Now()}, clock, ids, nil, nil, orders)
	return api, &cleared
}

// TestSubmitOrderHandler covers the responses of the submission
// boundary: refusal codes, remote failure mapping and the happy path.
//
//nolint:funlen
func TestSubmitOrderHandler(t *testing.T) {
	filledCart := func() *CartLedger {
		ledger := NewCartLedger()
		ledger.Add(Book{ID: "b:1", Title: "Test book title", Price: 100, DiscountPercent: 20})
		ledger.SetQuantity("b:1", 2)
		return ledger
	}

	t.Run("should pass: accepted submission with proof", func(t *testing.T) {
		var gotProof *ProofFile
		submitter := &MockOrderSubmitter{
			SubmitFunc: func(ctx context.Context, payload OrderPayload, proof *ProofFile) (OrderResult, error) {
				gotProof = proof
				return OrderResult{Reference: "REF-42", Message: "order received"}, nil
			},
		}
		api, cleared := newTestOrderAPI(t, filledCart(), submitter, nil)

		req := newOrderSubmissionRequest(t, testSubmissionFields(), []byte("fake-image-bytes"))
		w := httptest.NewRecorder()
		api.SubmitOrder(w, req, sessionParams())
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusCreated, res.StatusCode)
		assert.True(t, *cleared)
		require.NotNil(t, gotProof)
		assert.Equal(t, "proof.png", gotProof.Name)
		assert.Equal(t, []byte("fake-image-bytes"), gotProof.Content)

		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		resultMap := make(map[string]interface{})
		require.NoError(t, json.Unmarshal(data, &resultMap))
		record, ok := resultMap["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "REF-42", record["reference"])
		assert.Equal(t, float64(160), record["total"])
	})

	t.Run("should fail: empty cart answers bad request", func(t *testing.T) {
		var remoteCalled bool
		submitter := &MockOrderSubmitter{
			SubmitFunc: func(ctx context.Context, payload OrderPayload, proof *ProofFile) (OrderResult, error) {
				remoteCalled = true
				return OrderResult{}, nil
			},
		}
		api, _ := newTestOrderAPI(t, NewCartLedger(), submitter, nil)

		req := newOrderSubmissionRequest(t, testSubmissionFields(), nil)
		w := httptest.NewRecorder()
		api.SubmitOrder(w, req, sessionParams())
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.False(t, remoteCalled)
	})

	t.Run("should fail: missing contact field answers bad request", func(t *testing.T) {
		submitter := &MockOrderSubmitter{
			SubmitFunc: func(ctx context.Context, payload OrderPayload, proof *ProofFile) (OrderResult, error) {
				return OrderResult{}, nil
			},
		}
		api, _ := newTestOrderAPI(t, filledCart(), submitter, nil)

		fields := testSubmissionFields()
		delete(fields, "email")
		req := newOrderSubmissionRequest(t, fields, nil)
		w := httptest.NewRecorder()
		api.SubmitOrder(w, req, sessionParams())
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)

		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"requestid":"", "status":400, "message":"failed to validate the order submission", "data":"email is required"}`, string(data))
	})

	t.Run("should fail: unknown fulfillment answers bad request", func(t *testing.T) {
		submitter := &MockOrderSubmitter{
			SubmitFunc: func(ctx context.Context, payload OrderPayload, proof *ProofFile) (OrderResult, error) {
				return OrderResult{}, nil
			},
		}
		api, _ := newTestOrderAPI(t, filledCart(), submitter, nil)

		fields := testSubmissionFields()
		fields["fulfillment"] = "teleport"
		req := newOrderSubmissionRequest(t, fields, nil)
		w := httptest.NewRecorder()
		api.SubmitOrder(w, req, sessionParams())
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("should fail: remote failure answers bad gateway and keeps cart", func(t *testing.T) {
		submitter := &MockOrderSubmitter{
			SubmitFunc: func(ctx context.Context, payload OrderPayload, proof *ProofFile) (OrderResult, error) {
				return OrderResult{}, errors.New("gateway is down")
			},
		}
		stored := filledCart()
		api, cleared := newTestOrderAPI(t, stored, submitter, nil)

		req := newOrderSubmissionRequest(t, testSubmissionFields(), nil)
		w := httptest.NewRecorder()
		api.SubmitOrder(w, req, sessionParams())
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadGateway, res.StatusCode)
		assert.False(t, *cleared)
		assert.False(t, stored.IsEmpty())
	})

	t.Run("should fail: oversized proof answers entity too large and keeps cart", func(t *testing.T) {
		var remoteCalled bool
		submitter := &MockOrderSubmitter{
			SubmitFunc: func(ctx context.Context, payload OrderPayload, proof *ProofFile) (OrderResult, error) {
				remoteCalled = true
				return OrderResult{}, nil
			},
		}
		stored := filledCart()
		api, cleared := newTestOrderAPI(t, stored, submitter, nil)
		api.config.Orders.MaxProofSize = 16

		req := newOrderSubmissionRequest(t, testSubmissionFields(), bytes.Repeat([]byte("x"), 64))
		w := httptest.NewRecorder()
		api.SubmitOrder(w, req, sessionParams())
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
		assert.False(t, remoteCalled)
		assert.False(t, *cleared)
		assert.False(t, stored.IsEmpty())
	})

	t.Run("should fail: non multipart body answers bad request", func(t *testing.T) {
		submitter := &MockOrderSubmitter{
			SubmitFunc: func(ctx context.Context, payload OrderPayload, proof *ProofFile) (OrderResult, error) {
				return OrderResult{}, nil
			},
		}
		api, _ := newTestOrderAPI(t, filledCart(), submitter, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/s:x/orders", bytes.NewBufferString(`{"name":"x"}`))
		w := httptest.NewRecorder()
		api.SubmitOrder(w, req, sessionParams())
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

// TestGetOrderSlipHandler ensures the slip endpoint serves plain text
// without touching the cart.
func TestGetOrderSlipHandler(t *testing.T) {
	stored := NewCartLedger()
	stored.Add(Book{ID: "b:1", Title: "Test book title", Author: "Jerome Amon", Price: 100, DiscountPercent: 20})
	submitter := &MockOrderSubmitter{
		SubmitFunc: func(ctx context.Context, payload OrderPayload, proof *ProofFile) (OrderResult, error) {
			t.Fatal("slip must not call the remote collaborator")
			return OrderResult{}, nil
		},
	}
	api, cleared := newTestOrderAPI(t, stored, submitter, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/s:x/cart/slip", nil)
	w := httptest.NewRecorder()
	api.GetOrderSlip(w, req, sessionParams())
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/plain; charset=UTF-8", res.Header.Get("Content-Type"))

	data, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "BOOKSTAND PRE-ORDER SLIP"))
	assert.Contains(t, string(data), "TOTAL: 80")
	assert.False(t, *cleared)
	assert.False(t, stored.IsEmpty())

	t.Run("should fail: empty cart answers bad request", func(t *testing.T) {
		api, _ := newTestOrderAPI(t, NewCartLedger(), submitter, nil)
		w := httptest.NewRecorder()
		api.GetOrderSlip(w, req, sessionParams())
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

// TestGetOneOrderHandler ensures archived orders are served by id and
// missing ones answer not found.
func TestGetOneOrderHandler(t *testing.T) {
	orderID := "o:" + testUID

	t.Run("should pass: archived order found", func(t *testing.T) {
		archive := &MockOrderArchive{
			GetOneFunc: func(ctx context.Context, id string) (OrderRecord, error) {
				return OrderRecord{ID: id, Reference: "REF-42"}, nil
			},
		}
		api, _ := newTestOrderAPI(t, NewCartLedger(), &MockOrderSubmitter{}, archive)

		req := httptest.NewRequest(http.MethodGet, "/v1/orders/"+orderID, nil)
		w := httptest.NewRecorder()
		api.GetOneOrder(w, req, httprouter.Params{{Key: "id", Value: orderID}})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)

		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		resultMap := make(map[string]interface{})
		require.NoError(t, json.Unmarshal(data, &resultMap))
		record, ok := resultMap["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, orderID, record["id"])
	})

	t.Run("should fail: missing order", func(t *testing.T) {
		archive := &MockOrderArchive{
			GetOneFunc: func(ctx context.Context, id string) (OrderRecord, error) {
				return OrderRecord{}, ErrOrderNotFound
			},
		}
		api, _ := newTestOrderAPI(t, NewCartLedger(), &MockOrderSubmitter{}, archive)

		req := httptest.NewRequest(http.MethodGet, "/v1/orders/"+orderID, nil)
		w := httptest.NewRecorder()
		api.GetOneOrder(w, req, httprouter.Params{{Key: "id", Value: orderID}})
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

// TestGetAllOrdersHandler ensures the ops listing serves the archive
// content with its total.
func TestGetAllOrdersHandler(t *testing.T) {
	archive := &MockOrderArchive{
		GetAllFunc: func(ctx context.Context) ([]OrderRecord, error) {
			return []OrderRecord{{ID: "o:1"}, {ID: "o:2"}}, nil
		},
	}
	api, _ := newTestOrderAPI(t, NewCartLedger(), &MockOrderSubmitter{}, archive)

	req := httptest.NewRequest(http.MethodGet, "/ops/orders", nil)
	w := httptest.NewRecorder()
	api.GetAllOrders(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	data, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	resultMap := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(data, &resultMap))
	assert.Equal(t, float64(2), resultMap["total"])
}
