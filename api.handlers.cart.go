package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// CartView is the data model of a cart as served to the storefront. The
// checkoutReady flag is derived from the cart contents, never tracked
// separately, so it cannot drift from the displayed items.
type CartView struct {
	Items         []CartItem `json:"items"`
	Total         int64      `json:"total"`
	CheckoutReady bool       `json:"checkoutReady"`
}

// NewCartView builds the serving model of a cart ledger.
func NewCartView(ledger *CartLedger) CartView {
	return CartView{
		Items:         ledger.Items,
		Total:         ledger.Total(),
		CheckoutReady: !ledger.IsEmpty(),
	}
}

// cartItemRequest carries the body of cart mutation requests.
type cartItemRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

// checkSessionID validates the session id of a cart request and sends
// the error response itself when the id is malformed.
func (api *APIHandler) checkSessionID(w http.ResponseWriter, requestID, sessionID string) bool {
	if ok := api.idsHandler.IsValid(sessionID, SessionIDPrefix); !ok {
		api.logger.Error("session id provided is not valid", zap.String("session.id", sessionID), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "session id provided is not valid", EmptyData)
		if err := WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return false
	}
	return true
}

// CreateSession opens a new browsing session and returns its identifier.
func (api *APIHandler) CreateSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	sessionID := api.idsHandler.Generate(SessionIDPrefix)
	api.logger.Info("success to create session", zap.String("session.id", sessionID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusCreated, "Session created successfully.", nil, map[string]string{"sessionId": sessionID})
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetCart serves the current cart of a session. An unknown session
// reads as an empty cart.
func (api *APIHandler) GetCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	sessionID := ps.ByName("id")
	if !api.checkSessionID(w, requestID, sessionID) {
		return
	}

	ledger, err := api.carts.Get(r.Context(), sessionID)
	if err != nil {
		api.logger.Error("failed to get cart", zap.String("session.id", sessionID), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get the cart", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "Cart fetched successfully.", nil, NewCartView(ledger))
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// AddToCart merges one book into the session cart: a repeated book id
// bumps the existing line quantity instead of creating a second line.
func (api *APIHandler) AddToCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	sessionID := ps.ByName("id")
	if !api.checkSessionID(w, requestID, sessionID) {
		return
	}

	var item cartItemRequest
	if r.Body == nil || json.NewDecoder(r.Body).Decode(&item) != nil || item.BookID == "" {
		api.logger.Error("failed to add to cart", zap.String("session.id", sessionID), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to add the book to the cart", missingFieldError("bookId").Error())
		if err := WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	ledger, err := api.carts.AddItem(r.Context(), sessionID, item.BookID)
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.String("book.id", item.BookID), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "book does not exist", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to add to cart", zap.String("book.id", item.BookID), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to add the book to the cart", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to add to cart", zap.String("book.id", item.BookID), zap.String("session.id", sessionID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Book added to cart successfully.", nil, NewCartView(ledger))
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// SetCartQuantity updates the quantity of a cart line. Values below 1
// are clamped to 1: line removal goes through the delete endpoint only.
func (api *APIHandler) SetCartQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	sessionID := ps.ByName("id")
	if !api.checkSessionID(w, requestID, sessionID) {
		return
	}

	var item cartItemRequest
	if r.Body == nil || json.NewDecoder(r.Body).Decode(&item) != nil {
		api.logger.Error("failed to update cart quantity", zap.String("session.id", sessionID), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to update the cart quantity", missingFieldError("quantity").Error())
		if err := WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	bookID := ps.ByName("bookId")
	ledger, err := api.carts.SetQuantity(r.Context(), sessionID, bookID, item.Quantity)
	if err != nil {
		api.logger.Error("failed to update cart quantity", zap.String("book.id", bookID), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to update the cart quantity", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to update cart quantity", zap.String("book.id", bookID), zap.String("session.id", sessionID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Cart quantity updated successfully.", nil, NewCartView(ledger))
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// RemoveFromCart deletes one line from the session cart.
func (api *APIHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	sessionID := ps.ByName("id")
	if !api.checkSessionID(w, requestID, sessionID) {
		return
	}

	bookID := ps.ByName("bookId")
	ledger, err := api.carts.RemoveItem(r.Context(), sessionID, bookID)
	if err != nil {
		api.logger.Error("failed to remove from cart", zap.String("book.id", bookID), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to remove the book from the cart", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to remove from cart", zap.String("book.id", bookID), zap.String("session.id", sessionID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Book removed from cart successfully.", nil, NewCartView(ledger))
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ClearCart empties the session cart unconditionally.
func (api *APIHandler) ClearCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	sessionID := ps.ByName("id")
	if !api.checkSessionID(w, requestID, sessionID) {
		return
	}

	if err := api.carts.Clear(r.Context(), sessionID); err != nil {
		api.logger.Error("failed to clear cart", zap.String("session.id", sessionID), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to clear the cart", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to clear cart", zap.String("session.id", sessionID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Cart cleared successfully.", nil, NewCartView(NewCartLedger()))
	if err := WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
