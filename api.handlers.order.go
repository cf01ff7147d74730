package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// decodeOrderSubmission reads the multipart submission form and the
// optional proof-of-payment part. An attachment above the configured
// size cap is rejected rather than truncated.
func (api *APIHandler) decodeOrderSubmission(r *http.Request) (OrderForm, *ProofFile, error) {
	var form OrderForm

	if err := r.ParseMultipartForm(api.config.Orders.MaxProofSize); err != nil {
		return form, nil, err
	}

	form.Name = r.FormValue("name")
	form.Email = r.FormValue("email")
	form.Phone = r.FormValue("phone")
	form.Social = r.FormValue("social")
	form.Fulfillment = r.FormValue("fulfillment")
	form.Notes = r.FormValue("notes")

	file, header, err := r.FormFile("proof")
	if err == http.ErrMissingFile {
		return form, nil, nil
	}
	if err != nil {
		return form, nil, err
	}
	defer file.Close()

	// read one byte past the cap so an oversized file is detected
	// instead of being silently cut down to the limit.
	content, err := io.ReadAll(io.LimitReader(file, api.config.Orders.MaxProofSize+1))
	if err != nil {
		return form, nil, err
	}
	if int64(len(content)) > api.config.Orders.MaxProofSize {
		return form, nil, ErrProofTooLarge
	}
	proof := &ProofFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}
	return form, proof, nil
}

// SubmitOrder hands the session cart with the entered contact fields to
// the external order collaborator. An empty cart or a duplicate
// in-flight submission is refused locally without any remote call. A
// remote failure leaves the cart untouched for retry.
func (api *APIHandler) SubmitOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	sessionID := ps.ByName("id")
	if !api.checkSessionID(w, requestID, sessionID) {
		return
	}

	form, proof, err := api.decodeOrderSubmission(r)
	if errors.Is(err, ErrProofTooLarge) {
		api.logger.Error("refused an oversized proof file", zap.String("session.id", sessionID), zap.String("request.id", requestID), zap.Int64("proof.maxsize", api.config.Orders.MaxProofSize))
		errResp := NewAPIError(requestID, http.StatusRequestEntityTooLarge, "proof file is too large", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to read order submission", zap.String("session.id", sessionID), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to read the order submission", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	record, err := api.orders.Submit(r.Context(), sessionID, form, proof)
	switch {
	case errors.Is(err, ErrEmptyCart):
		api.logger.Error("refused to submit an empty cart", zap.String("session.id", sessionID), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "cannot submit an order with an empty cart", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return

	case errors.Is(err, ErrSubmitInFlight):
		api.logger.Warn("duplicate order submission ignored", zap.String("session.id", sessionID), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusConflict, "an order submission is already in progress for this session", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return

	case err != nil:
		var missing missingFieldError
		if errors.As(err, &missing) || errors.Is(err, ErrBadFulfillment) {
			errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to validate the order submission", err.Error())
			if err = WriteErrorResponse(w, errResp); err != nil {
				api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
			}
			return
		}
		api.logger.Error("failed to submit order", zap.String("session.id", sessionID), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadGateway, "order could not be submitted. your cart was kept so you can retry.", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	resp := GenericResponse(requestID, http.StatusCreated, "Order submitted successfully.", nil, record)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetOrderSlip renders the current cart as a printable text slip. No
// remote call is made and the cart is left untouched.
func (api *APIHandler) GetOrderSlip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	sessionID := ps.ByName("id")
	if !api.checkSessionID(w, requestID, sessionID) {
		return
	}

	slip, err := api.orders.Slip(r.Context(), sessionID)
	if errors.Is(err, ErrEmptyCart) {
		errResp := NewAPIError(requestID, http.StatusBadRequest, "cannot print a slip for an empty cart", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to build order slip", zap.String("session.id", sessionID), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to build the order slip", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	if _, err = w.Write([]byte(slip)); err != nil {
		api.logger.Error("failed to send order slip", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetOneOrder serves an archived order based on its ID.
func (api *APIHandler) GetOneOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, OrderIDPrefix); !ok {
		api.logger.Error("order id provided is not valid", zap.String("order.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "order id provided is not valid", EmptyData)
		if err := WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	record, err := api.orders.GetOne(r.Context(), id)
	if errors.Is(err, ErrOrderNotFound) {
		api.logger.Error("order does not exist", zap.String("order.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusNotFound, "order does not exist", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		api.logger.Error("failed to get order", zap.String("order.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get the order", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "Order fetched successfully.", nil, record)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetAllOrders serves the full order archive to the internal ops users.
func (api *APIHandler) GetAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	records, err := api.orders.GetAll(r.Context())
	if err != nil {
		api.logger.Error("failed to get all orders", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get all orders", EmptyData)
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	total := len(records)
	resp := GenericResponse(requestID, http.StatusOK, "All orders fetched successfully.", &total, records)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
