package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// GetCatalog serves the loaded catalog, narrowed down by the filter
// carried in the query string (q, genre, location, pricemin, pricemax).
func (api *APIHandler) GetCatalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)

	spec, err := NewFilterSpec(r.URL.Query())
	if err != nil {
		api.logger.Error("failed to build catalog filter", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to filter the catalog", err.Error())
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	books := api.catalog.Filter(spec)
	api.logger.Info("success to filter catalog", zap.String("request.id", requestID), zap.Int("catalog.matches", len(books)))
	total := len(books)
	resp := GenericResponse(requestID, http.StatusOK, "Catalog fetched successfully.", &total, books)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetCatalogFacets serves the distinct values of a given book attribute
// to drive the storefront selection widgets.
func (api *APIHandler) GetCatalogFacets(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)

	field, err := ParseFacetField(ps.ByName("field"))
	if err != nil {
		api.logger.Error("facet field provided is not valid", zap.String("facet.field", ps.ByName("field")), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "facet field provided is not valid", err.Error())
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	values := api.catalog.Facet(field)
	total := len(values)
	resp := GenericResponse(requestID, http.StatusOK, "Facet values fetched successfully.", &total, values)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ReloadCatalog refetches the catalog from the external source. On
// failure the previously loaded snapshot stays in place.
func (api *APIHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)

	err := api.catalog.Reload(r.Context())
	if errors.Is(err, ErrCatalogUnavailable) {
		errResp := NewAPIError(requestID, http.StatusBadGateway, "catalog source is unavailable", err.Error())
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err != nil {
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to reload the catalog", err.Error())
		if err = WriteErrorResponse(w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	total := len(api.catalog.Books())
	resp := GenericResponse(requestID, http.StatusOK, "Catalog reloaded successfully.", &total, EmptyData)
	if err = WriteResponse(w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
