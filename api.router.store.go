package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupStoreRoutes injects the public storefront api endpoints.
func (api *APIHandler) SetupStoreRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public(api.Index))
	router.GET("/status", m.public(api.Status))

	router.GET("/v1/catalog", m.public(api.GetCatalog))
	router.GET("/v1/catalog/facets/:field", m.public(api.GetCatalogFacets))

	router.POST("/v1/sessions", m.public(api.CreateSession))
	router.GET("/v1/sessions/:id/cart", m.public(api.GetCart))
	router.POST("/v1/sessions/:id/cart/items", m.public(api.AddToCart))
	router.PUT("/v1/sessions/:id/cart/items/:bookId", m.public(api.SetCartQuantity))
	router.DELETE("/v1/sessions/:id/cart/items/:bookId", m.public(api.RemoveFromCart))
	router.DELETE("/v1/sessions/:id/cart", m.public(api.ClearCart))
	router.GET("/v1/sessions/:id/cart/slip", m.public(api.GetOrderSlip))

	router.POST("/v1/sessions/:id/orders", m.public(api.SubmitOrder))
	router.GET("/v1/orders/:id", m.public(api.GetOneOrder))
	return router
}
