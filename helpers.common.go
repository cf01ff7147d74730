package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrSubmitInFlight     = errors.New("order submission already in progress")
	ErrUnknownFilterKey   = errors.New("unknown filter key")
	ErrUnknownFacetField  = errors.New("unknown facet field")
	ErrBadFulfillment     = errors.New("fulfillment option is not recognized")
	ErrProofTooLarge      = errors.New("proof file exceeds the size limit")
)

type (
	ContextKey        string
	missingFieldError string
)

const (
	BookIDPrefix            string     = "b"
	SessionIDPrefix         string     = "s"
	OrderIDPrefix           string     = "o"
	RequestIDPrefix         string     = "r"
	RequestIDContextKey     ContextKey = "request.id"
	RequestNumberContextKey ContextKey = "request.number"
)

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(RequestNumberContextKey); val != nil {
		return val.(uint64)
	}
	return 0
}

// ValidateOrderForm checks the contact fields and fulfillment selection
// of an order submission before any remote call is attempted.
func ValidateOrderForm(form *OrderForm, orders *OrdersConfig) error {
	if len(strings.TrimSpace(form.Name)) == 0 {
		return missingFieldError("name")
	}

	if len(strings.TrimSpace(form.Email)) == 0 {
		return missingFieldError("email")
	}

	if len(strings.TrimSpace(form.Phone)) == 0 {
		return missingFieldError("phone")
	}

	if len(form.Fulfillment) == 0 {
		return missingFieldError("fulfillment")
	}

	if !orders.IsFulfillmentOption(form.Fulfillment) {
		return ErrBadFulfillment
	}
	return nil
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
