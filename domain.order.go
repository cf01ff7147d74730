package main

import "context"

// OrderForm carries the user-entered contact fields and fulfillment
// selection collected at submission time.
type OrderForm struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Social      string `json:"social"`
	Fulfillment string `json:"fulfillment"`
	Notes       string `json:"notes"`
}

// ProofFile is an optional proof-of-payment attachment forwarded as-is
// to the order collaborator.
type ProofFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// OrderPayload is the transient document handed to the external order
// collaborator. It is built fresh on each submit attempt and discarded
// once the call resolves.
type OrderPayload struct {
	Form  OrderForm   `json:"form"`
	Lines []OrderLine `json:"lines"`
	Total int64       `json:"total"`
}

// OrderResult is the acknowledgement returned by the order collaborator.
// Both fields are optional on the wire and tolerated when absent.
type OrderResult struct {
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

// OrderRecord is the archived form of an accepted order.
type OrderRecord struct {
	ID          string      `json:"id"`
	Reference   string      `json:"reference"`
	Message     string      `json:"message"`
	Form        OrderForm   `json:"form"`
	Lines       []OrderLine `json:"lines"`
	Total       int64       `json:"total"`
	ProofName   string      `json:"proofName,omitempty"`
	SubmittedAt string      `json:"submittedAt"`
}

// OrderSubmitter defines the external order collaborator.
type OrderSubmitter interface {
	Submit(ctx context.Context, payload OrderPayload, proof *ProofFile) (OrderResult, error)
}

// OrderArchive defines possible operations on archived orders.
type OrderArchive interface {
	Save(ctx context.Context, id string, record OrderRecord) error
	GetOne(ctx context.Context, id string) (OrderRecord, error)
	GetAll(ctx context.Context) ([]OrderRecord, error)
}

// CartStorage defines the per-session persistence of cart ledgers.
type CartStorage interface {
	Get(ctx context.Context, sessionID string) (*CartLedger, error)
	Save(ctx context.Context, sessionID string, ledger *CartLedger) error
	Delete(ctx context.Context, sessionID string) error
}
