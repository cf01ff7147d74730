package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// CatalogServiceProvider exposes the catalog operations used by handlers.
type CatalogServiceProvider interface {
	Reload(ctx context.Context) error
	Books() []Book
	Filter(spec FilterSpec) []Book
	Facet(field FacetField) []string
	FindBook(id string) (Book, error)
}

// CatalogService owns the in-memory snapshot of the loaded catalog and
// delegates loading to the external book source. A failed reload keeps
// the previously loaded snapshot untouched.
type CatalogService struct {
	logger *zap.Logger
	config *Config
	source BookSource

	mu    sync.RWMutex
	books []Book
}

func NewCatalogService(logger *zap.Logger, config *Config, source BookSource) *CatalogService {
	return &CatalogService{
		logger: logger,
		config: config,
		source: source,
		books:  []Book{},
	}
}

// Reload fetches the catalog from the configured source and swaps the
// snapshot only on success.
func (cs *CatalogService) Reload(ctx context.Context) error {
	books, err := cs.source.Fetch(ctx, cs.config.Catalog.SourceID)
	if err != nil {
		cs.logger.Error("catalog: reload failed", zap.String("source.id", cs.config.Catalog.SourceID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	cs.mu.Lock()
	cs.books = books
	cs.mu.Unlock()
	cs.logger.Info("catalog: reloaded", zap.String("source.id", cs.config.Catalog.SourceID), zap.Int("catalog.size", len(books)))
	return nil
}

// Books returns the current catalog snapshot.
func (cs *CatalogService) Books() []Book {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.books
}

// Filter applies the given spec on the current snapshot.
func (cs *CatalogService) Filter(spec FilterSpec) []Book {
	return ApplyFilter(cs.Books(), spec)
}

// Facet lists the distinct values of a book attribute across the snapshot.
func (cs *CatalogService) Facet(field FacetField) []string {
	return UniqueValuesOf(cs.Books(), field)
}

// FindBook resolves a book id against the current snapshot.
func (cs *CatalogService) FindBook(id string) (Book, error) {
	for _, book := range cs.Books() {
		if book.ID == id {
			return book, nil
		}
	}
	return Book{}, ErrBookNotFound
}

// CartServiceProvider exposes the per-session cart operations.
type CartServiceProvider interface {
	Get(ctx context.Context, sessionID string) (*CartLedger, error)
	AddItem(ctx context.Context, sessionID, bookID string) (*CartLedger, error)
	SetQuantity(ctx context.Context, sessionID, bookID string, quantity int) (*CartLedger, error)
	RemoveItem(ctx context.Context, sessionID, bookID string) (*CartLedger, error)
	Clear(ctx context.Context, sessionID string) error
}

// CartService loads a session ledger from storage, applies one mutation
// and saves it back. The ledger itself stays a pure in-memory value.
type CartService struct {
	logger  *zap.Logger
	catalog CatalogServiceProvider
	storage CartStorage
}

func NewCartService(logger *zap.Logger, catalog CatalogServiceProvider, storage CartStorage) CartServiceProvider {
	return &CartService{
		logger:  logger,
		catalog: catalog,
		storage: storage,
	}
}

func (cs *CartService) Get(ctx context.Context, sessionID string) (*CartLedger, error) {
	return cs.storage.Get(ctx, sessionID)
}

func (cs *CartService) AddItem(ctx context.Context, sessionID, bookID string) (*CartLedger, error) {
	book, err := cs.catalog.FindBook(bookID)
	if err != nil {
		return nil, err
	}
	ledger, err := cs.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ledger.Add(book)
	return ledger, cs.storage.Save(ctx, sessionID, ledger)
}

func (cs *CartService) SetQuantity(ctx context.Context, sessionID, bookID string, quantity int) (*CartLedger, error) {
	ledger, err := cs.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ledger.SetQuantity(bookID, quantity)
	return ledger, cs.storage.Save(ctx, sessionID, ledger)
}

func (cs *CartService) RemoveItem(ctx context.Context, sessionID, bookID string) (*CartLedger, error) {
	ledger, err := cs.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ledger.Remove(bookID)
	return ledger, cs.storage.Save(ctx, sessionID, ledger)
}

func (cs *CartService) Clear(ctx context.Context, sessionID string) error {
	return cs.storage.Delete(ctx, sessionID)
}

// OrderServiceProvider exposes order submission, the printable slip and
// reads against the order archive.
type OrderServiceProvider interface {
	Submit(ctx context.Context, sessionID string, form OrderForm, proof *ProofFile) (OrderRecord, error)
	Slip(ctx context.Context, sessionID string) (string, error)
	GetOne(ctx context.Context, id string) (OrderRecord, error)
	GetAll(ctx context.Context) ([]OrderRecord, error)
}

// OrderService coordinates the submission boundary: local validation,
// the single in-flight guard per session, the remote call and the
// archive hand-off.
type OrderService struct {
	logger    *zap.Logger
	config    *Config
	clock     Clocker
	ids       UIDHandler
	carts     CartStorage
	submitter OrderSubmitter
	archive   OrderArchive
	queue     Queuer
	inflight  sync.Map
}

func NewOrderService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, carts CartStorage, submitter OrderSubmitter, archive OrderArchive, queue Queuer) *OrderService {
	return &OrderService{
		logger:    logger,
		config:    config,
		clock:     clock,
		ids:       ids,
		carts:     carts,
		submitter: submitter,
		archive:   archive,
		queue:     queue,
	}
}

// Submit builds a fresh order payload from the session cart and hands it
// to the external collaborator. An empty cart or a duplicate in-flight
// submission never reaches the remote side. On success the cart is
// cleared and the accepted order queued for archiving; on failure the
// cart is left untouched so the user can retry.
func (os *OrderService) Submit(ctx context.Context, sessionID string, form OrderForm, proof *ProofFile) (OrderRecord, error) {
	var record OrderRecord

	if _, loaded := os.inflight.LoadOrStore(sessionID, struct{}{}); loaded {
		return record, ErrSubmitInFlight
	}
	defer os.inflight.Delete(sessionID)

	ledger, err := os.carts.Get(ctx, sessionID)
	if err != nil {
		return record, err
	}

	if ledger.IsEmpty() {
		return record, ErrEmptyCart
	}

	if err = ValidateOrderForm(&form, &os.config.Orders); err != nil {
		return record, err
	}

	payload := OrderPayload{
		Form:  form,
		Lines: ledger.Snapshot(),
		Total: ledger.Total(),
	}

	result, err := os.submitter.Submit(ctx, payload, proof)
	if err != nil {
		os.logger.Error("orders: remote submission failed", zap.String("session.id", sessionID), zap.Error(err))
		return record, err
	}

	record = OrderRecord{
		ID:          os.ids.Generate(OrderIDPrefix),
		Reference:   result.Reference,
		Message:     result.Message,
		Form:        form,
		Lines:       payload.Lines,
		Total:       payload.Total,
		SubmittedAt: os.clock.Now().UTC().String(),
	}
	if proof != nil {
		record.ProofName = proof.Name
	}
	if record.Reference == "" {
		record.Reference = record.ID
	}
	if record.Message == "" {
		record.Message = "Order received. Thank you for your pre-order."
	}

	if err = os.queue.Push(ctx, ArchiveQueue, record); err != nil {
		os.logger.Error("orders: failed to push order to archive queue", zap.String("order.id", record.ID), zap.Error(err))
	}

	if err = os.carts.Delete(ctx, sessionID); err != nil {
		os.logger.Error("orders: failed to clear cart after submission", zap.String("session.id", sessionID), zap.Error(err))
	}

	os.logger.Info("orders: submission accepted",
		zap.String("session.id", sessionID),
		zap.String("order.id", record.ID),
		zap.String("order.reference", record.Reference),
	)
	return record, nil
}

// Slip renders the current cart as a printable text slip. It performs no
// remote call and leaves the cart untouched.
func (os *OrderService) Slip(ctx context.Context, sessionID string) (string, error) {
	ledger, err := os.carts.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if ledger.IsEmpty() {
		return "", ErrEmptyCart
	}

	var sb strings.Builder
	sb.WriteString("BOOKSTAND PRE-ORDER SLIP\n")
	sb.WriteString(fmt.Sprintf("printed at: %s\n\n", os.clock.Now().UTC().Format("2006-01-02 15:04:05 MST")))
	for _, line := range ledger.Snapshot() {
		sb.WriteString(fmt.Sprintf("%-40.40s %-20.20s x%-3d %8d %10d\n",
			line.Title, line.Author, line.Quantity, line.UnitPrice, line.Subtotal))
	}
	sb.WriteString(fmt.Sprintf("\nTOTAL: %d\n", ledger.Total()))
	return sb.String(), nil
}

func (os *OrderService) GetOne(ctx context.Context, id string) (OrderRecord, error) {
	return os.archive.GetOne(ctx, id)
}

func (os *OrderService) GetAll(ctx context.Context) ([]OrderRecord, error) {
	return os.archive.GetAll(ctx)
}
