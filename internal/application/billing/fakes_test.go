package billing_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
	"github.com/jhoicas/encomiendas-api/internal/infrastructure/hka"
)

// memStore base de datos en memoria. Las transacciones se serializan con txMu y
// un error dentro de fn restaura la foto tomada al empezar (rollback).
type memStore struct {
	txMu     sync.Mutex
	mu       sync.Mutex
	offices  map[string]entity.Office
	clients  map[string]entity.Client // por id_number
	invoices map[string]entity.Invoice
	notes    []entity.FiscalNote
	company  *entity.CompanyInfo
}

func newMemStore() *memStore {
	return &memStore{
		offices:  map[string]entity.Office{},
		clients:  map[string]entity.Client{},
		invoices: map[string]entity.Invoice{},
		company: &entity.CompanyInfo{
			RIF:     "J-50123456-7",
			Name:    "Cooperativa de Transporte La Guaira R.L.",
			Address: "Av. Soublette, La Guaira",
			Phone:   "0212-3310000",
		},
	}
}

func (s *memStore) addOffice(code string) string {
	id := uuid.New().String()
	s.offices[id] = entity.Office{ID: id, Code: code, Name: "Oficina " + code}
	return id
}

func (s *memStore) office(id string) entity.Office {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offices[id]
}

type snapshot struct {
	offices  map[string]entity.Office
	clients  map[string]entity.Client
	invoices map[string]entity.Invoice
	notes    []entity.FiscalNote
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		offices:  make(map[string]entity.Office, len(s.offices)),
		clients:  make(map[string]entity.Client, len(s.clients)),
		invoices: make(map[string]entity.Invoice, len(s.invoices)),
		notes:    append([]entity.FiscalNote(nil), s.notes...),
	}
	for k, v := range s.offices {
		snap.offices[k] = v
	}
	for k, v := range s.clients {
		snap.clients[k] = v
	}
	for k, v := range s.invoices {
		snap.invoices[k] = v
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offices, s.clients, s.invoices, s.notes = snap.offices, snap.clients, snap.invoices, snap.notes
}

func (s *memStore) inTx(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.snapshot()
	if err := fn(); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type fakeTx struct{ s *memStore }

func (t fakeTx) RunNumbering(_ context.Context, fn func(repository.OfficeRepository) error) error {
	return t.s.inTx(func() error { return fn(officeRepo{t.s}) })
}

func (t fakeTx) RunInvoicing(_ context.Context, fn func(repository.OfficeRepository, repository.ClientRepository, repository.InvoiceRepository) error) error {
	return t.s.inTx(func() error { return fn(officeRepo{t.s}, clientRepo{t.s}, invoiceRepo{t.s}) })
}

func (t fakeTx) RunInvoice(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	return t.s.inTx(func() error { return fn(invoiceRepo{t.s}) })
}

func (t fakeTx) RunNotes(_ context.Context, fn func(repository.OfficeRepository, repository.FiscalNoteRepository) error) error {
	return t.s.inTx(func() error { return fn(officeRepo{t.s}, noteRepo{t.s}) })
}

// ── Repositorios ──────────────────────────────────────────────────────────────

type officeRepo struct{ s *memStore }

func (r officeRepo) Create(_ context.Context, o *entity.Office) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	r.s.offices[o.ID] = *o
	return nil
}

func (r officeRepo) GetByID(_ context.Context, id string) (*entity.Office, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.offices[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r officeRepo) List(_ context.Context) ([]*entity.Office, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Office
	for _, o := range r.s.offices {
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r officeRepo) GetForUpdate(ctx context.Context, id string) (*entity.Office, error) {
	return r.GetByID(ctx, id)
}

func (r officeRepo) UpdateCounters(_ context.Context, o *entity.Office) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.offices[o.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.offices[o.ID] = *o
	return nil
}

type clientRepo struct{ s *memStore }

func (r clientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[c.IDNumber]; ok {
		return domain.ErrDuplicate
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	r.s.clients[c.IDNumber] = *c
	return nil
}

func (r clientRepo) GetByIDNumber(_ context.Context, idNumber string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[idNumber]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type invoiceRepo struct{ s *memStore }

func (r invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.invoices {
		if other.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r invoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r invoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.s.invoices {
		if f.OfficeID != "" && inv.OfficeID != f.OfficeID {
			continue
		}
		inv := inv
		out = append(out, &inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber > out[j].InvoiceNumber })
	total := len(out)
	if f.Offset < len(out) {
		out = out[f.Offset:]
	} else {
		out = nil
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.invoices[inv.ID]
	if !ok || cur.Status == entity.InvoiceStatusVoided {
		return domain.NewConflictError("la factura %s no existe o está anulada", inv.InvoiceNumber)
	}
	// como en SQL: ni status ni el estado HKA se escriben por Update
	next := *inv
	next.Status = cur.Status
	next.HKAStatus, next.HKAMessage, next.HKASentAt = cur.HKAStatus, cur.HKAMessage, cur.HKASentAt
	next.UpdatedAt = time.Now()
	r.s.invoices[inv.ID] = next
	return nil
}

func (r invoiceRepo) MarkVoided(_ context.Context, id, hkaStatus string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.Status != entity.InvoiceStatusActive || inv.HKAStatus != hkaStatus {
		return false, nil
	}
	inv.Status = entity.InvoiceStatusVoided
	r.s.invoices[id] = inv
	return true, nil
}

func (r invoiceRepo) ClaimSubmission(_ context.Context, id, from string, staleBefore time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.Status != entity.InvoiceStatusActive || inv.HKAStatus != from {
		return false, nil
	}
	if from == entity.HKAStatusSubmitting && !inv.UpdatedAt.Before(staleBefore) {
		return false, nil
	}
	inv.HKAStatus, inv.UpdatedAt = entity.HKAStatusSubmitting, time.Now()
	r.s.invoices[id] = inv
	return true, nil
}

func (r invoiceRepo) CompleteSubmission(ctx context.Context, id, status, message string, sentAt *time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.HKAStatus != entity.HKAStatusSubmitting {
		return false, nil
	}
	inv.HKAStatus, inv.HKAMessage = status, message
	if sentAt != nil {
		inv.HKASentAt = sentAt
	}
	r.s.invoices[id] = inv
	return true, nil
}

func (r invoiceRepo) UpdateHKAStatus(_ context.Context, id, status, message string, sentAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.HKAStatus, inv.HKAMessage = status, message
	if sentAt != nil {
		inv.HKASentAt = sentAt
	}
	r.s.invoices[id] = inv
	return nil
}

func (r invoiceRepo) MarkInTransit(_ context.Context, ids []string, vehicleID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		inv, ok := r.s.invoices[id]
		if !ok || inv.Status != entity.InvoiceStatusActive || inv.ShippingStatus != entity.ShippingStatusPending {
			continue
		}
		inv.ShippingStatus, inv.VehicleID = entity.ShippingStatusInTransit, vehicleID
		r.s.invoices[id] = inv
		n++
	}
	return n, nil
}

func (r invoiceRepo) SetShippingStatus(_ context.Context, ids []string, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		if inv, ok := r.s.invoices[id]; ok {
			inv.ShippingStatus = status
			r.s.invoices[id] = inv
		}
	}
	return nil
}

type noteRepo struct{ s *memStore }

func (r noteRepo) Create(_ context.Context, n *entity.FiscalNote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notes = append(r.s.notes, *n)
	return nil
}

func (r noteRepo) UpdateResult(_ context.Context, id, status, message string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.notes {
		if r.s.notes[i].ID == id {
			r.s.notes[i].Status, r.s.notes[i].HKAMessage = status, message
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r noteRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.FiscalNote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.FiscalNote
	for _, n := range r.s.notes {
		if n.InvoiceID == invoiceID {
			n := n
			out = append(out, &n)
		}
	}
	return out, nil
}

type companyRepo struct{ s *memStore }

func (r companyRepo) Get(context.Context) (*entity.CompanyInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.company == nil {
		return nil, nil
	}
	c := *r.s.company
	return &c, nil
}

func (r companyRepo) Upsert(_ context.Context, c *entity.CompanyInfo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.company = &cp
	return nil
}

// ── Proveedor fiscal ──────────────────────────────────────────────────────────

// fakeProvider con entered/release opcionales: Emit avisa por entered y espera a release
// antes de responder, para dejar llamadas en vuelo.
type fakeProvider struct {
	entered chan struct{}
	release chan error

	mu        sync.Mutex
	emitErr   error
	voidErr   error
	emitted   []*hka.Document
	voided    []hka.VoidRequest
	downloads []hka.DownloadRequest
}

func (p *fakeProvider) Emit(_ context.Context, doc *hka.Document) (*hka.EmissionResult, error) {
	p.mu.Lock()
	p.emitted = append(p.emitted, doc)
	emitErr := p.emitErr
	p.mu.Unlock()
	if p.entered != nil {
		p.entered <- struct{}{}
		if err := <-p.release; err != nil {
			return nil, err
		}
	}
	if emitErr != nil {
		return nil, emitErr
	}
	return &hka.EmissionResult{Code: "200", Message: "Documento procesado correctamente", NumeroControl: "00-00000001"}, nil
}

func (p *fakeProvider) Void(_ context.Context, req hka.VoidRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.voided = append(p.voided, req)
	if p.voidErr != nil {
		return "", p.voidErr
	}
	return "Documento anulado exitosamente", nil
}

func (p *fakeProvider) Download(_ context.Context, req hka.DownloadRequest) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.downloads = append(p.downloads, req)
	return []byte("%PDF-1.4"), nil
}

func (p *fakeProvider) emitCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.emitted)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }
