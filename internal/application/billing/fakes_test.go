package billing_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/Toutiscope/Facturation/internal/application/billing"
	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/layout"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mock de SequenceStore (testify/mock)
// ──────────────────────────────────────────────────────────────────────────────

type mockSequenceStore struct {
	mock.Mock
}

func (m *mockSequenceStore) LoadSequence(ctx context.Context) (entity.SequenceState, error) {
	args := m.Called(ctx)
	return args.Get(0).(entity.SequenceState), args.Error(1)
}

func (m *mockSequenceStore) AdvanceSequence(ctx context.Context, kind entity.Kind, n int64) error {
	args := m.Called(ctx, kind, n)
	return args.Error(0)
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memDocs struct {
	mu   sync.Mutex
	docs map[string]*entity.Document
	puts int
}

func newMemDocs() *memDocs { return &memDocs{docs: map[string]*entity.Document{}} }

var _ repository.DocumentRepository = (*memDocs)(nil)

func key(kind entity.Kind, id string) string { return string(kind) + "/" + id }

func (r *memDocs) Get(_ context.Context, kind entity.Kind, id string) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[key(kind, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memDocs) List(_ context.Context, kind entity.Kind, f repository.DocumentFilter) ([]*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Document
	for k, d := range r.docs {
		if !strings.HasPrefix(k, string(kind)+"/") {
			continue
		}
		if f.Year != 0 && d.Year(time.Time{}) != f.Year {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (r *memDocs) Put(_ context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *doc
	r.docs[key(doc.Type, doc.ID)] = &cp
	r.puts++
	return nil
}

func (r *memDocs) Delete(_ context.Context, kind entity.Kind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[key(kind, id)]; !ok {
		return domain.ErrNotFound
	}
	delete(r.docs, key(kind, id))
	return nil
}

type memSettings struct {
	mu       sync.Mutex
	settings entity.Settings
}

var _ repository.SettingsRepository = (*memSettings)(nil)

func newMemSettings() *memSettings {
	s := &memSettings{settings: *entity.DefaultSettings()}
	s.settings.Company = entity.Company{CompanyName: "Atelier Dupont", City: "Lyon"}
	return s
}

func (r *memSettings) Load(context.Context) (*entity.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := r.settings
	return &cp, nil
}

func (r *memSettings) Save(_ context.Context, s *entity.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seq := r.settings.Sequence()
	r.settings = *s
	r.settings.Billing.LatestQuoteNumber = seq.Quote
	r.settings.Billing.LatestInvoiceNumber = seq.Invoice
	return nil
}

func (r *memSettings) LoadSequence(context.Context) (entity.SequenceState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings.Sequence(), nil
}

func (r *memSettings) AdvanceSequence(_ context.Context, kind entity.Kind, n int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > r.settings.Sequence().Counter(kind) {
		r.settings.SetCounter(kind, n)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas y PDF
// ──────────────────────────────────────────────────────────────────────────────

type countingRecorder struct {
	valid, invalid, saved, rendered, pages, overflows int
}

func (r *countingRecorder) ValidationCompleted(_ entity.Kind, valid bool) {
	if valid {
		r.valid++
		return
	}
	r.invalid++
}
func (r *countingRecorder) DocumentSaved(entity.Kind) { r.saved++ }
func (r *countingRecorder) DocumentRendered(_ entity.Kind, pages int) {
	r.rendered++
	r.pages += pages
}
func (r *countingRecorder) LayoutOverflow(entity.Kind) { r.overflows++ }

type stubPainter struct {
	pages []layout.Page
	info  layout.Info
}

func (p *stubPainter) Paint(pages []layout.Page, info layout.Info) ([]byte, error) {
	p.pages = pages
	p.info = info
	return []byte("%PDF-1.3 stub"), nil
}

type stubRegister struct {
	report billing.RegisterReport
}

func (g *stubRegister) GenerateRegister(_ context.Context, report billing.RegisterReport) ([]byte, error) {
	g.report = report
	return []byte("%PDF register"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos de prueba
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newQuote presupuesto válido con una línea 2 × 100 = 200, IVA 0.
func newQuote(numero string) *entity.Document {
	return &entity.Document{
		Type:         entity.KindQuote,
		Numero:       numero,
		Date:         "2026-03-02",
		ValidityDate: "2026-04-01",
		Status:       entity.StatusDraft,
		Customer: entity.Customer{
			CustomerName: "Jeanne Martin",
			CompanyName:  "Martin Conseil",
			Address:      "12 rue des Lilas",
			PostalCode:   "69003",
			City:         "Lyon",
			Email:        "jeanne@example.fr",
			ClientType:   entity.ClientIndividual,
		},
		Services: []entity.ServiceLine{{
			ID: 1, Description: "Audit du site", Quantity: d("2"), Unit: entity.UnitDay,
			UnitPriceHT: d("100"), TotalHT: d("200"),
		}},
		Totals: entity.Totals{TotalHT: d("200"), VAT: d("0"), VATRate: d("0"), TotalTTC: d("200")},
	}
}

func newInvoice(numero string) *entity.Document {
	doc := newQuote(numero)
	doc.Type = entity.KindInvoice
	doc.ValidityDate = ""
	doc.DueDate = "2026-04-01"
	doc.Status = entity.StatusSent
	return doc
}
