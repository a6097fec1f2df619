package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/infrastructure/metrics"
)

func TestRecorder_Contadores(t *testing.T) {
	r := metrics.NewRecorder()

	r.ValidationCompleted(entity.KindQuote, true)
	r.ValidationCompleted(entity.KindQuote, false)
	r.ValidationCompleted(entity.KindQuote, false)
	r.DocumentSaved(entity.KindInvoice)
	r.DocumentRendered(entity.KindInvoice, 3)
	r.DocumentRendered(entity.KindInvoice, 2)
	r.LayoutOverflow(entity.KindQuote)

	assert.Equal(t, 1, testutil.CollectAndCount(r.Registry(), "facturation_documents_saved_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(r.Registry(), "facturation_validations_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(r.Registry(), "facturation_layout_overflows_total"))

	families, err := r.Registry().Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				values[mf.GetName()] += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 3.0, values["facturation_validations_total"])
	assert.Equal(t, 2.0, values["facturation_pdf_rendered_total"])
	assert.Equal(t, 5.0, values["facturation_pdf_pages_total"])
}

func TestRecorder_Handler(t *testing.T) {
	r := metrics.NewRecorder()
	r.ObserveHTTP("/api/settings", "GET", 200, 0.01)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `facturation_http_requests_total{method="GET",route="/api/settings",status="200"} 1`)
}
