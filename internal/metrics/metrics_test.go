package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := New()

	r.JobRendered()
	r.JobRendered()
	r.JobSkipped()
	r.AssetStale()
	r.AssetUnchanged()
	r.RasterUnit(128, nil)
	r.RasterUnit(128, errors.New("boom"))
	r.ManifestWritten()
	r.RunFinished(1.5, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.jobs.WithLabelValues("rendered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.jobs.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.assets.WithLabelValues("stale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rasterUnits.WithLabelValues("128", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rasterUnits.WithLabelValues("128", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.manifests))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.lastRunSuccess))

	r.RunFinished(0.5, errors.New("boom"))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.lastRunSuccess))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("failed")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.JobRendered()
		r.JobFailed()
		r.AssetStale()
		r.RasterUnit(256, nil)
		r.ManifestWritten()
		r.RunFinished(1, nil)
	})
	assert.Nil(t, r.Registry())
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.JobRendered()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `iconpipe_render_jobs_total{result="rendered"} 1`)
}
