package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biovolailles/bvugo/internal/config"
	"github.com/biovolailles/bvugo/internal/models"
	"github.com/biovolailles/bvugo/internal/trace"
	"github.com/gorilla/mux"
)

type stubResolver struct {
	view    *trace.Provenance
	err     error
	lastRef string
	origin  trace.ScanOrigin
	calls   int
}

func (s *stubResolver) Resolve(ctx context.Context, ref string, origin trace.ScanOrigin) (*trace.Provenance, error) {
	s.calls++
	s.lastRef = ref
	s.origin = origin
	if s.err != nil {
		return nil, s.err
	}
	return s.view, nil
}

func newTestRouter(resolver TraceResolver) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		cfg:      &config.Config{PublicOrigin: "https://bvunion.ma"},
		resolver: resolver,
	}
	r.HandleFunc("/trace/{batchRef}", r.traceBatch).Methods("GET")
	r.HandleFunc("/trace/{batchRef}/qr", r.traceQR).Methods("GET")
	return r
}

func TestTraceBatchOK(t *testing.T) {
	stub := &stubResolver{view: &trace.Provenance{
		BatchRef:    "BVU-2025-0001",
		SourceKind:  models.SourceFlock,
		Cooperative: trace.CooperativeView{Name: "Coop Atlas"},
		Source:      trace.SourceView{Breed: "Rhode Island", FeedType: "maïs"},
		Batch:       trace.BatchView{QuantityEggs: 360, Grade: "A", PackageDate: "2025-02-10"},
		ScanCount:   5,
	}}
	router := newTestRouter(stub)

	req := httptest.NewRequest("GET", "/trace/BVU-2025-0001", nil)
	req.Header.Set("X-Forwarded-For", "196.0.0.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if stub.lastRef != "BVU-2025-0001" {
		t.Errorf("Resolver got ref %q", stub.lastRef)
	}
	if stub.origin.IPAddress != "196.0.0.9" {
		t.Errorf("Forwarded client IP not extracted: %q", stub.origin.IPAddress)
	}

	var got trace.Provenance
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if got.Cooperative.Name != "Coop Atlas" || got.Batch.QuantityEggs != 360 {
		t.Errorf("Payload mismatch: %+v", got)
	}
}

func TestTraceBatchNotFound(t *testing.T) {
	stub := &stubResolver{err: trace.ErrBatchNotFound}
	router := newTestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/trace/BVU-1999-9999", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Status = %d, want 404", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if body["not_found"] != true || body["batch_ref"] != "BVU-1999-9999" {
		t.Errorf("Not-found payload mismatch: %v", body)
	}
}

func TestTraceBatchIntegrityError(t *testing.T) {
	stub := &stubResolver{err: models.ErrAmbiguousSource}
	router := newTestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/trace/BVU-2025-0003", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want 500", rec.Code)
	}
}

func TestTraceQR(t *testing.T) {
	router := newTestRouter(&stubResolver{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/trace/BVU-2025-0001/qr", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}

	// PNG magic bytes
	body := rec.Body.Bytes()
	if len(body) < 8 || string(body[1:4]) != "PNG" {
		t.Error("Response is not a PNG image")
	}
}
