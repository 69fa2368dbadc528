package trace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/biovolailles/bvugo/internal/models"
)

// fakeStore is an in-memory Store so resolver behavior can be tested
// without a database.
type fakeStore struct {
	mu      sync.Mutex
	batches map[string]*models.PackagingBatch
	logs    map[string][]*models.ProductionLog
	scans   []*models.ScanLog
	counts  map[string]int64

	scanErr      error // injected InsertScanLog failure
	incrementErr error // injected IncrementScanCount failure
	sawCancelled bool  // a bookkeeping write arrived with a dead context
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		batches: map[string]*models.PackagingBatch{},
		logs:    map[string][]*models.ProductionLog{},
		counts:  map[string]int64{},
	}
}

func (f *fakeStore) PackagingBatchByRef(ctx context.Context, ref string) (*models.PackagingBatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch, ok := f.batches[ref]
	if !ok {
		return nil, ErrBatchNotFound
	}
	return batch, nil
}

func (f *fakeStore) LatestProductionLog(ctx context.Context, flockID string) (*models.ProductionLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.logs[flockID]
	if len(rows) == 0 {
		return nil, nil
	}
	latest := rows[0]
	for _, row := range rows[1:] {
		if row.CollectionDate.After(latest.CollectionDate) {
			latest = row
		}
	}
	return latest, nil
}

func (f *fakeStore) InsertScanLog(ctx context.Context, scan *models.ScanLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ctx.Err() != nil {
		f.sawCancelled = true
	}
	if f.scanErr != nil {
		return f.scanErr
	}
	f.scans = append(f.scans, scan)
	return nil
}

func (f *fakeStore) IncrementScanCount(ctx context.Context, ref string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ctx.Err() != nil {
		f.sawCancelled = true
	}
	if f.incrementErr != nil {
		return 0, f.incrementErr
	}
	f.counts[ref]++
	return f.counts[ref], nil
}

func (f *fakeStore) scanLogCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scans)
}

func (f *fakeStore) count(ref string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[ref]
}

// waitForAccounting polls until both async writes for n resolutions landed
func waitForAccounting(t *testing.T, f *fakeStore, ref string, scans int, count int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.scanLogCount() == scans && f.count(ref) == count {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Accounting did not settle: scans=%d (want %d), count=%d (want %d)",
		f.scanLogCount(), scans, f.count(ref), count)
}

func strPtr(s string) *string { return &s }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedFlockBatch(f *fakeStore) *models.PackagingBatch {
	coop := &models.Cooperative{
		ID:                  "coop-1",
		Name:                "Coop Atlas",
		Location:            "Azrou",
		CertificationNumber: "ONSSA-771",
	}
	flock := &models.Flock{
		ID:            "flock-1",
		CooperativeID: coop.ID,
		Breed:         "Rhode Island",
		ArrivalDate:   date(2024, 11, 2),
		FeedType:      "maïs bio",
		Cooperative:   coop,
	}
	batch := &models.PackagingBatch{
		ID:           "batch-1",
		BatchRef:     "BVU-2025-0001",
		FlockID:      strPtr(flock.ID),
		QuantityEggs: 360,
		Grade:        "A",
		PackageDate:  date(2025, 2, 10),
		ScanCount:    5,
		Flock:        flock,
	}
	f.batches[batch.BatchRef] = batch
	return batch
}

func TestResolveFlockBatch(t *testing.T) {
	fs := newFakeStore()
	seedFlockBatch(fs)
	fs.logs["flock-1"] = []*models.ProductionLog{
		{ID: "log-1", FlockID: "flock-1", CollectionDate: date(2025, 2, 1), FeedType: "orge", VetCheckPassed: true},
		{ID: "log-2", FlockID: "flock-1", CollectionDate: date(2025, 2, 8), FeedType: "maïs", VetCheckPassed: true},
	}

	resolver := NewResolver(fs)
	view, err := resolver.Resolve(context.Background(), "BVU-2025-0001", ScanOrigin{IPAddress: "10.0.0.1"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if view.BatchRef != "BVU-2025-0001" {
		t.Errorf("BatchRef mismatch: %s", view.BatchRef)
	}
	if view.SourceKind != models.SourceFlock {
		t.Errorf("SourceKind = %s, want flock", view.SourceKind)
	}
	if view.Cooperative.Name != "Coop Atlas" {
		t.Errorf("Cooperative = %q, want Coop Atlas", view.Cooperative.Name)
	}
	if view.Source.Breed != "Rhode Island" {
		t.Errorf("Breed = %q, want Rhode Island", view.Source.Breed)
	}
	if view.Source.AnimalType != "" {
		t.Errorf("Flock batch must not carry livestock fields, got animal_type=%q", view.Source.AnimalType)
	}
	if view.Batch.Grade != "A" || view.Batch.QuantityEggs != 360 {
		t.Errorf("Batch fields mismatch: grade=%q quantity=%d", view.Batch.Grade, view.Batch.QuantityEggs)
	}
	if view.Batch.ExpiryDate != "" {
		t.Errorf("Expiry should be empty, got %q", view.Batch.ExpiryDate)
	}

	// Most recent log wins
	if !view.Production.HasLog {
		t.Error("Expected a production log")
	}
	if view.Production.CollectionDate != "2025-02-08" || view.Production.FeedType != "maïs" {
		t.Errorf("Latest log not surfaced: date=%s feed=%s", view.Production.CollectionDate, view.Production.FeedType)
	}

	waitForAccounting(t, fs, "BVU-2025-0001", 1, 1)
	fs.mu.Lock()
	if fs.scans[0].IPAddress != "10.0.0.1" {
		t.Errorf("Scan origin not recorded: %+v", fs.scans[0])
	}
	fs.mu.Unlock()
}

func TestResolveProductionFallback(t *testing.T) {
	fs := newFakeStore()
	seedFlockBatch(fs) // no production logs seeded

	resolver := NewResolver(fs)
	view, err := resolver.Resolve(context.Background(), "BVU-2025-0001", ScanOrigin{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if view.Production.HasLog {
		t.Error("No log rows exist, HasLog should be false")
	}
	if view.Production.FeedType != "maïs bio" {
		t.Errorf("Feed fallback to flock feed_type failed: %q", view.Production.FeedType)
	}
	if view.Production.CollectionDate != "2025-02-10" {
		t.Errorf("Collection date should fall back to package date, got %s", view.Production.CollectionDate)
	}
}

func TestResolveLivestockBatch(t *testing.T) {
	fs := newFakeStore()
	coop := &models.Cooperative{ID: "coop-2", Name: "Coop Tafilalet"}
	weight := 42.5
	herd := &models.Livestock{
		ID:            "herd-1",
		CooperativeID: coop.ID,
		AnimalType:    models.AnimalOvine,
		Breed:         "Timahdite",
		WeightAvgKg:   &weight,
		FeedType:      "pâturage",
		ArrivalDate:   date(2024, 9, 15),
		Cooperative:   coop,
	}
	fs.batches["BVU-2025-0002"] = &models.PackagingBatch{
		ID:          "batch-2",
		BatchRef:    "BVU-2025-0002",
		LivestockID: strPtr(herd.ID),
		PackageDate: date(2025, 3, 1),
		Livestock:   herd,
	}

	resolver := NewResolver(fs)
	view, err := resolver.Resolve(context.Background(), "BVU-2025-0002", ScanOrigin{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if view.SourceKind != models.SourceLivestock {
		t.Errorf("SourceKind = %s, want livestock", view.SourceKind)
	}
	if view.Source.AnimalType != models.AnimalOvine {
		t.Errorf("AnimalType = %q, want ovine", view.Source.AnimalType)
	}
	if view.Source.BreedPhotoURL != "" {
		t.Errorf("Livestock batch must not carry flock photo, got %q", view.Source.BreedPhotoURL)
	}
	if view.Production.HasLog {
		t.Error("Livestock sources have no production logs")
	}
	if view.Production.FeedType != "pâturage" {
		t.Errorf("Feed fallback to herd feed_type failed: %q", view.Production.FeedType)
	}
}

func TestResolveNotFound(t *testing.T) {
	fs := newFakeStore()
	seedFlockBatch(fs)
	resolver := NewResolver(fs)

	for _, ref := range []string{"BVU-1999-9999", ""} {
		_, err := resolver.Resolve(context.Background(), ref, ScanOrigin{})
		if !errors.Is(err, ErrBatchNotFound) {
			t.Errorf("Resolve(%q) = %v, want ErrBatchNotFound", ref, err)
		}
	}

	// No match means zero accounting writes
	time.Sleep(50 * time.Millisecond)
	if n := fs.scanLogCount(); n != 0 {
		t.Errorf("NotFound produced %d scan log rows, want 0", n)
	}
	if c := fs.count("BVU-1999-9999"); c != 0 {
		t.Errorf("NotFound incremented counter to %d", c)
	}
}

func TestResolveRejectsAmbiguousSource(t *testing.T) {
	fs := newFakeStore()
	fs.batches["BVU-2025-0003"] = &models.PackagingBatch{
		BatchRef:    "BVU-2025-0003",
		FlockID:     strPtr("flock-x"),
		LivestockID: strPtr("herd-x"),
	}
	fs.batches["BVU-2025-0004"] = &models.PackagingBatch{
		BatchRef: "BVU-2025-0004",
	}

	resolver := NewResolver(fs)

	if _, err := resolver.Resolve(context.Background(), "BVU-2025-0003", ScanOrigin{}); !errors.Is(err, models.ErrAmbiguousSource) {
		t.Errorf("Both FKs set: got %v, want ErrAmbiguousSource", err)
	}
	if _, err := resolver.Resolve(context.Background(), "BVU-2025-0004", ScanOrigin{}); !errors.Is(err, models.ErrNoSource) {
		t.Errorf("No FK set: got %v, want ErrNoSource", err)
	}

	time.Sleep(50 * time.Millisecond)
	if n := fs.scanLogCount(); n != 0 {
		t.Errorf("Integrity errors produced %d scan rows, want 0", n)
	}
}

func TestRepeatedResolutionsAccumulate(t *testing.T) {
	fs := newFakeStore()
	seedFlockBatch(fs)
	resolver := NewResolver(fs)

	const n = 7
	for i := 0; i < n; i++ {
		if _, err := resolver.Resolve(context.Background(), "BVU-2025-0001", ScanOrigin{}); err != nil {
			t.Fatalf("Resolve #%d failed: %v", i, err)
		}
	}

	waitForAccounting(t, fs, "BVU-2025-0001", n, n)
}

func TestConcurrentResolutionsLoseNoIncrement(t *testing.T) {
	fs := newFakeStore()
	seedFlockBatch(fs)
	resolver := NewResolver(fs)

	const k = 32
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := resolver.Resolve(context.Background(), "BVU-2025-0001", ScanOrigin{}); err != nil {
				t.Errorf("Concurrent resolve failed: %v", err)
			}
		}()
	}
	wg.Wait()

	waitForAccounting(t, fs, "BVU-2025-0001", k, k)
}

func TestAccountingFailureDoesNotFailResolution(t *testing.T) {
	fs := newFakeStore()
	seedFlockBatch(fs)
	fs.scanErr = errors.New("network down")
	fs.incrementErr = errors.New("network down")

	resolver := NewResolver(fs)
	view, err := resolver.Resolve(context.Background(), "BVU-2025-0001", ScanOrigin{})
	if err != nil {
		t.Fatalf("Resolution must succeed despite accounting failures: %v", err)
	}
	if view.Cooperative.Name != "Coop Atlas" {
		t.Errorf("Payload degraded by accounting failure: %+v", view)
	}
}

func TestAccountingSurvivesCallerCancellation(t *testing.T) {
	fs := newFakeStore()
	seedFlockBatch(fs)
	resolver := NewResolver(fs)

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := resolver.Resolve(ctx, "BVU-2025-0001", ScanOrigin{}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	// Viewer navigates away immediately after the page resolves
	cancel()

	waitForAccounting(t, fs, "BVU-2025-0001", 1, 1)
	fs.mu.Lock()
	sawCancelled := fs.sawCancelled
	fs.mu.Unlock()
	if sawCancelled {
		t.Error("Bookkeeping writes ran on the caller's cancelled context")
	}
}
