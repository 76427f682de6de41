package registry

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vividmedi/medicert/internal/api"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func testRequest() api.SubmissionRequest {
	today := time.Now().Format("2006-01-02")
	return api.SubmissionRequest{
		CertType:  "Sick Leave",
		LeaveFrom: "Work",
		Reason:    "Flu",
		Email:     "ann@example.com",
		FirstName: "Ann",
		LastName:  "Lee",
		FromDate:  today,
		ToDate:    today,
		Symptoms:  "Fever and cough",
	}
}

func TestSubmit_IssuesCode(t *testing.T) {
	reg := New(testStore(t))

	code, err := reg.Submit(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if !WellFormedCode(code) {
		t.Errorf("Expected a well-formed code, got %q", code)
	}
}

func TestSubmit_MissingRequiredFields(t *testing.T) {
	reg := New(testStore(t))

	tests := []struct {
		name   string
		mutate func(*api.SubmissionRequest)
	}{
		{"email", func(r *api.SubmissionRequest) { r.Email = "" }},
		{"firstName", func(r *api.SubmissionRequest) { r.FirstName = "" }},
		{"lastName", func(r *api.SubmissionRequest) { r.LastName = "" }},
		{"fromDate", func(r *api.SubmissionRequest) { r.FromDate = "" }},
		{"toDate", func(r *api.SubmissionRequest) { r.ToDate = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			tt.mutate(&req)

			_, err := reg.Submit(context.Background(), req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestSubmit_LeavePolicyEnforced(t *testing.T) {
	reg := New(testStore(t))

	req := testRequest()
	req.FromDate = time.Now().Format("2006-01-02")
	req.ToDate = time.Now().AddDate(0, 0, api.MaxLeaveDays).Format("2006-01-02")

	_, err := reg.Submit(context.Background(), req)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for over-long leave, got %v", err)
	}
}

func TestSubmit_RetriesOnCodeCollision(t *testing.T) {
	// First submission takes MEDC000001; the forced generator offers the
	// taken code first and a fresh one second.
	codes := []string{"MEDC000001", "MEDC000001", "MEDC000002"}
	var calls int

	reg := New(testStore(t), WithCodeFunc(func() string {
		code := codes[calls]
		calls++
		return code
	}))

	first, err := reg.Submit(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("First submit failed: %v", err)
	}
	if first != "MEDC000001" {
		t.Fatalf("Expected MEDC000001, got %s", first)
	}

	second, err := reg.Submit(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Second submit failed: %v", err)
	}
	if second != "MEDC000002" {
		t.Errorf("Expected retry to yield MEDC000002, got %s", second)
	}
	if calls != 3 {
		t.Errorf("Expected 3 generator calls, got %d", calls)
	}
}

func TestSubmit_CodeSpaceExhausted(t *testing.T) {
	reg := New(testStore(t), WithCodeFunc(func() string { return "MEDC777777" }))

	if _, err := reg.Submit(context.Background(), testRequest()); err != nil {
		t.Fatalf("First submit failed: %v", err)
	}

	_, err := reg.Submit(context.Background(), testRequest())
	if err == nil {
		t.Fatal("Expected error when every candidate code collides, got none")
	}
	if errors.Is(err, ErrValidation) {
		t.Errorf("Exhaustion is a server failure, not a validation error: %v", err)
	}
}

func TestSubmit_ConcurrentCodesUnique(t *testing.T) {
	store := testStore(t)
	reg := New(store)

	const n = 20
	codes := make(chan string, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := reg.Submit(context.Background(), testRequest())
			if err != nil {
				t.Errorf("Concurrent submit failed: %v", err)
				return
			}
			codes <- code
		}()
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]bool)
	for code := range codes {
		if seen[code] {
			t.Errorf("Duplicate code issued: %s", code)
		}
		seen[code] = true
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != n {
		t.Errorf("Expected %d records, got %d", n, count)
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	issued := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	reg := New(testStore(t), WithClock(func() time.Time { return issued }))

	req := testRequest()
	req.FromDate = "2026-03-10"
	req.ToDate = "2026-03-12"

	code, err := reg.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	rec, found, err := reg.Verify(context.Background(), code)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !found {
		t.Fatal("Expected the issued code to verify")
	}

	if rec.FirstName != "Ann" || rec.LastName != "Lee" {
		t.Errorf("Expected Ann Lee, got %s %s", rec.FirstName, rec.LastName)
	}
	if rec.CertType != "Sick Leave" {
		t.Errorf("Expected Sick Leave, got %s", rec.CertType)
	}
	if rec.FromDate != "2026-03-10" || rec.ToDate != "2026-03-12" {
		t.Errorf("Expected leave 2026-03-10 to 2026-03-12, got %s to %s", rec.FromDate, rec.ToDate)
	}
	if !rec.IssuedAt.Equal(issued) {
		t.Errorf("Expected issued at %v, got %v", issued, rec.IssuedAt)
	}
}

func TestVerify_UnknownWellFormedCode(t *testing.T) {
	reg := New(testStore(t))

	_, found, err := reg.Verify(context.Background(), "MEDC000000")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if found {
		t.Error("Expected unknown code to be not found")
	}
}

func TestVerify_MalformedCode(t *testing.T) {
	reg := New(testStore(t))

	for _, code := range []string{"", "MEDC12", "hello", "MEDC12345X"} {
		_, found, err := reg.Verify(context.Background(), code)
		if err != nil {
			t.Fatalf("Verify(%q) failed: %v", code, err)
		}
		if found {
			t.Errorf("Expected malformed code %q to be not found", code)
		}
	}
}

func TestVerify_CaseInsensitive(t *testing.T) {
	reg := New(testStore(t))

	code, err := reg.Submit(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	lower := "medc" + code[4:]
	_, found, err := reg.Verify(context.Background(), lower)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !found {
		t.Errorf("Expected lowercase %q to verify", lower)
	}
}

type captureNotifier struct {
	mu   sync.Mutex
	recs []Record
}

func (c *captureNotifier) Enqueue(rec Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recs = append(c.recs, rec)
}

func TestSubmit_NotifiesOnSuccess(t *testing.T) {
	notifier := &captureNotifier{}
	reg := New(testStore(t), WithNotifier(notifier))

	code, err := reg.Submit(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if len(notifier.recs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifier.recs))
	}
	if notifier.recs[0].Code != code {
		t.Errorf("Expected notification for %s, got %s", code, notifier.recs[0].Code)
	}
}

func TestSubmit_NoNotificationOnRejection(t *testing.T) {
	notifier := &captureNotifier{}
	reg := New(testStore(t), WithNotifier(notifier))

	req := testRequest()
	req.Email = ""

	if _, err := reg.Submit(context.Background(), req); err == nil {
		t.Fatal("Expected validation error")
	}
	if len(notifier.recs) != 0 {
		t.Errorf("Expected no notifications, got %d", len(notifier.recs))
	}
}

func TestRecordView(t *testing.T) {
	rec := Record{
		Code:      "MEDC424242",
		FirstName: "Ann",
		LastName:  "Lee",
		CertType:  "Sick Leave",
		Reason:    "Flu",
		FromDate:  "2026-03-10",
		ToDate:    "2026-03-11",
		IssuedAt:  time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		// Fields the public view must not leak
		Email:   "ann@example.com",
		Mobile:  "0400000000",
		Address: "1 Example St",
	}

	view := rec.View()
	if view.CertificateNumber != "MEDC424242" {
		t.Errorf("Expected MEDC424242, got %s", view.CertificateNumber)
	}
	if view.IssuedAt != "2026-03-10T09:30:00Z" {
		t.Errorf("Expected RFC3339 issued-at, got %s", view.IssuedAt)
	}
}

func TestStoreInsert_DuplicateCode(t *testing.T) {
	store := testStore(t)

	rec := Record{ID: "id-1", Code: "MEDC111111", IssuedAt: time.Now()}
	if err := store.Insert(context.Background(), rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	dup := Record{ID: "id-2", Code: "MEDC111111", IssuedAt: time.Now()}
	err := store.Insert(context.Background(), dup)
	if !errors.Is(err, ErrCodeTaken) {
		t.Errorf("Expected ErrCodeTaken, got %v", err)
	}
}

func TestStoreFindByCode_NotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.FindByCode(context.Background(), "MEDC654321")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}

	reg := New(store)
	code, err := reg.Submit(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenStore(path)
	if err != nil {
		t.Fatalf("Reopening store failed: %v", err)
	}
	defer reopened.Close()

	rec, err := reopened.FindByCode(context.Background(), code)
	if err != nil {
		t.Fatalf("FindByCode after reopen failed: %v", err)
	}
	if rec.FirstName != "Ann" {
		t.Errorf("Expected persisted record for Ann, got %+v", rec)
	}
}

func ExampleRegistry_Submit() {
	store, _ := OpenStore(":memory:")
	defer store.Close()

	reg := New(store, WithCodeFunc(func() string { return "MEDC123456" }))

	today := time.Now().Format("2006-01-02")
	code, _ := reg.Submit(context.Background(), api.SubmissionRequest{
		Email:     "ann@example.com",
		FirstName: "Ann",
		LastName:  "Lee",
		FromDate:  today,
		ToDate:    today,
	})

	fmt.Println(code)
	// Output: MEDC123456
}
