package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"quiz-storefront/internal/domain"
)

func TestSubmissionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSubmissionStore(t.TempDir())

	score := 7
	done := time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)
	sub := domain.Submission{
		ID:            "s1",
		QuizID:        "quiz-1",
		Name:          "Asha",
		Mobile:        "9000000001",
		Answers:       []string{"A", "B", "D", ""},
		Score:         &score,
		PaymentStatus: domain.PaymentPaid,
		PaymentID:     "DEMO",
		PriceMinor:    4900,
		PayableMinor:  4900,
		Referral:      "s0",
		CreatedAt:     time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		CompletedAt:   &done,
	}
	if err := store.Put(ctx, sub); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, sub) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, sub)
	}
}

func TestStoreOrderReplaceDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewCouponStore(dir)

	for _, id := range []string{"CPN-1", "CPN-2", "CPN-3"} {
		if err := store.Put(ctx, domain.Coupon{ID: id, Status: domain.CouponUnused, DiscountPercent: 50}); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}
	if err := store.Put(ctx, domain.Coupon{ID: "CPN-1", Status: domain.CouponUsed, DiscountPercent: 50}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := store.Delete(ctx, "CPN-2"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// a fresh store over the same directory sees what was written
	reopened := NewCouponStore(dir)
	list, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "CPN-1" || list[1].ID != "CPN-3" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if !list[0].Used() {
		t.Fatalf("expected CPN-1 replaced in place")
	}

	if _, err := reopened.Get(ctx, "CPN-2"); !errors.Is(err, domain.ErrCouponNotFound) {
		t.Fatalf("expected coupon not found, got %v", err)
	}
}

func TestFileIsJSONArrayWithIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewQuizStore(dir)

	if err := store.Put(ctx, domain.Quiz{ID: "quiz-1", Title: "Arithmetic"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, QuizzesFile))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var docs []map[string]any
	if err := json.Unmarshal(raw, &docs); err != nil {
		t.Fatalf("file is not a json array: %v", err)
	}
	if len(docs) != 1 || docs[0]["id"] != "quiz-1" {
		t.Fatalf("unexpected file content: %s", raw)
	}
}

func TestMissingFileIsEmpty(t *testing.T) {
	store := NewSubmissionStore(filepath.Join(t.TempDir(), "nested"))
	list, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
}

func TestCorruptFileFailsRequest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SubmissionsFile), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewSubmissionStore(dir)
	if _, err := store.List(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
