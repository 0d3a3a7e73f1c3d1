package api_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"easel/internal/api"
	"easel/internal/config"
	"easel/internal/lease"
	"easel/internal/library"
	"easel/internal/queue"
	"easel/internal/taxonomy"
	"easel/internal/testsupport"
)

func newService(t *testing.T, opts ...testsupport.ConfigOption) (*api.QueueService, *queue.Store, *config.Config) {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	manager := lease.NewManager(store, cfg.LeaseDuration())
	scanner := library.NewScanner(cfg.Paths.ImageDir, store, nil)
	vocab := taxonomy.FromConfig(cfg.Taxonomy)
	return api.NewQueueService(store, manager, scanner, vocab, nil), store, cfg
}

func TestNextDiscoversAndAssigns(t *testing.T) {
	svc, _, cfg := newService(t)
	testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "a.png")

	assignment, err := svc.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if assignment == nil {
		t.Fatal("expected an assignment")
	}
	if assignment.Item.Name != "a.png" {
		t.Fatalf("unexpected item %q", assignment.Item.Name)
	}
	if assignment.Item.URL != "/images/a.png" {
		t.Fatalf("unexpected url %q", assignment.Item.URL)
	}
	if assignment.Token == "" {
		t.Fatal("expected a token")
	}
	if !assignment.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", assignment.ExpiresAt)
	}
	if assignment.Item.Width != 4 || assignment.Item.Height != 3 {
		t.Fatalf("expected 4x3, got %dx%d", assignment.Item.Width, assignment.Item.Height)
	}

	// The only image is leased, so the queue is drained.
	second, err := svc.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if second != nil {
		t.Fatalf("expected drained queue, got %#v", second)
	}
}

func TestSubmitRequiresLabels(t *testing.T) {
	svc, _, cfg := newService(t)
	testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "a.png")

	ctx := context.Background()
	assignment, err := svc.Next(ctx)
	if err != nil || assignment == nil {
		t.Fatalf("Next: assignment=%v err=%v", assignment, err)
	}

	err = svc.Submit(ctx, assignment.Item.ID, assignment.Token, nil)
	if !errors.Is(err, api.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty labels, got %v", err)
	}
	err = svc.Submit(ctx, assignment.Item.ID, assignment.Token, queue.Labels{"hands": {}})
	if !errors.Is(err, api.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty selections, got %v", err)
	}

	// Rejection must not consume the lease.
	if err := svc.Submit(ctx, assignment.Item.ID, assignment.Token, queue.Labels{"hands": {"blurry"}}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestSubmitStrictVocabulary(t *testing.T) {
	strictOpts := testsupport.WithTaxonomy(true,
		config.Category{ID: "hands", Name: "Hands", Labels: []config.Label{{ID: "blurry", Name: "Blurry"}}})
	svc, _, cfg := newService(t, strictOpts)
	testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "a.png")

	ctx := context.Background()
	assignment, err := svc.Next(ctx)
	if err != nil || assignment == nil {
		t.Fatalf("Next: assignment=%v err=%v", assignment, err)
	}

	err = svc.Submit(ctx, assignment.Item.ID, assignment.Token, queue.Labels{"hands": {"sharp"}})
	if !errors.Is(err, api.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown label, got %v", err)
	}
	if err := svc.Submit(ctx, assignment.Item.ID, assignment.Token, queue.Labels{"hands": {"blurry"}}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestSubmitErrorMapping(t *testing.T) {
	svc, _, cfg := newService(t)
	testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "a.png")

	ctx := context.Background()
	assignment, err := svc.Next(ctx)
	if err != nil || assignment == nil {
		t.Fatalf("Next: assignment=%v err=%v", assignment, err)
	}

	labels := queue.Labels{"hands": {"blurry"}}
	err = svc.Submit(ctx, assignment.Item.ID, "bogus-token", labels)
	if !errors.Is(err, queue.ErrReservationInvalid) {
		t.Fatalf("expected ErrReservationInvalid, got %v", err)
	}
	err = svc.Submit(ctx, assignment.Item.ID+500, assignment.Token, labels)
	if !errors.Is(err, queue.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSkipAndRelease(t *testing.T) {
	svc, store, cfg := newService(t)
	testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "a.png")
	testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "b.png")

	ctx := context.Background()
	first, err := svc.Next(ctx)
	if err != nil || first == nil {
		t.Fatalf("Next: assignment=%v err=%v", first, err)
	}
	if err := svc.Skip(ctx, first.Item.ID, first.Token); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	skipped, err := store.GetByID(ctx, first.Item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if skipped.Status != queue.StatusDone || !skipped.Skipped {
		t.Fatalf("expected skipped done item, got %#v", skipped)
	}

	second, err := svc.Next(ctx)
	if err != nil || second == nil {
		t.Fatalf("Next: assignment=%v err=%v", second, err)
	}
	if err := svc.Release(ctx, second.Item.ID, second.Token); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := svc.Next(ctx)
	if err != nil {
		t.Fatalf("Next after release: %v", err)
	}
	if again == nil || again.Item.ID != second.Item.ID {
		t.Fatalf("expected released item reassigned, got %#v", again)
	}
}

func TestProgressCountsTerminalStates(t *testing.T) {
	svc, _, cfg := newService(t)
	testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "a.png")
	testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "b.png")
	testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "c.png")

	ctx := context.Background()
	first, err := svc.Next(ctx)
	if err != nil || first == nil {
		t.Fatalf("Next: assignment=%v err=%v", first, err)
	}
	if err := svc.Submit(ctx, first.Item.ID, first.Token, queue.Labels{"hands": {"blurry"}}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := svc.Next(ctx)
	if err != nil || second == nil {
		t.Fatalf("Next: assignment=%v err=%v", second, err)
	}
	if err := svc.Skip(ctx, second.Item.ID, second.Token); err != nil {
		t.Fatalf("Skip: %v", err)
	}

	counts, err := svc.Progress(ctx)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if counts.Total != 3 || counts.Done != 2 || counts.Skipped != 1 || counts.Pending != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestRecordsValidatesStatusFilter(t *testing.T) {
	svc, _, cfg := newService(t)
	testsupport.WriteTestImage(t, cfg.Paths.ImageDir, "a.png")

	ctx := context.Background()
	if _, err := svc.Next(ctx); err != nil {
		t.Fatalf("Next: %v", err)
	}

	records, err := svc.Records(ctx, "reserved", 0)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 1 || records[0].Status != queue.StatusReserved {
		t.Fatalf("unexpected records: %#v", records)
	}

	if _, err := svc.Records(ctx, "bogus", 0); !errors.Is(err, api.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTaxonomyViewSortsLabels(t *testing.T) {
	opts := testsupport.WithTaxonomy(false,
		config.Category{ID: "hands", Name: "Hands", Labels: []config.Label{
			{ID: "z_label", Name: "Z"},
			{ID: "a_label", Name: "A"},
		}})
	svc, _, _ := newService(t, opts)

	view := svc.Taxonomy()
	if view.Strict {
		t.Fatal("expected permissive taxonomy")
	}
	if len(view.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(view.Categories))
	}
	labels := view.Categories[0].Labels
	if labels[0].ID != "a_label" || labels[1].ID != "z_label" {
		t.Fatalf("expected sorted labels, got %#v", labels)
	}
}
