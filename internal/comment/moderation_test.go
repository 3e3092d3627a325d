package comment

import (
	"context"
	"errors"
	"testing"

	"github.com/ishan/vaahaka/internal/model"
)

type mockPurger struct {
	purgeFn func(ctx context.Context, target model.Target) (int64, error)
	calls   []model.Target
}

func (m *mockPurger) PurgeTarget(ctx context.Context, target model.Target) (int64, error) {
	m.calls = append(m.calls, target)
	if m.purgeFn != nil {
		return m.purgeFn(ctx, target)
	}
	return 0, nil
}

func TestModeration_SetApproved(t *testing.T) {
	var gotID int64
	var gotApproved bool
	repo := &mockCommentRepo{
		setApprovedFn: func(ctx context.Context, id int64, approved bool) (bool, error) {
			gotID, gotApproved = id, approved
			return true, nil
		},
	}
	svc := NewModerationService(repo, &mockPurger{}, testLogger())

	if err := svc.SetApproved(context.Background(), 9, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != 9 || gotApproved != false {
		t.Errorf("SetApproved persisted (%d, %v), want (9, false)", gotID, gotApproved)
	}
}

func TestModeration_SetApproved_NotFound(t *testing.T) {
	repo := &mockCommentRepo{
		setApprovedFn: func(ctx context.Context, id int64, approved bool) (bool, error) {
			return false, nil
		},
	}
	svc := NewModerationService(repo, &mockPurger{}, testLogger())

	err := svc.SetApproved(context.Background(), 404, true)
	if err == nil {
		t.Fatal("expected error for missing comment")
	}
	if code := apiErrorOf(t, err).Code; code != model.ErrCodeCommentNotFound {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeCommentNotFound)
	}
}

func TestModeration_SetFeatured(t *testing.T) {
	repo := &mockCommentRepo{
		setFeaturedFn: func(ctx context.Context, id int64, featured bool) (bool, error) {
			return true, nil
		},
	}
	svc := NewModerationService(repo, &mockPurger{}, testLogger())

	if err := svc.SetFeatured(context.Background(), 3, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestModeration_Delete_PurgesReactionsFirst(t *testing.T) {
	order := []string{}
	purger := &mockPurger{
		purgeFn: func(ctx context.Context, target model.Target) (int64, error) {
			order = append(order, "purge")
			return 4, nil
		},
	}
	repo := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Comment, error) {
			return &model.Comment{ID: id}, nil
		},
		deleteFn: func(ctx context.Context, id int64) (bool, error) {
			order = append(order, "delete")
			return true, nil
		},
	}
	svc := NewModerationService(repo, purger, testLogger())

	if err := svc.Delete(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(order) != 2 || order[0] != "purge" || order[1] != "delete" {
		t.Errorf("operation order = %v, want [purge delete]", order)
	}
	if len(purger.calls) != 1 {
		t.Fatalf("purge called %d times, want 1", len(purger.calls))
	}
	if purger.calls[0].Kind != model.ContentKindComment || purger.calls[0].ID != 7 {
		t.Errorf("purged target = %+v, want {comment 7}", purger.calls[0])
	}
}

func TestModeration_Delete_NotFound(t *testing.T) {
	purger := &mockPurger{}
	repo := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Comment, error) {
			return nil, nil
		},
	}
	svc := NewModerationService(repo, purger, testLogger())

	err := svc.Delete(context.Background(), 404)
	if err == nil {
		t.Fatal("expected error for missing comment")
	}
	if code := apiErrorOf(t, err).Code; code != model.ErrCodeCommentNotFound {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeCommentNotFound)
	}
	if len(purger.calls) != 0 {
		t.Error("purge must not run for a missing comment")
	}
}

func TestModeration_Delete_PurgeFailureAborts(t *testing.T) {
	deleted := false
	purger := &mockPurger{
		purgeFn: func(ctx context.Context, target model.Target) (int64, error) {
			return 0, errors.New("deadlock detected")
		},
	}
	repo := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Comment, error) {
			return &model.Comment{ID: id}, nil
		},
		deleteFn: func(ctx context.Context, id int64) (bool, error) {
			deleted = true
			return true, nil
		},
	}
	svc := NewModerationService(repo, purger, testLogger())

	if err := svc.Delete(context.Background(), 7); err == nil {
		t.Fatal("expected error when purge fails")
	}
	if deleted {
		t.Error("comment must not be deleted when its reaction purge failed")
	}
}

func TestModeration_ListForModeration_IncludesUnapproved(t *testing.T) {
	repo := &mockCommentRepo{
		listFn: func(ctx context.Context, target model.Target, approvedOnly bool) ([]*model.Comment, error) {
			if approvedOnly {
				t.Error("moderation listing must include unapproved comments")
			}
			return []*model.Comment{{ID: 1, IsApproved: false}}, nil
		},
	}
	svc := NewModerationService(repo, &mockPurger{}, testLogger())

	got, err := svc.ListForModeration(context.Background(), model.Target{Kind: model.ContentKindEpisode, ID: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d comments, want 1", len(got))
	}
}
