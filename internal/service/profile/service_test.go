package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func ptr[T any](v T) *T { return &v }

// runServiceContract exercises the behavior every Service implementation shares.
func runServiceContract(t *testing.T, newService func(t *testing.T) Service) {
	t.Run("create then get", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		created, err := svc.Create(ctx, CreateParams{
			UserID:      "u1",
			Name:        "  Alice ",
			Email:       " ALICE@Example.com ",
			PhoneNumber: " +358401234567 ",
			Marketing:   true,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID == "" || created.ID == "u1" {
			t.Errorf("expected generated document ID distinct from user ID, got %q", created.ID)
		}
		if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
			t.Error("expected timestamps to be set")
		}
		if created.Membership != MembershipFree {
			t.Errorf("expected default membership free, got %q", created.Membership)
		}

		got, err := svc.GetByUserID(ctx, "u1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.ID != created.ID {
			t.Errorf("expected ID %s, got %s", created.ID, got.ID)
		}
		if got.UserID != "u1" || got.Name != "Alice" {
			t.Errorf("unexpected profile %+v", got)
		}
		if got.Email != "alice@example.com" {
			t.Errorf("expected normalized email, got %q", got.Email)
		}
		if got.PhoneNumber != "+358401234567" {
			t.Errorf("expected trimmed phone, got %q", got.PhoneNumber)
		}
		if !got.Marketing {
			t.Error("expected marketing true")
		}
	})

	t.Run("create duplicate user", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		if _, err := svc.Create(ctx, CreateParams{UserID: "dup"}); err != nil {
			t.Fatalf("first create: %v", err)
		}
		_, err := svc.Create(ctx, CreateParams{UserID: "dup"})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("create requires user ID", func(t *testing.T) {
		svc := newService(t)
		_, err := svc.Create(context.Background(), CreateParams{UserID: "   ", Name: "Nobody"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		svc := newService(t)
		_, err := svc.GetByUserID(context.Background(), "nobody")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		created, err := svc.Create(ctx, CreateParams{UserID: "u1", Name: "Alice", Email: "alice@example.com"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		time.Sleep(10 * time.Millisecond)

		updated, err := svc.UpdateByUserID(ctx, "u1", UpdateParams{Name: ptr("Alicia")})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Name != "Alicia" {
			t.Errorf("expected name Alicia, got %q", updated.Name)
		}
		if updated.UserID != "u1" || updated.ID != created.ID {
			t.Errorf("identity changed: %+v", updated)
		}
		if updated.Email != "alice@example.com" {
			t.Errorf("expected email unchanged, got %q", updated.Email)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("expected createdAt unchanged")
		}
		if !updated.UpdatedAt.After(created.UpdatedAt) {
			t.Errorf("expected updatedAt to advance: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
		}
	})

	t.Run("update missing performs no write", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		_, err := svc.UpdateByUserID(ctx, "ghost", UpdateParams{Name: ptr("Ghost")})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := svc.GetByUserID(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected no profile to be created, got %v", err)
		}
	})

	t.Run("update by stripe customer", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		if _, err := svc.Create(ctx, CreateParams{UserID: "u2", StripeCustomerID: "cus_123"}); err != nil {
			t.Fatalf("create: %v", err)
		}

		updated, err := svc.UpdateByStripeCustomerID(ctx, "cus_123", UpdateParams{
			Membership:           ptr(MembershipPro),
			StripeSubscriptionID: ptr("sub_456"),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.UserID != "u2" || updated.Membership != MembershipPro || updated.StripeSubscriptionID != "sub_456" {
			t.Errorf("unexpected profile %+v", updated)
		}

		_, err = svc.UpdateByStripeCustomerID(ctx, "cus_missing", UpdateParams{Membership: ptr(MembershipPro)})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update by stripe customer precondition", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		if _, err := svc.Create(ctx, CreateParams{
			UserID:               "u4",
			Membership:           MembershipPro,
			StripeCustomerID:     "cus_4",
			StripeSubscriptionID: "sub_new",
		}); err != nil {
			t.Fatalf("create: %v", err)
		}

		stale := func(p Profile) bool { return p.StripeSubscriptionID == "sub_old" }
		_, err := svc.UpdateByStripeCustomerID(ctx, "cus_4", UpdateParams{
			Membership:           ptr(MembershipFree),
			StripeSubscriptionID: ptr(""),
		}, stale)
		if !errors.Is(err, ErrPrecondition) {
			t.Fatalf("expected ErrPrecondition, got %v", err)
		}
		got, err := svc.GetByUserID(ctx, "u4")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Membership != MembershipPro || got.StripeSubscriptionID != "sub_new" {
			t.Fatalf("expected profile untouched, got %+v", got)
		}

		current := func(p Profile) bool { return p.StripeSubscriptionID == "sub_new" }
		updated, err := svc.UpdateByStripeCustomerID(ctx, "cus_4", UpdateParams{
			Membership:           ptr(MembershipFree),
			StripeSubscriptionID: ptr(""),
		}, current)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Membership != MembershipFree || updated.StripeSubscriptionID != "" {
			t.Fatalf("unexpected profile %+v", updated)
		}
	})

	t.Run("update requires key", func(t *testing.T) {
		svc := newService(t)
		_, err := svc.UpdateByStripeCustomerID(context.Background(), "", UpdateParams{})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("user ID is matched exactly", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		created, err := svc.Create(ctx, CreateParams{UserID: " u1 ", Name: "Alice"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.UserID != " u1 " {
			t.Fatalf("expected user ID stored verbatim, got %q", created.UserID)
		}
		got, err := svc.GetByUserID(ctx, " u1 ")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.ID != created.ID {
			t.Errorf("expected ID %s, got %s", created.ID, got.ID)
		}
		if _, err := svc.GetByUserID(ctx, "u1"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for trimmed key, got %v", err)
		}
		if _, err := svc.UpdateByUserID(ctx, " u1 ", UpdateParams{Marketing: ptr(true)}); err != nil {
			t.Fatalf("update: %v", err)
		}
		deleted, err := svc.DeleteByUserID(ctx, " u1 ")
		if err != nil || !deleted {
			t.Fatalf("expected deletion, got %v, %v", deleted, err)
		}
		if _, err := svc.GetByUserID(ctx, " u1 "); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		if _, err := svc.Create(ctx, CreateParams{UserID: "u3"}); err != nil {
			t.Fatalf("create: %v", err)
		}
		deleted, err := svc.DeleteByUserID(ctx, "u3")
		if err != nil || !deleted {
			t.Fatalf("expected deletion, got %v, %v", deleted, err)
		}
		if _, err := svc.GetByUserID(ctx, "u3"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}

		deleted, err = svc.DeleteByUserID(ctx, "u3")
		if err != nil {
			t.Fatalf("expected idempotent delete, got %v", err)
		}
		if deleted {
			t.Fatal("expected second delete to report nothing deleted")
		}
	})
}

func TestUpdateParamsIsEmpty(t *testing.T) {
	if !(UpdateParams{}).IsEmpty() {
		t.Fatal("expected zero params to be empty")
	}
	if (UpdateParams{Marketing: ptr(false)}).IsEmpty() {
		t.Fatal("expected params with a field to be non-empty")
	}
}

func TestNormalizeCreate(t *testing.T) {
	got, err := normalizeCreate(CreateParams{
		UserID:     " u1 ",
		Email:      " A@B.COM ",
		Membership: "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != " u1 " || got.Email != "a@b.com" || got.Membership != MembershipFree {
		t.Fatalf("unexpected normalization %+v", got)
	}
}

func TestApplyUpdateLeavesNilFields(t *testing.T) {
	p := &Profile{Name: "Alice", Email: "alice@example.com", Membership: MembershipFree}

	applyUpdate(p, UpdateParams{Membership: ptr(MembershipPro)})

	if p.Name != "Alice" || p.Email != "alice@example.com" {
		t.Fatalf("expected untouched fields, got %+v", p)
	}
	if p.Membership != MembershipPro {
		t.Fatalf("expected membership pro, got %q", p.Membership)
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"already exists", ErrAlreadyExists, "already_exists"},
		{"not found", ErrNotFound, "not_found"},
		{"invalid", ErrInvalidInput, "invalid_input"},
		{"precondition", ErrPrecondition, "precondition_failed"},
		{"unavailable", status.Error(codes.Unavailable, "backend down"), "unavailable"},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), "unavailable"},
		{"internal error", errors.New("unexpected"), "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := categorizeError(tt.err); got != tt.want {
				t.Fatalf("categorizeError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestUpdatesForAlwaysStampsUpdatedAt(t *testing.T) {
	updates := updatesFor(UpdateParams{Name: ptr("Alicia")})

	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	if updates[0].Path != fieldName || updates[1].Path != fieldUpdatedAt {
		t.Fatalf("unexpected update paths: %s, %s", updates[0].Path, updates[1].Path)
	}
}
