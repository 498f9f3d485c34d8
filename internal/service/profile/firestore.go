package profile

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	applog "github.com/janisto/firebase-boilerplate/internal/platform/logging"
)

const profilesCollection = "profiles"

// Document field paths used in queries and partial updates.
const (
	fieldUserID               = "userId"
	fieldName                 = "name"
	fieldEmail                = "email"
	fieldPhoneNumber          = "phoneNumber"
	fieldMarketing            = "marketing"
	fieldMembership           = "membership"
	fieldStripeCustomerID     = "stripeCustomerId"
	fieldStripeSubscriptionID = "stripeSubscriptionId"
	fieldUpdatedAt            = "updatedAt"
)

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrPrecondition):
		return "precondition_failed"
	case status.Code(err) == codes.Unavailable, status.Code(err) == codes.DeadlineExceeded:
		return "unavailable"
	default:
		return "internal_error"
	}
}

// firestoreProfile maps to the Firestore document structure. Zero
// timestamps are replaced by the server's commit time on write.
type firestoreProfile struct {
	UserID               string    `firestore:"userId"`
	Name                 string    `firestore:"name"`
	Email                string    `firestore:"email"`
	PhoneNumber          string    `firestore:"phoneNumber"`
	Marketing            bool      `firestore:"marketing"`
	Membership           string    `firestore:"membership"`
	StripeCustomerID     string    `firestore:"stripeCustomerId"`
	StripeSubscriptionID string    `firestore:"stripeSubscriptionId"`
	CreatedAt            time.Time `firestore:"createdAt,serverTimestamp"`
	UpdatedAt            time.Time `firestore:"updatedAt,serverTimestamp"`
}

func (fp firestoreProfile) toProfile(id string) *Profile {
	return &Profile{
		ID:                   id,
		UserID:               fp.UserID,
		Name:                 fp.Name,
		Email:                fp.Email,
		PhoneNumber:          fp.PhoneNumber,
		Marketing:            fp.Marketing,
		Membership:           fp.Membership,
		StripeCustomerID:     fp.StripeCustomerID,
		StripeSubscriptionID: fp.StripeSubscriptionID,
		CreatedAt:            fp.CreatedAt,
		UpdatedAt:            fp.UpdatedAt,
	}
}

func updatesFor(params UpdateParams) []firestore.Update {
	var updates []firestore.Update
	if params.Name != nil {
		updates = append(updates, firestore.Update{Path: fieldName, Value: *params.Name})
	}
	if params.Email != nil {
		updates = append(updates, firestore.Update{Path: fieldEmail, Value: *params.Email})
	}
	if params.PhoneNumber != nil {
		updates = append(updates, firestore.Update{Path: fieldPhoneNumber, Value: *params.PhoneNumber})
	}
	if params.Marketing != nil {
		updates = append(updates, firestore.Update{Path: fieldMarketing, Value: *params.Marketing})
	}
	if params.Membership != nil {
		updates = append(updates, firestore.Update{Path: fieldMembership, Value: *params.Membership})
	}
	if params.StripeCustomerID != nil {
		updates = append(updates, firestore.Update{Path: fieldStripeCustomerID, Value: *params.StripeCustomerID})
	}
	if params.StripeSubscriptionID != nil {
		updates = append(updates, firestore.Update{Path: fieldStripeSubscriptionID, Value: *params.StripeSubscriptionID})
	}
	return append(updates, firestore.Update{Path: fieldUpdatedAt, Value: firestore.ServerTimestamp})
}

// FirestoreStore implements Service on a Firestore collection. Every
// lookup-then-mutate runs inside a transaction, so a concurrent delete
// between the query and the write makes the transaction retry instead of
// writing to a stale document.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Ping reads at most one profile document to confirm Firestore is reachable.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	_, err := s.profiles().Limit(1).Documents(ctx).GetAll()
	return err
}

func (s *FirestoreStore) profiles() *firestore.CollectionRef {
	return s.client.Collection(profilesCollection)
}

// findOne returns the first document matching q, or nil when there is none.
func findOne(tx *firestore.Transaction, q firestore.Query) (*firestore.DocumentSnapshot, error) {
	docs, err := tx.Documents(q.Limit(1)).GetAll()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

func (s *FirestoreStore) byField(field, value string) firestore.Query {
	return s.profiles().Where(field, "==", value)
}

func (s *FirestoreStore) read(ctx context.Context, ref *firestore.DocumentRef) (*Profile, error) {
	doc, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var fp firestoreProfile
	if err := doc.DataTo(&fp); err != nil {
		return nil, err
	}
	return fp.toProfile(doc.Ref.ID), nil
}

// Create stores a new profile under a generated document ID. A second
// profile for the same user ID is rejected with ErrAlreadyExists.
func (s *FirestoreStore) Create(ctx context.Context, params CreateParams) (*Profile, error) {
	params, err := normalizeCreate(params)
	if err != nil {
		return nil, err
	}
	ref := s.profiles().NewDoc()

	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := findOne(tx, s.byField(fieldUserID, params.UserID))
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyExists
		}
		return tx.Create(ref, firestoreProfile{
			UserID:               params.UserID,
			Name:                 params.Name,
			Email:                params.Email,
			PhoneNumber:          params.PhoneNumber,
			Marketing:            params.Marketing,
			Membership:           params.Membership,
			StripeCustomerID:     params.StripeCustomerID,
			StripeSubscriptionID: params.StripeSubscriptionID,
		})
	})

	var p *Profile
	if err == nil {
		p, err = s.read(ctx, ref)
	}
	s.audit(ctx, "create", params.UserID, ref.ID, err)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByUserID retrieves the profile whose userId matches.
func (s *FirestoreStore) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	iter := s.byField(fieldUserID, userID).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var fp firestoreProfile
	if err := doc.DataTo(&fp); err != nil {
		return nil, err
	}
	return fp.toProfile(doc.Ref.ID), nil
}

// UpdateByUserID merges params into the profile whose userId matches and
// re-stamps updatedAt.
func (s *FirestoreStore) UpdateByUserID(ctx context.Context, userID string, params UpdateParams) (*Profile, error) {
	return s.updateWhere(ctx, fieldUserID, userID, params)
}

// UpdateByStripeCustomerID merges params into the profile whose
// stripeCustomerId matches. If several match, the first one returned by
// the query is updated. Preconditions are evaluated inside the transaction.
func (s *FirestoreStore) UpdateByStripeCustomerID(
	ctx context.Context,
	stripeCustomerID string,
	params UpdateParams,
	conds ...Precondition,
) (*Profile, error) {
	return s.updateWhere(ctx, fieldStripeCustomerID, stripeCustomerID, params, conds...)
}

func (s *FirestoreStore) updateWhere(
	ctx context.Context,
	field, value string,
	params UpdateParams,
	conds ...Precondition,
) (*Profile, error) {
	if value == "" {
		return nil, ErrInvalidInput
	}
	params = normalizeUpdate(params)

	var (
		ref    *firestore.DocumentRef
		userID string
	)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := findOne(tx, s.byField(field, value))
		if err != nil {
			return err
		}
		if doc == nil {
			return ErrNotFound
		}
		ref = doc.Ref
		var fp firestoreProfile
		if err := doc.DataTo(&fp); err != nil {
			return err
		}
		userID = fp.UserID
		if !satisfies(*fp.toProfile(ref.ID), conds) {
			return ErrPrecondition
		}
		return tx.Update(ref, updatesFor(params))
	})

	var p *Profile
	if err == nil {
		p, err = s.read(ctx, ref)
	}
	var docID string
	if ref != nil {
		docID = ref.ID
	}
	s.audit(ctx, "update", userID, docID, err)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteByUserID removes the profile whose userId matches. It reports
// false without error when no such profile exists.
func (s *FirestoreStore) DeleteByUserID(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, ErrInvalidInput
	}

	var (
		deleted bool
		docID   string
	)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		deleted = false
		doc, err := findOne(tx, s.byField(fieldUserID, userID))
		if err != nil || doc == nil {
			return err
		}
		docID = doc.Ref.ID
		deleted = true
		return tx.Delete(doc.Ref)
	})
	if err != nil {
		s.audit(ctx, "delete", userID, docID, err)
		return false, err
	}
	if deleted {
		s.audit(ctx, "delete", userID, docID, nil)
	}
	return deleted, nil
}

func (s *FirestoreStore) audit(ctx context.Context, action, userID, docID string, err error) {
	ev := applog.AuditEvent{
		Action:       action,
		UserID:       userID,
		ResourceType: "profile",
		ResourceID:   docID,
		Result:       applog.AuditSuccess,
	}
	if err != nil {
		ev.Result = applog.AuditFailure
		ev.Details = map[string]any{"error": categorizeError(err)}
	}
	applog.LogAuditEvent(ctx, ev)
}

// Compile-time interface check
var _ Service = (*FirestoreStore)(nil)
