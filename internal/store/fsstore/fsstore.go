// Package fsstore implements store.Store on Cloud Firestore.
//
// Layout:
//
//	users/{uid}
//	tenants/{tenantId}
//	tenants/{tenantId}/members/{memberId}
//	tenants/{tenantId}/drafts/{draftId}
//	tenants/{tenantId}/settings/default
//	tenants/{tenantId}/profiles/{profileId}
//	tenants/{tenantId}/templates/{templateId}
//	tenants/{tenantId}/calendar/{yyyy-mm}/slots/{slotId}
//	tenants/{tenantId}/points/{week}/members/{uid}
//
// Inside Transaction every read must happen before the first write.
package fsstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ldflores83/falconcore/internal/store"
)

const (
	usersCollection     = "users"
	tenantsCollection   = "tenants"
	membersCollection   = "members"
	draftsCollection    = "drafts"
	settingsCollection  = "settings"
	settingsDocID       = "default"
	profilesCollection  = "profiles"
	templatesCollection = "templates"
	calendarCollection  = "calendar"
	slotsCollection     = "slots"
	pointsCollection    = "points"
)

// Store is a Firestore backed store.Store.
type Store struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

var _ store.Store = (*Store)(nil)

// New wraps a Firestore client.
func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Open creates a Firestore client for projectID using application default
// credentials (or FIRESTORE_EMULATOR_HOST when set).
func Open(ctx context.Context, projectID string) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("fsstore: new client: %w", err)
	}
	return New(client), nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping checks connectivity with a single bounded read.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.Collection(tenantsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}

// Transaction implements store.Store. Firestore may run fn more than once.
func (s *Store) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(&Store{client: s.client, tx: tx})
	})
}

func (s *Store) userRef(uid string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(uid)
}

func (s *Store) tenantRef(id string) *firestore.DocumentRef {
	return s.client.Collection(tenantsCollection).Doc(id)
}

func (s *Store) members(tenantID string) *firestore.CollectionRef {
	return s.tenantRef(tenantID).Collection(membersCollection)
}

func (s *Store) drafts(tenantID string) *firestore.CollectionRef {
	return s.tenantRef(tenantID).Collection(draftsCollection)
}

func (s *Store) settingsRef(tenantID string) *firestore.DocumentRef {
	return s.tenantRef(tenantID).Collection(settingsCollection).Doc(settingsDocID)
}

func (s *Store) profiles(tenantID string) *firestore.CollectionRef {
	return s.tenantRef(tenantID).Collection(profilesCollection)
}

func (s *Store) templates(tenantID string) *firestore.CollectionRef {
	return s.tenantRef(tenantID).Collection(templatesCollection)
}

func (s *Store) slots(tenantID, month string) *firestore.CollectionRef {
	return s.tenantRef(tenantID).Collection(calendarCollection).Doc(month).Collection(slotsCollection)
}

func (s *Store) weekPoints(tenantID, week string) *firestore.CollectionRef {
	return s.tenantRef(tenantID).Collection(pointsCollection).Doc(week).Collection(membersCollection)
}

func (s *Store) get(ctx context.Context, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	if s.tx != nil {
		return s.tx.Get(ref)
	}
	return ref.Get(ctx)
}

func (s *Store) query(ctx context.Context, q firestore.Query) ([]*firestore.DocumentSnapshot, error) {
	if s.tx != nil {
		return s.tx.Documents(q).GetAll()
	}
	return q.Documents(ctx).GetAll()
}

func (s *Store) create(ctx context.Context, ref *firestore.DocumentRef, data any) error {
	if s.tx != nil {
		return s.tx.Create(ref, data)
	}
	_, err := ref.Create(ctx, data)
	return err
}

func (s *Store) set(ctx context.Context, ref *firestore.DocumentRef, data any, opts ...firestore.SetOption) error {
	if s.tx != nil {
		return s.tx.Set(ref, data, opts...)
	}
	_, err := ref.Set(ctx, data, opts...)
	return err
}

func (s *Store) update(ctx context.Context, ref *firestore.DocumentRef, updates []firestore.Update) error {
	if s.tx != nil {
		return s.tx.Update(ref, updates)
	}
	_, err := ref.Update(ctx, updates)
	return err
}

func (s *Store) delete(ctx context.Context, ref *firestore.DocumentRef) error {
	if s.tx != nil {
		return s.tx.Delete(ref, firestore.Exists)
	}
	_, err := ref.Delete(ctx, firestore.Exists)
	return err
}

// translate maps gRPC status codes onto the store sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return store.ErrNotFound
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %v", store.ErrConflict, err)
	default:
		return err
	}
}
