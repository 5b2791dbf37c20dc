// Package mongostore backs the account lifecycle with MongoDB instead
// of a relational database.
package mongostore

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/0bjects/go-accounts"
)

// Store implements accounts.AccountStore over a mongo collection.
type Store struct {
	col *mongo.Collection
}

var _ accounts.AccountStore = (*Store)(nil)

func New(col *mongo.Collection) *Store {
	return &Store{col: col}
}

func (s *Store) GetByIdentifier(ctx context.Context, identifier string) (*accounts.Account, error) {
	filters := []bson.M{}

	if id, err := uuid.Parse(identifier); err == nil {
		filters = append(filters, bson.M{"_id": id})
	}
	filters = append(filters,
		bson.M{"email": identifier},
		bson.M{"login_name": identifier},
	)

	for _, filter := range filters {
		record, err := s.findOne(ctx, filter)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				continue
			}
			return nil, err
		}
		return record, nil
	}

	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{
			"identifier": identifier,
		})
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *Store) FindForActivation(ctx context.Context, email, code string) (*accounts.Account, error) {
	return s.findOne(ctx, bson.M{
		"email":             email,
		"confirmation_code": code,
	})
}

// Save upserts the account keyed by id, minting one for new records.
func (s *Store) Save(ctx context.Context, account *accounts.Account) (*accounts.Account, error) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	opts := options.Replace().SetUpsert(true)
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": account.ID}, account, opts)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "unable to save account").
			WithMetadata(map[string]any{
				"email": account.Email,
			})
	}

	return account, nil
}

func (s *Store) Delete(ctx context.Context, account *accounts.Account) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": account.ID})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "unable to delete account")
	}

	if res.DeletedCount == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": account.ID.String(),
			})
	}

	return nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*accounts.Account, error) {
	record := &accounts.Account{}

	err := s.col.FindOne(ctx, filter).Decode(record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"filter": filter,
				})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "account lookup failed")
	}

	return record, nil
}
