package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "github.com/quantum-brackets/45group-sub001/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("agg_user")}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	doc := newUserDocument(u)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type userDocument struct {
	ID        string   `bson:"_id"`
	Name      string   `bson:"name"`
	Email     string   `bson:"email"`
	Roles     []string `bson:"roles"`
	CreatedAt int64    `bson:"created_at"`
	UpdatedAt int64    `bson:"updated_at"`
}

func newUserDocument(u *domainuser.User) userDocument {
	roles := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		roles[i] = string(role)
	}
	return userDocument{
		ID:        string(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		Roles:     roles,
		CreatedAt: u.CreatedAt.UnixMilli(),
		UpdatedAt: u.UpdatedAt.UnixMilli(),
	}
}

func (d userDocument) toAggregate() *domainuser.User {
	roles := make([]domainuser.Role, len(d.Roles))
	for i, role := range d.Roles {
		roles[i] = domainuser.Role(role)
	}
	return &domainuser.User{
		ID:        domainuser.ID(d.ID),
		Name:      d.Name,
		Email:     d.Email,
		Roles:     roles,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}

var _ domainuser.Repository = (*UserRepository)(nil)
