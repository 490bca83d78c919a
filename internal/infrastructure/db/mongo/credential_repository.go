package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
)

const handleIndex = "login_handle_unique"

var _ ports.CredentialRepository = (*CredentialRepository)(nil)

type CredentialRepository struct {
	coll *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{coll: db.Collection(credentialCollection)}
}

type mongoCredential struct {
	IdentityKey  string `bson:"_id"`
	LoginHandle  string `bson:"login_handle"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	Active       bool   `bson:"active"`
	LastLoginAt  int64  `bson:"last_login_at,omitempty"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (r *CredentialRepository) Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCredential{
		IdentityKey:  cred.IdentityKey,
		LoginHandle:  cred.LoginHandle,
		PasswordHash: cred.PasswordHash,
		Role:         string(cred.Role),
		Active:       cred.Active,
		CreatedAt:    cred.CreatedAt.Unix(),
		UpdatedAt:    cred.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, classifyInsertError(err)
	}
	return doc.toDomain(), nil
}

// classifyInsertError names the unique index a duplicate key error hit. The
// login handle has its own index; any other duplicate is the _id.
func classifyInsertError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert credential: %w", err)
	}
	if strings.Contains(err.Error(), handleIndex) {
		return domain.ErrDuplicateHandle
	}
	return domain.ErrDuplicateIdentity
}

func (r *CredentialRepository) FindByHandle(ctx context.Context, handle string) (*domain.Credential, error) {
	return r.findOne(ctx, bson.M{"login_handle": handle})
}

func (r *CredentialRepository) FindByIdentityKey(ctx context.Context, identityKey string) (*domain.Credential, error) {
	return r.findOne(ctx, bson.M{"_id": identityKey})
}

func (r *CredentialRepository) UpdateRole(ctx context.Context, identityKey string, role domain.Role) (*domain.Credential, error) {
	return r.updateOne(ctx, identityKey, bson.M{"role": string(role)})
}

func (r *CredentialRepository) UpdateActive(ctx context.Context, identityKey string, active bool) (*domain.Credential, error) {
	return r.updateOne(ctx, identityKey, bson.M{"active": active})
}

func (r *CredentialRepository) UpdatePasswordHash(ctx context.Context, identityKey, hash string) error {
	_, err := r.updateOne(ctx, identityKey, bson.M{"password_hash": hash})
	return err
}

func (r *CredentialRepository) TouchLastLogin(ctx context.Context, identityKey string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": identityKey}, bson.M{"$set": bson.M{"last_login_at": at.Unix()}})
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCredentialNotFound
	}
	return nil
}

func (r *CredentialRepository) findOne(ctx context.Context, filter bson.M) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCredential
	if err := r.coll.FindOne(ctx, filter).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CredentialRepository) updateOne(ctx context.Context, identityKey string, set bson.M) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set["updated_at"] = time.Now().UTC().Unix()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mc mongoCredential
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": identityKey}, bson.M{"$set": set}, opts).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("update credential: %w", err)
	}
	return mc.toDomain(), nil
}

func (mc mongoCredential) toDomain() *domain.Credential {
	cred := &domain.Credential{
		IdentityKey:  mc.IdentityKey,
		LoginHandle:  mc.LoginHandle,
		PasswordHash: mc.PasswordHash,
		Role:         domain.Role(mc.Role),
		Active:       mc.Active,
		CreatedAt:    unixToTime(mc.CreatedAt),
		UpdatedAt:    unixToTime(mc.UpdatedAt),
	}
	if mc.LastLoginAt != 0 {
		t := unixToTime(mc.LastLoginAt)
		cred.LastLoginAt = &t
	}
	return cred
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
