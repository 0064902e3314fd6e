package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/handymantracker/backend/internal/auth"
	"github.com/handymantracker/backend/internal/models"
)

var (
	ErrInvalidID          = errors.New("invalid id format")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotApproved        = errors.New("account not approved")
	ErrAlreadyApproved    = errors.New("user already approved")
	ErrAlreadySuperAdmin  = errors.New("user is already a super-admin")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfDelete         = errors.New("cannot delete your own account")
)

type UserService struct {
	collection *mongo.Collection
	bootstrap  *mongo.Collection
	logger     *logrus.Logger
}

func NewUserService(db *mongo.Database, logger *logrus.Logger) *UserService {
	return &UserService{
		collection: db.Collection("users"),
		bootstrap:  db.Collection("bootstrap"),
		logger:     logger,
	}
}

// bootstrapLockID is the fixed _id of the one-time super-admin bootstrap
// claim. Inserting it is atomic, so only one registration can win.
const bootstrapLockID = "super-admin-bootstrap"

// EnsureIndexes creates the uniqueness indexes registration relies on.
func (s *UserService) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := s.collection.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// Register creates a new account. The first account ever registered becomes
// the approved super-admin; everyone after starts pending. The boolean
// reports whether the caller observed an empty store but lost the bootstrap
// to a concurrent registration, so the response can say the account awaits
// approval after all.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := s.collection.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return nil, false, err
	}
	if count > 0 {
		return nil, false, ErrUsernameTaken
	}
	count, err = s.collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, false, err
	}
	if count > 0 {
		return nil, false, ErrEmailTaken
	}

	superAdmins, err := s.collection.CountDocuments(ctx, bson.M{"role": models.RoleSuperAdmin})
	if err != nil {
		return nil, false, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     email,
		HPassword: hashed,
		Role:      models.RolePending,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}

	lostBootstrap := false
	if superAdmins == 0 {
		won, err := s.claimBootstrap(ctx, user.ID)
		if err != nil {
			return nil, false, err
		}
		if won {
			user.Role = models.RoleSuperAdmin
			user.Status = models.StatusApproved
		} else {
			lostBootstrap = true
		}
	}

	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		if user.Role == models.RoleSuperAdmin {
			s.releaseBootstrap(ctx)
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, false, ErrUsernameTaken
		}
		return nil, false, err
	}

	if user.Role == models.RoleSuperAdmin {
		if err := s.reconcileBootstrap(ctx); err != nil {
			s.logger.WithError(err).Warn("super-admin bootstrap reconciliation failed")
		}
	}
	return user, lostBootstrap, nil
}

// claimBootstrap atomically claims the one-time super-admin bootstrap by
// inserting a fixed-id lock document. Exactly one caller can succeed.
func (s *UserService) claimBootstrap(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	_, err := s.bootstrap.InsertOne(ctx, bson.M{
		"_id":        bootstrapLockID,
		"user_id":    userID,
		"claimed_at": time.Now(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// releaseBootstrap undoes a claim whose user insert failed, so the next
// registration can bootstrap instead of leaving the store without any
// super-admin.
func (s *UserService) releaseBootstrap(ctx context.Context) {
	if _, err := s.bootstrap.DeleteOne(ctx, bson.M{"_id": bootstrapLockID}); err != nil {
		s.logger.WithError(err).Warn("failed to release bootstrap lock")
	}
}

// reconcileBootstrap verifies the bootstrap invariant after a super-admin
// registration: should duplicate super-admins ever exist (a store written
// before the lock collection), every one except the earliest-created is
// demoted back to pending. With the lock in place this is a no-op.
func (s *UserService) reconcileBootstrap(ctx context.Context) error {
	cur, err := s.collection.Find(ctx,
		bson.M{"role": models.RoleSuperAdmin},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return err
	}

	var admins []models.User
	if err := cur.All(ctx, &admins); err != nil {
		return err
	}
	if len(admins) <= 1 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(admins)-1)
	for _, a := range admins[1:] {
		ids = append(ids, a.ID)
	}

	s.logger.WithField("count", len(ids)).Warn("duplicate super-admins detected, demoting all but the earliest")
	_, err = s.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"role": models.RolePending, "status": models.StatusPending}})
	return err
}

// Login checks credentials and the approval gate. A pending or rejected
// account is refused regardless of password correctness; the caller maps that
// to 403 rather than 401.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := s.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(password, user.HPassword) {
		return nil, ErrInvalidCredentials
	}

	if user.Status != models.StatusApproved {
		return &user, ErrNotApproved
	}

	return &user, nil
}

// GetUser by id of type string
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// UserList returns all accounts with password hashes projected out.
func (s *UserService) UserList(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	projection := bson.D{{Key: "password", Value: 0}}
	cur, err := s.collection.Find(ctx, bson.D{}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Approve moves a pending or rejected user to approved with role admin. The
// caller-supplied role is accepted only when it is exactly "admin"; an empty
// role defaults to admin.
func (s *UserService) Approve(ctx context.Context, targetID, actorID, role string) (*models.User, error) {
	if role != "" && role != models.RoleAdmin {
		return nil, ErrInvalidRole
	}

	target, err := s.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Status == models.StatusApproved {
		return nil, ErrAlreadyApproved
	}

	actorObjID, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	_, err = s.collection.UpdateOne(ctx,
		bson.M{"_id": target.ID},
		bson.M{"$set": bson.M{
			"status":      models.StatusApproved,
			"role":        models.RoleAdmin,
			"approved_by": actorObjID,
			"approved_at": now,
		}})
	if err != nil {
		return nil, err
	}

	target.Status = models.StatusApproved
	target.Role = models.RoleAdmin
	target.ApprovedBy = &actorObjID
	target.ApprovedAt = &now
	return target, nil
}

// Reject marks a user rejected. Role is left untouched.
func (s *UserService) Reject(ctx context.Context, targetID string) (*models.User, error) {
	target, err := s.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = s.collection.UpdateOne(ctx,
		bson.M{"_id": target.ID},
		bson.M{"$set": bson.M{"status": models.StatusRejected}})
	if err != nil {
		return nil, err
	}

	target.Status = models.StatusRejected
	return target, nil
}

// Promote raises a user to super-admin, forcing status approved.
func (s *UserService) Promote(ctx context.Context, targetID string) (*models.User, error) {
	target, err := s.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == models.RoleSuperAdmin {
		return nil, ErrAlreadySuperAdmin
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = s.collection.UpdateOne(ctx,
		bson.M{"_id": target.ID},
		bson.M{"$set": bson.M{
			"role":   models.RoleSuperAdmin,
			"status": models.StatusApproved,
		}})
	if err != nil {
		return nil, err
	}

	target.Role = models.RoleSuperAdmin
	target.Status = models.StatusApproved
	return target, nil
}

// DeleteUser removes an account. Self-deletion is forbidden.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfDelete
	}

	objID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
