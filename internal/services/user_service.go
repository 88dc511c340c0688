package services

import (
	"context"
	"strings"
	"time"

	"feedbackapp/internal/config"
	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	contextutils "feedbackapp/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the user persistence capability the user-facing services need.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	AddResetRequest(ctx context.Context, id primitive.ObjectID, req models.ResetRequest) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

// UserService handles accounts: signup, authentication, token issuance and
// the admin-side user management.
type UserService struct {
	users  UserStore
	jwtCfg *config.JWTConfig
	logger *observability.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(users UserStore, jwtCfg *config.JWTConfig, logger *observability.Logger) *UserService {
	if users == nil {
		panic("NewUserService: users store is nil")
	}
	if jwtCfg == nil {
		panic("NewUserService: jwt config is nil")
	}
	if logger == nil {
		panic("NewUserService: logger is nil")
	}
	return &UserService{users: users, jwtCfg: jwtCfg, logger: logger}
}

// GetByID loads a user by id. Used by the auth middleware on every request.
func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Authenticate verifies username and password. Unknown, soft-deleted and
// wrong-password cases all collapse into ErrInvalidCredentials so a caller
// cannot probe which accounts exist.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if contextutils.IsError(err, contextutils.ErrRecordNotFound) {
			return nil, contextutils.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.IsDeleted {
		return nil, contextutils.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, contextutils.ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a bearer token for the user.
func (s *UserService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"roles": user.Roles,
		"iss":   s.jwtCfg.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.jwtCfg.Expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.SigningKey))
	if err != nil {
		return "", contextutils.WrapError(err, "failed to sign token")
	}
	return signed, nil
}

// SignUp registers a self-service account with the USER role.
func (s *UserService) SignUp(ctx context.Context, username, password, firstName, lastName string) (*models.User, error) {
	return s.Create(ctx, UserInput{
		Username:  username,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Roles:     []string{models.RoleUser},
	})
}

// UserInput is the input for creating a user.
type UserInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Roles     []string
}

// Create registers a new account. Usernames are normalized and unique across
// the store, soft-deleted accounts included.
func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	username := models.NormalizeUsername(in.Username)
	if username == "" {
		return nil, validationError("username is required")
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if len(in.Roles) == 0 {
		return nil, validationError("at least one role is required")
	}
	for _, role := range in.Roles {
		if !models.ValidRole(role) {
			return nil, validationError("unknown role " + role)
		}
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrRecordExists, "username %s already registered", username)
	} else if !contextutils.IsError(err, contextutils.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Roles:        in.Roles,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "User created", map[string]interface{}{
		"user_id": user.ID.Hex(),
		"roles":   user.Roles,
	})
	return user, nil
}

// List returns all accounts, soft-deleted ones included.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// UserPatch is a partial user update; nil fields stay untouched.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Roles     []string
	IsDeleted *bool
	Password  *string
}

// Update applies a partial update to an account.
func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, patch UserPatch) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Roles != nil {
		for _, role := range patch.Roles {
			if !models.ValidRole(role) {
				return nil, validationError("unknown role " + role)
			}
		}
		user.Roles = patch.Roles
	}
	if patch.IsDeleted != nil {
		user.IsDeleted = *patch.IsDeleted
	}
	if patch.Password != nil {
		if err := ValidatePassword(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete soft-deletes an account; it stays in the store but cannot sign in.
func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.users.SoftDelete(ctx, id)
}

// ValidatePassword enforces the password policy: at least 6 characters, no
// spaces.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return validationError("password must be at least 6 characters")
	}
	if strings.ContainsAny(password, " \t") {
		return validationError("password must not contain spaces")
	}
	return nil
}

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", contextutils.WrapError(err, "failed to hash password")
	}
	return string(hash), nil
}
