package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/orm"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type CredentialsInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminInput struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Token is the body returned by both login endpoints.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Identity is the public view of the current user.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthService struct {
	db     *gorm.DB
	tokens *auth.Issuer
}

func NewAuthService(db *gorm.DB, tokens *auth.Issuer) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// Register creates a shopper account. Email and username must both be free.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	users := repositories.NewUserRepository(s.db)
	in.Email = strings.TrimSpace(in.Email)

	taken, err := users.EmailTaken(ctx, in.Email)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, fail(ErrConflict, "Email already registered")
	}

	taken, err = users.UsernameTaken(ctx, in.Username)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, fail(ErrConflict, "Username already taken")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{Username: in.Username, Email: in.Email, Password: hash, IsActive: true}
	if err := users.Create(ctx, &user); err != nil {
		return models.User{}, err
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate returns the user whose credentials match, or nil. A missing
// user and a wrong password are indistinguishable and neither is an error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := repositories.NewUserRepository(s.db).FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		auth.BurnCompare(password)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.Password, password) || !user.IsActive {
		return nil, nil
	}
	return &user, nil
}

func (s *AuthService) LoginUser(ctx context.Context, in CredentialsInput) (Token, error) {
	user, err := s.Authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return Token{}, err
	}
	if user == nil {
		return Token{}, fail(ErrValidation, "Incorrect username or password")
	}
	return s.issue(user.ID, auth.KindUser)
}

func (s *AuthService) AuthenticateAdmin(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := repositories.NewAdminRepository(s.db).FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		auth.BurnCompare(password)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(admin.Password, password) {
		return nil, nil
	}
	return &admin, nil
}

func (s *AuthService) LoginAdmin(ctx context.Context, in CredentialsInput) (Token, error) {
	admin, err := s.AuthenticateAdmin(ctx, in.Username, in.Password)
	if err != nil {
		return Token{}, err
	}
	if admin == nil {
		return Token{}, fail(ErrUnauthorized, "Invalid admin credentials")
	}
	return s.issue(admin.ID, auth.KindAdmin)
}

func (s *AuthService) issue(id uint, kind auth.Kind) (Token, error) {
	tok, err := s.tokens.Issue(id, kind)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: tok, TokenType: "bearer"}, nil
}

// CreateAdmin adds an admin account. Once any admin exists only an admin
// (callerIsAdmin) may add more; the very first one needs no token.
func (s *AuthService) CreateAdmin(ctx context.Context, callerIsAdmin bool, in AdminInput) (models.Admin, error) {
	var admin models.Admin
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admins := repositories.NewAdminRepository(tx)

		n, err := admins.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 && !callerIsAdmin {
			return fail(ErrForbidden, "Only an admin can create admins")
		}

		taken, err := admins.UsernameTaken(ctx, in.Username)
		if err != nil {
			return err
		}
		if taken {
			return fail(ErrConflict, "Admin username already exists")
		}

		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return err
		}
		admin = models.Admin{Username: in.Username, Password: hash}
		return admins.Create(ctx, &admin)
	})
	if err != nil {
		return models.Admin{}, err
	}

	logger.WithCtx(ctx).Info("admin created", "admin_id", admin.ID)
	return admin, nil
}

// EnsureFirstAdmin seeds one admin from the given credentials when the
// admins table is empty. It reports whether an admin was created.
func (s *AuthService) EnsureFirstAdmin(ctx context.Context, username, password string) (bool, error) {
	log := logger.WithCtx(ctx)
	created := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admins := repositories.NewAdminRepository(tx)

		n, err := admins.Count(ctx)
		if err != nil || n > 0 {
			return err
		}
		if username == "" || password == "" {
			log.Warn("no admin exists and FIRST_ADMIN_USERNAME/FIRST_ADMIN_PASSWORD are not set")
			return nil
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		if err := admins.Create(ctx, &models.Admin{Username: username, Password: hash}); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		log.Info("first admin created", "username", username)
	}
	return created, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id uint) (Identity, error) {
	user, err := repositories.NewUserRepository(s.db).FindByID(ctx, id)
	if err != nil {
		return Identity{}, notFound(err, "User not found")
	}
	return Identity{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

func (s *AuthService) CurrentAdmin(ctx context.Context, id uint) (models.Admin, error) {
	admin, err := repositories.NewAdminRepository(s.db).FindByID(ctx, id)
	if err != nil {
		return models.Admin{}, notFound(err, "Admin not found")
	}
	return admin, nil
}

func (s *AuthService) ListUsers(ctx context.Context, p orm.Page) ([]models.User, orm.Pagination, error) {
	return repositories.NewUserRepository(s.db).Paginate(ctx, p)
}

// CheckUser rejects tokens whose user has since been removed or disabled.
// It matches middleware.PrincipalCheck.
func (s *AuthService) CheckUser(ctx context.Context, id uint) error {
	user, err := repositories.NewUserRepository(s.db).FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return fail(ErrUnauthorized, "Inactive user")
	}
	return nil
}

func (s *AuthService) CheckAdmin(ctx context.Context, id uint) error {
	_, err := repositories.NewAdminRepository(s.db).FindByID(ctx, id)
	return err
}
