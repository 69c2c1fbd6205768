package auth

import (
	"context"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/internal/users"
	pkgAuth "github.com/kisansetu/kisansetu-backend/pkg/auth"
	"github.com/kisansetu/kisansetu-backend/pkg/config"
	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
	"github.com/kisansetu/kisansetu-backend/pkg/security"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	created []*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*models.User)}
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	s.byEmail[user.Email] = user
	s.created = append(s.created, user)
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSession struct {
	generated []string
}

func (s *stubSession) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func testConfigs() (config.JWTConfig, config.PasswordConfig) {
	jwt := config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "kisansetu",
		ExpirationMinutes: 30,
	}
	pw := config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	return jwt, pw
}

func newTestService(t *testing.T, repo *stubUserRepo, sess *stubSession) Service {
	t.Helper()
	jwtCfg, pwCfg := testConfigs()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sess,
		JWTConfig:      jwtCfg,
		PasswordConfig: pwCfg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newStubUserRepo()
	sess := &stubSession{}
	svc := newTestService(t, repo, sess)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Name:     "Ravi Kumar",
		Email:    "Ravi@Example.com",
		Password: "plaintext-password",
		Role:     "farmer",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if resp.User.Role != enums.UserRoleFarmer {
		t.Fatalf("unexpected role %s", resp.User.Role)
	}
	if resp.User.Email != "ravi@example.com" {
		t.Fatalf("email not normalized: %s", resp.User.Email)
	}

	stored := repo.created[0]
	if stored.PasswordHash == "plaintext-password" || !strings.HasPrefix(stored.PasswordHash, "$argon2id$") {
		t.Fatalf("password not hashed: %q", stored.PasswordHash)
	}
	if match, err := security.VerifyPassword("plaintext-password", stored.PasswordHash); err != nil || !match {
		t.Fatalf("stored hash does not verify: match=%v err=%v", match, err)
	}

	jwtCfg, _ := testConfigs()
	claims, err := pkgAuth.ParseAccessToken(jwtCfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != stored.ID {
		t.Fatalf("claims user mismatch")
	}

	login, err := svc.Login(ctx, LoginRequest{Email: "ravi@example.com", Password: "plaintext-password"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if login.User.ID != stored.ID {
		t.Fatal("login returned wrong user")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSession{})
	ctx := context.Background()

	req := RegisterRequest{
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Password: "plaintext-password",
		Role:     "farmer",
	}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(ctx, req)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterRejectsBadRole(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), &stubSession{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Someone",
		Email:    "someone@example.com",
		Password: "plaintext-password",
		Role:     "admin",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSession{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Password: "plaintext-password",
		Role:     "consumer",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(ctx, LoginRequest{Email: "ravi@example.com", Password: "wrong"})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), &stubSession{})
	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

