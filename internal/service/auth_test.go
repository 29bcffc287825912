package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"direct_chat/internal/config"
	apperrors "direct_chat/pkg/errors"
	"direct_chat/pkg/logger"
)

var testJWTConfig = config.JWTConfig{
	Secret:    "test-secret",
	AccessTTL: time.Hour,
	Issuer:    "direct-chat",
}

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	return NewAuthService(newFakeUserRepo(), testJWTConfig, logger.New("error"))
}

func TestAuthRegister(t *testing.T) {
	req := require.New(t)
	svc := newAuthService(t)

	user, err := svc.Register(context.Background(), "alice", "secret123")
	req.NoError(err)
	req.Equal(int64(1), user.ID)
	req.Equal("alice", user.Username)
	req.Empty(user.PasswordHash, "hash must not leave the service")
}

func TestAuthRegister_DuplicateUsername(t *testing.T) {
	req := require.New(t)
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), "alice", "secret123")
	req.NoError(err)

	_, err = svc.Register(context.Background(), "alice", "another")
	req.ErrorIs(err, apperrors.ErrUserAlreadyExists)
}

func TestAuthRegister_Validation(t *testing.T) {
	req := require.New(t)
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), "  ", "secret123")
	req.ErrorIs(err, apperrors.ErrBadRequest)

	_, err = svc.Register(context.Background(), "alice", "")
	req.ErrorIs(err, apperrors.ErrBadRequest)
}

func TestAuthLoginAndValidate(t *testing.T) {
	req := require.New(t)
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), "alice", "secret123")
	req.NoError(err)

	response, err := svc.Login(context.Background(), "alice", "secret123")
	req.NoError(err)
	req.NotEmpty(response.Token)

	claims, err := svc.ValidateToken(response.Token)
	req.NoError(err)
	req.Equal(int64(1), claims.UserID)
	req.Equal("alice", claims.Username)
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	req := require.New(t)
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), "alice", "secret123")
	req.NoError(err)

	_, err = svc.Login(context.Background(), "alice", "wrong")
	req.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

// Один и тот же ответ для незнакомого username и неверного пароля
func TestAuthLogin_UnknownUserIndistinguishable(t *testing.T) {
	req := require.New(t)
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), "alice", "secret123")
	req.NoError(err)

	_, errUnknown := svc.Login(context.Background(), "nobody", "secret123")
	_, errWrong := svc.Login(context.Background(), "alice", "wrong")

	req.ErrorIs(errUnknown, apperrors.ErrInvalidCredentials)
	req.Equal(errWrong.Error(), errUnknown.Error())
}
