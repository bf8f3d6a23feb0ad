package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/requestdata"
)

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerifyToken(t *testing.T) {
	userID := uuid.New()
	auth := NewAuthService(testLogger(t), "test-secret")

	got, err := auth.VerifyToken(signToken(t, "test-secret", userID.String()))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != userID {
		t.Fatalf("userID: want=%v got=%v", userID, got)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	auth := NewAuthService(testLogger(t), "test-secret")

	_, err := auth.VerifyToken(signToken(t, "other-secret", uuid.NewString()))
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("want ErrUnauthenticated, got=%v", err)
	}
}

func TestVerifyTokenBadSubject(t *testing.T) {
	auth := NewAuthService(testLogger(t), "test-secret")

	_, err := auth.VerifyToken(signToken(t, "test-secret", "not-a-uuid"))
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("want ErrUnauthenticated, got=%v", err)
	}
}

func TestSetContextFromToken(t *testing.T) {
	userID := uuid.New()
	auth := NewAuthService(testLogger(t), "test-secret")

	ctx, err := auth.SetContextFromToken(context.Background(), signToken(t, "test-secret", userID.String()))
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		t.Fatalf("expected request data in context")
	}
	if rd.UserID != userID {
		t.Fatalf("userID: want=%v got=%v", userID, rd.UserID)
	}
}
