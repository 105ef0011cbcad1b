package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	subject := uuid.New()

	token, err := GenerateToken(subject, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := VerifyJWT(token, AccessTokenSecret)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != subject.String() {
		t.Errorf("Subject = %q, want %q", claims.Subject, subject)
	}
}

func TestVerifyJWTRejectsExpired(t *testing.T) {
	token, err := GenerateToken(uuid.New(), -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := VerifyJWT(token, AccessTokenSecret); err == nil {
		t.Fatal("expired token should be rejected")
	}
}

func TestVerifyJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(uuid.New(), time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := VerifyJWT(token, []byte("some-other-secret")); err == nil {
		t.Fatal("token signed with a different secret should be rejected")
	}
}
