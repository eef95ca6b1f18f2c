package tokens

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/monirportfolio/portfolio-server/internal/config"
	"github.com/monirportfolio/portfolio-server/internal/models"
)

// seg encodes JWT segments (unpadded base64url).
var seg = base64.RawURLEncoding

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	return cfg
}

func TestGenerateAccessToken_ValidAndClaims(t *testing.T) {
	cfg := testConfig("test-secret-32-bytes-should-be-long-enough")

	u := &models.User{ID: "65f0c0ffee0000000000abcd", UserName: "monir"}
	tokenStr, err := GenerateAccessToken(cfg, u, 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	tok, err := NewVerifier(cfg.JWT.Secret).Verify(context.Background(), tokenStr)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		t.Fatalf("claims: %v", err)
	}
	if claims["sub"] != "monir" {
		t.Fatalf("unexpected sub claim: got=%v want=monir", claims["sub"])
	}
	if claims["iss"] != issuer {
		t.Fatalf("unexpected iss claim: %v", claims["iss"])
	}
}

func TestGenerateAccessToken_NoSecret(t *testing.T) {
	if _, err := GenerateAccessToken(testConfig(""), &models.User{UserName: "monir"}, time.Minute); err == nil {
		t.Fatalf("expected error without a secret")
	}
}

func TestVerify_Expired(t *testing.T) {
	cfg := testConfig("another-secret-32-bytes-longgggg")
	tokenStr, err := GenerateAccessToken(cfg, &models.User{UserName: "u2"}, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	if _, err := NewVerifier(cfg.JWT.Secret).Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerify_WrongSecretFails(t *testing.T) {
	cfg := testConfig("secret-one-32-bytes-xxxxxxxxxxxxxxxx")
	tokenStr, err := GenerateAccessToken(cfg, &models.User{UserName: "bob"}, 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	if _, err := NewVerifier("different-secret-xxxxxxxxxxxxxxxx").Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected verify to fail with wrong secret")
	}
}

func TestVerify_Malformed(t *testing.T) {
	if _, err := NewVerifier("x").Verify(context.Background(), "not.a.jwt"); err == nil {
		t.Fatalf("expected verify to fail for malformed token")
	}
}

func TestVerify_AlgNoneRejected(t *testing.T) {
	headerEnc := seg.EncodeToString([]byte(`{"alg":"none"}`))
	payloadEnc := seg.EncodeToString([]byte(`{"sub":"u-none","iss":"portfolio-server","exp":9999999999}`))
	tok := headerEnc + "." + payloadEnc + "."
	if _, err := NewVerifier("x").Verify(context.Background(), tok); err == nil {
		t.Fatalf("expected verify to reject alg=none token")
	}
}

func TestVerify_ForeignIssuerRejected(t *testing.T) {
	secret := "issuer-test-secret-32-bytes-xxxxxx"
	claims := jwt.MapClaims{"sub": "monir", "iss": "someone-else", "exp": time.Now().Add(time.Minute).Unix()}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewVerifier(secret).Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected verify to reject a foreign issuer")
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	cfg := testConfig("tamper-test-secret-32-bytes-xxxxxxx")
	tokenStr, err := GenerateAccessToken(cfg, &models.User{UserName: "user-t"}, 5*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	payloadBytes, err := seg.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	parts[1] = seg.EncodeToString([]byte(strings.Replace(string(payloadBytes), "user-t", "attacker", 1)))
	tampered := strings.Join(parts, ".")
	if _, err := NewVerifier(cfg.JWT.Secret).Verify(context.Background(), tampered); err == nil {
		t.Fatalf("expected signature verification to fail for tampered token")
	}
}
