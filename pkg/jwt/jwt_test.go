package jwt

import (
	"os"
	"testing"

	"socialfeed/backend/internal/config"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
	os.Exit(m.Run())
}

func TestGenerateToken(t *testing.T) {
	signed, err := GenerateToken(42, "someone")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	token, err := gojwt.Parse(signed, func(token *gojwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("expected a valid token, got err=%v", err)
	}

	claims := token.Claims.(gojwt.MapClaims)
	if sub, _ := claims["sub"].(float64); uint(sub) != 42 {
		t.Fatalf("expected sub 42, got %v", claims["sub"])
	}
	if username, _ := claims["username"].(string); username != "someone" {
		t.Fatalf("expected username claim, got %v", claims["username"])
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Fatal("expected a jti claim")
	}
	if _, ok := claims["exp"].(float64); !ok {
		t.Fatal("expected an exp claim")
	}
}

func TestTokensAreUnique(t *testing.T) {
	a, err := GenerateToken(1, "user")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	b, err := GenerateToken(1, "user")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct jti per token")
	}
}
