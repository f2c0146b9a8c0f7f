package auth

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestMintAndParseTokens(t *testing.T) {
	pair, err := MintTokens(42, "alice@example.com", "test-secret", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() returned %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("MintTokens() returned empty tokens")
	}

	claims, err := ParseClaims(pair.AccessToken, "test-secret")
	if err != nil {
		t.Fatalf("ParseClaims() returned %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("uid = %d, want 42", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("email = %q, want alice@example.com", claims.Email)
	}
}

func TestParseClaims_WrongSecret(t *testing.T) {
	pair, err := MintTokens(1, "a@b.com", "right-secret", time.Hour, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseClaims(pair.AccessToken, "wrong-secret"); err == nil {
		t.Error("ParseClaims() accepted a token signed with another secret")
	}
}

func TestParseClaims_Expired(t *testing.T) {
	pair, err := MintTokens(1, "a@b.com", "secret", -time.Minute, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseClaims(pair.AccessToken, "secret"); err == nil {
		t.Error("ParseClaims() accepted an expired token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cretpass", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() returned %v", err)
	}
	if hash == "s3cretpass" {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if !CheckPassword(hash, "s3cretpass") {
		t.Error("CheckPassword() rejected the correct password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}

func TestHashPassword_Cost(t *testing.T) {
	hash, err := HashPassword("s3cretpass", 6)
	if err != nil {
		t.Fatalf("HashPassword() returned %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatal(err)
	}
	if cost != 6 {
		t.Errorf("hash cost = %d, want 6", cost)
	}
}
