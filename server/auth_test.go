package main

import (
	"strings"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testDB(t)
	a := NewAuth(db)

	id, token, err := a.Register("alice", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id == 0 || token == "" {
		t.Fatalf("register returned id=%d token=%q", id, token)
	}

	gotID, gotUser, err := a.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if gotID != id || gotUser != "alice" {
		t.Errorf("token claims = %d/%s", gotID, gotUser)
	}

	loginID, loginToken, err := a.Login("alice", "secret", "1.2.3.4")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loginID != id || loginToken == "" {
		t.Errorf("login = %d/%q", loginID, loginToken)
	}

	if _, _, err := a.Login("alice", "wrong", "1.2.3.4"); err == nil {
		t.Error("wrong password should fail")
	}
	if _, _, err := a.Login("nobody", "secret", "1.2.3.4"); err == nil {
		t.Error("unknown account should fail")
	}
}

func TestRegisterValidation(t *testing.T) {
	db := testDB(t)
	a := NewAuth(db)

	if _, _, err := a.Register("x", "secret"); err == nil {
		t.Error("too-short username should be rejected")
	}
	if _, _, err := a.Register(strings.Repeat("x", maxAccountLen+1), "secret"); err == nil {
		t.Error("too-long username should be rejected")
	}
	if _, _, err := a.Register("alice", "abc"); err == nil {
		t.Error("too-short password should be rejected")
	}

	if _, _, err := a.Register("alice", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := a.Register("alice", "other"); err == nil {
		t.Error("duplicate account name should be rejected")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	a := NewAuth(testDB(t))
	if _, _, err := a.ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token should be rejected")
	}

	// A token signed with a different secret must not validate.
	other := NewAuth(nil)
	foreign, signErr := other.generateToken(42, "mallory")
	if signErr != nil {
		t.Fatal(signErr)
	}
	if _, _, err := a.ValidateToken(foreign); err == nil {
		t.Error("token with wrong signature should be rejected")
	}
}

func TestLoginRateLimit(t *testing.T) {
	a := NewAuth(testDB(t))
	ip := "10.0.0.1"
	for i := 0; i < maxLoginAttempts; i++ {
		if !a.checkRate(ip) {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if a.checkRate(ip) {
		t.Error("attempts over the window limit should be denied")
	}
	if !a.checkRate("10.0.0.2") {
		t.Error("limit must be per source address")
	}
}

func TestJWTSecretPersisted(t *testing.T) {
	db := testDB(t)
	a1 := NewAuth(db)
	_, token, err := a1.Register("alice", "secret")
	if err != nil {
		t.Fatal(err)
	}

	// A second Auth over the same database must load the same secret,
	// so tokens survive a server restart.
	a2 := NewAuth(db)
	if _, _, err := a2.ValidateToken(token); err != nil {
		t.Errorf("token invalid after reload: %v", err)
	}
}
