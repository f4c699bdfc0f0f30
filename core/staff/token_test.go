package staff

import (
	"testing"
	"time"

	"github.com/zawadi/shule/core"
)

func TestMakeVerifyToken(t *testing.T) {
	conf := &core.Config{
		SecretKey:                 "secret",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}

	now := time.Now()
	stf := Staff{
		ID:        "7f9ea7c1-7f7a-4a22-9a71-f1b406c5b16e",
		Name:      "T",
		Username:  "t",
		Email:     "t@test.test",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	_ = stf.SetPassword("pwd")

	validToken, err := MakeToken(conf, stf)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}

	// generate an expired token
	dayLate := conf.PasswordResetTimeoutDelta + (24 * time.Hour)
	nowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken, err := MakeToken(conf, stf)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}
	nowFunc = time.Now // reset

	tests := []struct {
		name    string
		stf     Staff
		token   string
		wantErr error
	}{
		{name: "no token", stf: stf, wantErr: ErrInvalidToken},
		{name: "invalid parts len", stf: stf, token: "lmaooolol", wantErr: ErrInvalidToken},
		{name: "invalid base32", stf: stf, token: "hahaha-sigsig-sig", wantErr: ErrInvalidToken},
		{name: "invalid timestamp", stf: stf, token: "NRXWY-sigsig-sig", wantErr: ErrInvalidToken},
		{name: "invalid token", stf: stf, token: "HE4TS-sigsig-sig", wantErr: ErrInvalidToken},
		{name: "expired token", stf: stf, token: expiredToken, wantErr: ErrTokenExpired},
		{name: "valid token", stf: stf, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := VerifyToken(conf, tt.stf, tt.token); err != tt.wantErr {
				t.Errorf("VerifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	// a password change invalidates outstanding tokens
	_ = stf.SetPassword("changed")
	if err := VerifyToken(conf, stf, validToken); err != ErrInvalidToken {
		t.Errorf("VerifyToken() after password change error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestEncodeDecodeUID(t *testing.T) {
	stf := Staff{ID: "7f9ea7c1-7f7a-4a22-9a71-f1b406c5b16e"}
	uid := EncodeUID(stf)
	id, err := DecodeUID(uid)
	if err != nil {
		t.Fatalf("DecodeUID() failed: %v", err)
	}
	if id != stf.ID {
		t.Errorf("DecodeUID() = %q, want %q", id, stf.ID)
	}
	if _, err := DecodeUID("%%%"); err == nil {
		t.Error("DecodeUID() expected an error on invalid input")
	}
}
