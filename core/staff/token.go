package staff

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/zawadi/shule/core"
)

var (
	tokenSalt = []byte("zawadi.shule.core.staff.token")
	nowFunc   = time.Now // mockable

	// errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// EncodeUID base64 encodes the given Staff ID.
func EncodeUID(stf Staff) string {
	return base64.RawURLEncoding.EncodeToString([]byte(stf.ID))
}

// DecodeUID base64 decodes the given UID.
func DecodeUID(uid string) (string, error) {
	idBytes, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", err
	}
	return string(idBytes), nil
}

// MakeToken generates a password reset token for a given Staff member.
// The token is invalidated by a password change or a login since it was
// issued, and expires after conf.PasswordResetTimeoutDelta.
func MakeToken(conf *core.Config, stf Staff) (string, error) {
	return makeTokenWithTimestamp(conf, stf, numDaysSince2001(nowFunc()))
}

// VerifyToken checks that a password reset token for a given Staff member is valid.
func VerifyToken(conf *core.Config, stf Staff, token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return ErrInvalidToken
	}
	tsB32 := parts[0]

	data, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(tsB32)
	if err != nil {
		return ErrInvalidToken
	}
	ts, err := strconv.Atoi(string(data))
	if err != nil {
		return ErrInvalidToken
	}

	// check that token has not been tampered with
	newToken, err := makeTokenWithTimestamp(conf, stf, ts)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(newToken), []byte(token)) == 0 {
		return ErrInvalidToken
	}

	// check that the timestamp is within limit
	if (numDaysSince2001(time.Now()) - ts) > int(conf.PasswordResetTimeoutDelta/(24*time.Hour)) {
		return ErrTokenExpired
	}
	return nil
}

func makeTokenWithTimestamp(conf *core.Config, stf Staff, ts int) (string, error) {
	tsB32 := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(strconv.Itoa(ts)))
	sig, err := sign(conf, hashValue(stf, ts))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", tsB32, sig), nil
}

func numDaysSince2001(t time.Time) int {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(ref).Hours() / 24))
}

func sign(conf *core.Config, val []byte) (string, error) {
	key := sha256.Sum256(append(tokenSalt, conf.SecretKey...))
	h := hmac.New(sha256.New, key[:])
	if _, err := h.Write(val); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}

func hashValue(stf Staff, ts int) []byte {
	var val bytes.Buffer
	val.WriteString(stf.ID)
	val.Write(stf.PasswordHash)
	if !stf.LastLogin.IsZero() {
		val.WriteString(stf.LastLogin.String())
	}
	val.WriteString(strconv.Itoa(ts))
	return val.Bytes()
}
