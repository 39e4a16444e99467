package user

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
)

const resetTokenPurpose = "gvcs.password_reset"

var (
	NowFunc = time.Now // mockable

	errInvalidToken = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

// EncodeUID base64 encodes the User ID for reset links.
func EncodeUID(usr User) string {
	return base64.RawURLEncoding.EncodeToString([]byte(usr.ID))
}

func decodeUID(uid string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(uid)
	return string(b), err
}

// makeToken returns "<issued hour, base36>.<signature>".
// The signature covers the password hash & last login, so the token dies once either changes.
func makeToken(usr User, conf *core.Config) (string, error) {
	issued := NowFunc().Unix() / 3600
	return strconv.FormatInt(issued, 36) + "." + signToken(usr, issued, conf.SecretKey), nil
}

func verifyToken(usr User, token string, conf *core.Config) error {
	ts, sig, ok := strings.Cut(token, ".")
	if !ok || sig == "" {
		return errInvalidToken
	}
	issued, err := strconv.ParseInt(ts, 36, 64)
	if err != nil || issued <= 0 {
		return errInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(signToken(usr, issued, conf.SecretKey))) {
		return errInvalidToken
	}
	if age := time.Duration(NowFunc().Unix()/3600-issued) * time.Hour; age > conf.PasswordResetTimeoutDelta {
		return errTokenExpired
	}
	return nil
}

func signToken(usr User, issued int64, secretKey string) string {
	key := sha256.Sum256([]byte(resetTokenPurpose + secretKey))
	h := hmac.New(sha256.New, key[:])
	for _, part := range [][]byte{
		[]byte(usr.ID),
		usr.PasswordHash,
		[]byte(strconv.FormatInt(usr.LastLogin.Unix(), 10)),
		[]byte(strconv.FormatInt(issued, 10)),
	} {
		h.Write(part)
		h.Write([]byte{0})
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
