package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// fixedSecret is shared by issuer and verifier. The legacy scheme hardcodes
// it; keeping it a process-wide constant preserves token compatibility
// across restarts and with tokens minted by the legacy deployment.
const fixedSecret = "v0_secret_key"

// tokenTTL is the absolute lifetime stamped into every issued token.
const tokenTTL = 7 * 24 * time.Hour

// Claims is the decoded payload of a session token. Exp is an absolute
// epoch-millisecond instant.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp"`
}

type tokenHeader struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// now is swapped out in tests.
var now = time.Now

// Sign issues a session token for the given identity. The format imitates a
// JWT (three dot-separated base64 segments and an HS256 header) but the
// third segment is merely base64 of "header.payload.secret" — no HMAC is
// computed. Reproduced as-is for compatibility; not a secure construction.
func Sign(userID, email string) (string, error) {
	header, err := json.Marshal(tokenHeader{Alg: "HS256", Typ: "JWT"})
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(Claims{
		UserID: userID,
		Email:  email,
		Exp:    now().Add(tokenTTL).UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	h := base64.StdEncoding.EncodeToString(header)
	p := base64.StdEncoding.EncodeToString(payload)
	sig := base64.StdEncoding.EncodeToString([]byte(h + "." + p + "." + fixedSecret))
	return h + "." + p + "." + sig, nil
}

// Verify decodes and checks a session token. Every failure path — wrong
// part count, undecodable payload, expired claims, signature mismatch —
// returns nil; no error detail leaks to the caller.
func Verify(token string) *Claims {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil
	}
	var c Claims
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil
	}
	if c.Exp < now().UnixMilli() {
		return nil
	}
	expected := base64.StdEncoding.EncodeToString([]byte(parts[0] + "." + parts[1] + "." + fixedSecret))
	if expected != parts[2] {
		return nil
	}
	return &c
}
