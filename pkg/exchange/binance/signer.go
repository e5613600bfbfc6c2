package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"spotclient/pkg/core"
)

const (
	paramTimestamp  = "timestamp"
	paramSignature  = "signature"
	paramRecvWindow = "recvWindow"
)

// Signer authenticates query strings with HMAC-SHA256 the way Binance expects:
// the hex digest of the encoded query, keyed with the secret, appended as the
// last "signature" parameter.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner returns a Signer for secret using the wall clock.
func NewSigner(secret string) *Signer {
	return &Signer{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock replaces the clock used for timestamps and returns the signer.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

// Signature returns the lowercase hex HMAC-SHA256 of payload.
func (s *Signer) Signature(payload string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// Sign sets timestamp to the current epoch milliseconds, signs the encoding of
// q and appends the signature. It returns the final encoding that must be sent
// unchanged. A stale signature is dropped before signing.
func (s *Signer) Sign(q *core.Query) string {
	q.Del(paramSignature)
	q.Set(paramTimestamp, s.now().UnixMilli())

	payload := q.Encode()
	q.Set(paramSignature, s.Signature(payload))

	return q.Encode()
}
