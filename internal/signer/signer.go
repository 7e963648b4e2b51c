// Package signer produces the authentication parameters Bitstamp requires on every
// private endpoint: the API key, a strictly increasing nonce and an HMAC-SHA256
// signature over nonce, customer id and API key.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"stampgo/pkg/core"
)

// Signer signs requests for one set of credentials. It is safe for concurrent use:
// every Sign call consumes a distinct nonce.
type Signer struct {
	creds core.Credentials
	nonce atomic.Int64
}

// Params are the three form fields added to a private request.
type Params struct {
	Key       string
	Signature string
	Nonce     int64
}

// Map returns the params keyed by their form field names: key, signature, nonce.
func (p Params) Map() core.Params {
	return core.Params{
		"key":       p.Key,
		"signature": p.Signature,
		"nonce":     p.Nonce,
	}
}

// Option configures a Signer.
type Option func(*Signer)

// WithNonce sets the first nonce the signer will hand out.
func WithNonce(start int64) Option {
	return func(s *Signer) {
		s.nonce.Store(start)
	}
}

// New creates a Signer. The nonce starts at the current Unix time in seconds unless
// WithNonce is given.
func New(creds core.Credentials, opts ...Option) (*Signer, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	s := &Signer{creds: creds}
	s.nonce.Store(time.Now().Unix())
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sign consumes the next nonce and returns the signed params. The nonce is consumed
// even if the caller never sends the request.
func (s *Signer) Sign() Params {
	nonce := s.nonce.Add(1) - 1
	return Params{
		Key:       s.creds.APIKey,
		Signature: Signature(s.creds.SecretKey, nonce, s.creds.CustomerID, s.creds.APIKey),
		Nonce:     nonce,
	}
}

// Nonce returns the value the next Sign call will use.
func (s *Signer) Nonce() int64 {
	return s.nonce.Load()
}

// Key returns the API key.
func (s *Signer) Key() string {
	return s.creds.APIKey
}

// CustomerID returns the account identifier.
func (s *Signer) CustomerID() string {
	return s.creds.CustomerID
}

func (s *Signer) String() string {
	return fmt.Sprintf("Signer{CustomerID:%s, Key:%s}", s.creds.CustomerID, core.MaskKey(s.creds.APIKey))
}

// Signature returns the uppercase hex HMAC-SHA256 of nonce+customerID+apiKey keyed by
// secret. Strings are hashed as their UTF-8 bytes.
func Signature(secret string, nonce int64, customerID, apiKey string) string {
	msg := strconv.FormatInt(nonce, 10) + customerID + apiKey
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(msg))
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}
