package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// ErrCorrupt is returned when a sealed value cannot be opened.
var ErrCorrupt = errors.New("sealed value is corrupt")

const nonceSize = 24

// Sealed encrypts values before handing them to the inner store.
type Sealed struct {
	inner Storage
	key   [32]byte
}

func Seal(inner Storage, secret string) *Sealed {
	return &Sealed{inner: inner, key: sha256.Sum256([]byte(secret))}
}

func (s *Sealed) GetItem(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.GetItem(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	box, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(box) < nonceSize {
		return "", false, ErrCorrupt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", false, ErrCorrupt
	}
	return string(plain), true, nil
}

func (s *Sealed) SetItem(ctx context.Context, key, value string) error {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)
	return s.inner.SetItem(ctx, key, base64.StdEncoding.EncodeToString(box))
}

func (s *Sealed) RemoveItem(ctx context.Context, key string) error {
	return s.inner.RemoveItem(ctx, key)
}
