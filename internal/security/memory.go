// Package security holds helpers for handling caller-owned secret material.
package security

import (
	"runtime"
	"sync"
)

// SecureBytes is a private copy of secret material that is zeroed on Destroy.
type SecureBytes struct {
	data []byte
	mu   sync.Mutex
}

// NewSecureBytesFromSlice copies data so the caller's slice is never retained.
func NewSecureBytesFromSlice(data []byte) *SecureBytes {
	secure := &SecureBytes{
		data: make([]byte, len(data)),
	}
	copy(secure.data, data)
	return secure
}

// Bytes returns the underlying copy. It must not be used after Destroy.
func (s *SecureBytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Len reports the length of the held material.
func (s *SecureBytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Destroy zeros the copy. Safe to call more than once.
func (s *SecureBytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data != nil {
		ZeroBytes(s.data)
		s.data = nil
	}
}

// ZeroBytes overwrites data in place.
func ZeroBytes(data []byte) {
	if len(data) == 0 {
		return
	}

	clear(data)
	runtime.KeepAlive(data)
}
