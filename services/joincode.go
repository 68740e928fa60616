package services

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const (
	joinCodeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	JoinCodeLength      = 8
	maxJoinCodeAttempts = 10
)

// rejection bound keeps the byte-to-symbol mapping uniform
const joinCodeByteLimit = 256 - 256%len(joinCodeAlphabet)

var errJoinCodeExhausted = errors.New("could not generate a unique join code")

// NewJoinCode draws an 8-character [A-Z0-9] code from r
func NewJoinCode(r io.Reader) (string, error) {
	code := make([]byte, 0, JoinCodeLength)
	buf := make([]byte, JoinCodeLength)
	for len(code) < JoinCodeLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= joinCodeByteLimit {
				continue
			}
			code = append(code, joinCodeAlphabet[int(b)%len(joinCodeAlphabet)])
			if len(code) == JoinCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// uniqueJoinCode draws codes until one is not held by any team
func (s *TeamService) uniqueJoinCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxJoinCodeAttempts; attempt++ {
		code, err := NewJoinCode(s.random)
		if err != nil {
			return "", err
		}
		exists, err := s.store.JoinCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check join code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", errJoinCodeExhausted
}
