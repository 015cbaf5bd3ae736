// Package linkcode generates and validates the one-time codes that bind a
// PulseHub account to a Discord identity.
package linkcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/logger"
)

const (
	// Alphabet omits 0/O and 1/I so codes survive being read aloud or retyped.
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// Length of every issued code.
	Length = 8
	// MaxAttempts bounds the random generate-and-check loop before the fallback.
	MaxAttempts = 50
	// ClockSymbols is how many leading symbols of a fallback code come from the clock.
	ClockSymbols = 5
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{` + fmt.Sprint(Length) + `}$`)

// Checker reports whether a code is currently held by some account.
type Checker interface {
	LinkCodeExists(ctx context.Context, code string) (bool, error)
}

// Generator issues unique link codes.
type Generator struct {
	checker Checker
	random  func() (string, error)
	now     func() time.Time
}

// NewGenerator creates a generator backed by the given existence checker.
func NewGenerator(checker Checker) *Generator {
	return &Generator{
		checker: checker,
		random:  Random,
		now:     time.Now,
	}
}

// Generate returns a code not held by any account at the time of the check.
// After MaxAttempts collisions it falls back to a clock-plus-random code; the
// store's unique index remains the final arbiter.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	log := logger.FromContext(ctx)

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		code, err := g.random()
		if err != nil {
			return "", fmt.Errorf("failed to generate link code: %w", err)
		}

		exists, err := g.checker.LinkCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check link code: %w", err)
		}
		if !exists {
			return code, nil
		}
		log.Debug("Link code collision", "attempt", attempt)
	}

	suffix, err := g.random()
	if err != nil {
		return "", fmt.Errorf("failed to generate link code: %w", err)
	}
	code := FromTime(g.now(), suffix)
	log.Warn("Link code generation exhausted random attempts, using time-derived code", "attempts", MaxAttempts)
	return code, nil
}

// Random returns a uniformly random code drawn from Alphabet.
func Random() (string, error) {
	var sb strings.Builder
	sb.Grow(Length)
	max := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < Length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(Alphabet[n.Int64()])
	}
	return sb.String(), nil
}

// FromTime encodes the low-order ClockSymbols of the nanosecond clock into
// Alphabet and fills the rest of the code from the head of random, which must
// be a code produced by Random. Codes issued in the same instant differ only
// in that random tail.
func FromTime(t time.Time, random string) string {
	n := uint64(t.UnixNano())
	base := uint64(len(Alphabet))
	buf := make([]byte, Length)
	for i := ClockSymbols - 1; i >= 0; i-- {
		buf[i] = Alphabet[n%base]
		n /= base
	}
	copy(buf[ClockSymbols:], random)
	return string(buf)
}

// Normalize trims whitespace and upper-cases user input.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Validate normalizes raw and checks it has the shape of an issued code.
func Validate(raw string) (string, error) {
	code := Normalize(raw)
	if !codePattern.MatchString(code) {
		return "", domain.ErrInvalidFormat
	}
	return code, nil
}

// IsInvalidFormat reports whether err is a format rejection.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, domain.ErrInvalidFormat)
}
