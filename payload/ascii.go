// Package payload generates the workloads pushed through a terminal:
// bulk ASCII, line blocks, Unicode stress catalogs and ANSI color
// sequences.
package payload

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sourcegraph/termbench/types"
)

// MB is the number of bytes in one megabyte of payload.
const MB = 1024 * 1024

// DefaultLineLength is the width of the lines produced by Lines when
// callers have no preference.
const DefaultLineLength = 80

// Alphabet holds the symbols RandomASCII draws from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var (
	mu  sync.Mutex
	rng = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Seed resets the randomness source so that RandomASCII and
// ANSITruecolor produce repeatable output.
func Seed(seed int64) {
	mu.Lock()
	rng = rand.New(rand.NewSource(seed))
	mu.Unlock()
}

func intn(n int) int {
	mu.Lock()
	defer mu.Unlock()
	return rng.Intn(n)
}

// RandomASCII returns size bytes drawn uniformly from Alphabet.
func RandomASCII(size int) ([]byte, error) {
	if size < 0 {
		return nil, errors.Wrapf(types.ErrInvalidArgument, "random ascii: size %d", size)
	}
	buf := make([]byte, size)
	mu.Lock()
	for i := range buf {
		buf[i] = Alphabet[rng.Intn(len(Alphabet))]
	}
	mu.Unlock()
	return buf, nil
}

// Lines returns count identical lines of lineLength 'x' characters
// joined by newlines, with no trailing newline.
func Lines(count, lineLength int) (string, error) {
	if count < 0 || lineLength < 0 {
		return "", errors.Wrapf(types.ErrInvalidArgument, "lines: count %d, length %d", count, lineLength)
	}
	if count == 0 {
		return "", nil
	}
	line := strings.Repeat("x", lineLength)
	var b strings.Builder
	b.Grow(count*(lineLength+1) - 1)
	for i := 0; i < count; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String(), nil
}
