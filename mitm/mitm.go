// Package mitm breaks double AES encryption with 16-bit keys by a
// meet-in-the-middle search: C = AES_k2(AES_k1(P)).
package mitm

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// KeySpace is the number of 16-bit keys.
const KeySpace = 1 << 16

var (
	ErrNoPairs     = errors.New("at least one plaintext/ciphertext pair is required")
	ErrKeyNotFound = errors.New("no key pair matches every plaintext/ciphertext pair")

	errFound = errors.New("key pair found")
)

// Pair is a known plaintext block and its double encryption.
type Pair struct {
	Plaintext  [aes.BlockSize]byte
	Ciphertext [aes.BlockSize]byte
}

// KeyPair holds the inner (K1) and outer (K2) keys.
type KeyPair struct {
	K1 uint16
	K2 uint16
}

func (k KeyPair) String() string {
	return fmt.Sprintf("k1=%d (0x%04x), k2=%d (0x%04x)", k.K1, k.K1, k.K2, k.K2)
}

type Options struct {
	// Workers is the number of goroutines per sweep. Zero means GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// Key16 expands a 16-bit key to an AES-128 key: two big-endian bytes
// followed by fourteen zero bytes.
func Key16(k uint16) []byte {
	key := make([]byte, aes.BlockSize)
	binary.BigEndian.PutUint16(key, k)
	return key
}

func newBlock(k uint16) (cipher.Block, error) {
	block, err := aes.NewCipher(Key16(k))
	if err != nil {
		return nil, fmt.Errorf("aes key %d: %w", k, err)
	}
	return block, nil
}

// Encrypt computes AES_k2(AES_k1(block)) on a single raw block.
func Encrypt(k1, k2 uint16, block [aes.BlockSize]byte) ([aes.BlockSize]byte, error) {
	var mid, out [aes.BlockSize]byte

	inner, err := newBlock(k1)
	if err != nil {
		return out, err
	}
	outer, err := newBlock(k2)
	if err != nil {
		return out, err
	}

	inner.Encrypt(mid[:], block[:])
	outer.Encrypt(out[:], mid[:])
	return out, nil
}

// ParsePair decodes a plaintext string and a hex ciphertext, both one block.
func ParsePair(plaintext, ciphertextHex string) (Pair, error) {
	var p Pair
	if len(plaintext) != aes.BlockSize {
		return p, fmt.Errorf("plaintext %q is %d bytes, want %d", plaintext, len(plaintext), aes.BlockSize)
	}
	ct, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return p, fmt.Errorf("ciphertext %q: %w", ciphertextHex, err)
	}
	if len(ct) != aes.BlockSize {
		return p, fmt.Errorf("ciphertext is %d bytes, want %d", len(ct), aes.BlockSize)
	}
	copy(p.Plaintext[:], plaintext)
	copy(p.Ciphertext[:], ct)
	return p, nil
}

// SheetPairs returns the two known pairs from the operating-modes sheet.
func SheetPairs() []Pair {
	p1, err1 := ParsePair("Das ist ein Test", "d011ebb754c1f786b5b8576457c2104e")
	p2, err2 := ParsePair("Wir knacken 2AES", "4894511486656bfbf6740a7e80affd5f")
	if err := errors.Join(err1, err2); err != nil {
		panic(err)
	}
	return []Pair{p1, p2}
}

// keyRange is a half-open slice [lo, hi) of the key space.
type keyRange struct{ lo, hi int }

func split(workers int) []keyRange {
	chunk := (KeySpace + workers - 1) / workers
	ranges := make([]keyRange, 0, workers)
	for lo := 0; lo < KeySpace; lo += chunk {
		ranges = append(ranges, keyRange{lo, min(lo+chunk, KeySpace)})
	}
	return ranges
}

// Attack recovers (k1, k2) from known pairs. It tabulates AES_k1(P1) for
// every k1, then decrypts C1 under every k2 and looks the result up in the
// table. Each hit is checked against all pairs before it is accepted.
func Attack(ctx context.Context, pairs []Pair, opts Options) (KeyPair, error) {
	if len(pairs) == 0 {
		return KeyPair{}, ErrNoPairs
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	start := time.Now()
	table, err := forwardTable(ctx, pairs[0].Plaintext, workers)
	if err != nil {
		return KeyPair{}, err
	}
	log.Debug("forward table built", "entries", len(table), "elapsed", time.Since(start))

	start = time.Now()
	key, err := backwardSearch(ctx, table, pairs, workers)
	if err != nil {
		return KeyPair{}, err
	}
	log.Info("key pair recovered", "k1", key.K1, "k2", key.K2, "elapsed", time.Since(start))
	return key, nil
}

func forwardTable(ctx context.Context, plaintext [aes.BlockSize]byte, workers int) (map[[aes.BlockSize]byte][]uint16, error) {
	ranges := split(workers)
	partial := make([]map[[aes.BlockSize]byte][]uint16, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		i, r := i, r
		g.Go(func() error {
			local := make(map[[aes.BlockSize]byte][]uint16, r.hi-r.lo)
			var mid [aes.BlockSize]byte
			for k := r.lo; k < r.hi; k++ {
				if k%4096 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				block, err := newBlock(uint16(k))
				if err != nil {
					return err
				}
				block.Encrypt(mid[:], plaintext[:])
				local[mid] = append(local[mid], uint16(k))
			}
			partial[i] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("forward table: %w", err)
	}

	table := make(map[[aes.BlockSize]byte][]uint16, KeySpace)
	for _, local := range partial {
		for mid, keys := range local {
			table[mid] = append(table[mid], keys...)
		}
	}
	return table, nil
}

func backwardSearch(ctx context.Context, table map[[aes.BlockSize]byte][]uint16, pairs []Pair, workers int) (KeyPair, error) {
	var (
		mu    sync.Mutex
		found *KeyPair
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range split(workers) {
		r := r
		g.Go(func() error {
			var mid [aes.BlockSize]byte
			for k2 := r.lo; k2 < r.hi; k2++ {
				if k2%4096 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				outer, err := newBlock(uint16(k2))
				if err != nil {
					return err
				}
				outer.Decrypt(mid[:], pairs[0].Ciphertext[:])

				for _, k1 := range table[mid] {
					ok, err := verify(k1, uint16(k2), pairs[1:])
					if err != nil {
						return err
					}
					if !ok {
						continue
					}
					mu.Lock()
					if found == nil {
						found = &KeyPair{K1: k1, K2: uint16(k2)}
					}
					mu.Unlock()
					return errFound
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if found != nil {
		return *found, nil
	}
	if err != nil {
		return KeyPair{}, fmt.Errorf("backward search: %w", err)
	}
	return KeyPair{}, ErrKeyNotFound
}

func verify(k1, k2 uint16, pairs []Pair) (bool, error) {
	for _, p := range pairs {
		got, err := Encrypt(k1, k2, p.Plaintext)
		if err != nil {
			return false, err
		}
		if got != p.Ciphertext {
			return false, nil
		}
	}
	return true, nil
}
