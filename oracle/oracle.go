// Package oracle demonstrates the CBC padding oracle: a server that only
// reveals whether a ciphertext decrypts to valid PKCS7 padding leaks the
// whole plaintext.
package oracle

import (
	"crypto/aes"
	"errors"
	"fmt"

	"itsec/modes"
	"itsec/padding"
)

var (
	ErrNoValidByte = errors.New("oracle accepted no guess for a byte")
	ErrCiphertext  = errors.New("ciphertext must be a non-empty multiple of the block size")
)

// Checker answers whether ciphertext decrypts under iv to valid padding.
type Checker interface {
	ValidPadding(ciphertext, iv []byte) bool
}

// Server encrypts with AES-CBC/PKCS7 under a key the attacker never sees.
type Server struct {
	cipher *modes.Cipher
}

// NewServer uses a fresh random AES-128 key.
func NewServer() (*Server, error) {
	key, err := modes.GenerateIV(aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("oracle key: %w", err)
	}
	return NewServerWithKey(key)
}

func NewServerWithKey(key []byte) (*Server, error) {
	c, err := modes.NewAES(key, modes.CBC, padding.PKCS7{})
	if err != nil {
		return nil, err
	}
	return &Server{cipher: c}, nil
}

// Encrypt returns the ciphertext and the random IV it used.
func (s *Server) Encrypt(plaintext []byte) (ciphertext, iv []byte, err error) {
	iv, err = modes.GenerateIV(aes.BlockSize)
	if err != nil {
		return nil, nil, err
	}
	ciphertext, err = s.cipher.Encrypt(plaintext, iv)
	if err != nil {
		return nil, nil, err
	}
	return ciphertext, iv, nil
}

// ValidPadding is the oracle. Any decryption failure reads as false.
func (s *Server) ValidPadding(ciphertext, iv []byte) bool {
	_, err := s.cipher.Decrypt(ciphertext, iv)
	return err == nil
}

// CountingChecker counts the queries passed to Checker.
type CountingChecker struct {
	Checker Checker
	Queries int
}

func (c *CountingChecker) ValidPadding(ciphertext, iv []byte) bool {
	c.Queries++
	return c.Checker.ValidPadding(ciphertext, iv)
}

// Attack recovers the plaintext of ciphertext using only checker.
//
// Each block is attacked alone: the forged IV is tuned byte by byte from the
// end until the oracle accepts padding of length 1, 2, ... 16, which reveals
// the block's intermediate state D_k(C_i). XOR with the real previous block
// gives the plaintext.
func Attack(checker Checker, ciphertext, iv []byte) ([]byte, error) {
	const size = aes.BlockSize
	if len(iv) != size {
		return nil, fmt.Errorf("%w: got %d, want %d", modes.ErrIVLength, len(iv), size)
	}
	if len(ciphertext) == 0 || len(ciphertext)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCiphertext, len(ciphertext))
	}

	plaintext := make([]byte, 0, len(ciphertext))
	prev := iv
	for i, block := range modes.Blocks(ciphertext, size) {
		inter, err := intermediate(checker, block)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		for j := range inter {
			plaintext = append(plaintext, inter[j]^prev[j])
		}
		prev = block
	}

	out, err := padding.PKCS7{}.Unpad(plaintext, size)
	if err != nil {
		return nil, fmt.Errorf("recovered plaintext: %w", err)
	}
	return out, nil
}

func intermediate(checker Checker, block []byte) ([aes.BlockSize]byte, error) {
	const size = aes.BlockSize
	var inter [size]byte
	forged := make([]byte, size)

	for pos := size - 1; pos >= 0; pos-- {
		pad := byte(size - pos)
		for k := pos + 1; k < size; k++ {
			forged[k] = inter[k] ^ pad
		}

		found := false
		for guess := 0; guess < 256; guess++ {
			forged[pos] = byte(guess)
			if !checker.ValidPadding(block, forged) {
				continue
			}
			// For the last byte a hit may be a longer pad such as 02 02.
			// Changing the byte before it tells the two apart.
			if pos == size-1 {
				forged[pos-1] ^= 0xff
				ok := checker.ValidPadding(block, forged)
				forged[pos-1] ^= 0xff
				if !ok {
					continue
				}
			}
			inter[pos] = byte(guess) ^ pad
			found = true
			break
		}
		if !found {
			return inter, fmt.Errorf("byte %d: %w", pos, ErrNoValidByte)
		}
	}

	return inter, nil
}
