// Package padding pads plaintext to a whole number of cipher blocks.
package padding

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBlockSize      = errors.New("block size must be between 1 and 255")
	ErrEmptyData      = errors.New("empty padded data")
	ErrNotAligned     = errors.New("data is not a multiple of the block size")
	ErrInvalidPadding = errors.New("invalid padding")
)

// Padding adds and removes block padding. Pad never modifies data.
type Padding interface {
	Pad(data []byte, blockSize int) ([]byte, error)
	Unpad(data []byte, blockSize int) ([]byte, error)
}

func checkBlockSize(blockSize int) error {
	if blockSize < 1 || blockSize > 255 {
		return fmt.Errorf("%w: got %d", ErrBlockSize, blockSize)
	}
	return nil
}

// grow copies data and appends n zero bytes.
func grow(data []byte, n int) []byte {
	out := make([]byte, len(data)+n)
	copy(out, data)
	return out
}

// padLength validates the shape of padded data and returns the pad length
// stored in its last byte.
func padLength(data []byte, blockSize int) (int, error) {
	if err := checkBlockSize(blockSize); err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, ErrEmptyData
	}
	if len(data)%blockSize != 0 {
		return 0, fmt.Errorf("%w: %d bytes, block %d", ErrNotAligned, len(data), blockSize)
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return 0, fmt.Errorf("%w: pad length %d", ErrInvalidPadding, n)
	}
	return n, nil
}

// PKCS7 appends N bytes of value N, 1 <= N <= blockSize.
type PKCS7 struct{}

func (PKCS7) Pad(data []byte, blockSize int) ([]byte, error) {
	if err := checkBlockSize(blockSize); err != nil {
		return nil, err
	}

	n := blockSize - len(data)%blockSize
	out := grow(data, n)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out, nil
}

func (PKCS7) Unpad(data []byte, blockSize int) ([]byte, error) {
	n, err := padLength(data, blockSize)
	if err != nil {
		return nil, err
	}

	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}

// ANSIX923 appends zero bytes followed by the pad length.
type ANSIX923 struct{}

func (ANSIX923) Pad(data []byte, blockSize int) ([]byte, error) {
	if err := checkBlockSize(blockSize); err != nil {
		return nil, err
	}

	n := blockSize - len(data)%blockSize
	out := grow(data, n)
	out[len(out)-1] = byte(n)
	return out, nil
}

func (ANSIX923) Unpad(data []byte, blockSize int) ([]byte, error) {
	n, err := padLength(data, blockSize)
	if err != nil {
		return nil, err
	}

	for _, b := range data[len(data)-n : len(data)-1] {
		if b != 0 {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}

// ISO10126 appends random bytes followed by the pad length.
type ISO10126 struct{}

func (ISO10126) Pad(data []byte, blockSize int) ([]byte, error) {
	if err := checkBlockSize(blockSize); err != nil {
		return nil, err
	}

	n := blockSize - len(data)%blockSize
	out := grow(data, n)
	if _, err := rand.Read(out[len(data) : len(out)-1]); err != nil {
		return nil, fmt.Errorf("iso10126 filler: %w", err)
	}
	out[len(out)-1] = byte(n)
	return out, nil
}

func (ISO10126) Unpad(data []byte, blockSize int) ([]byte, error) {
	n, err := padLength(data, blockSize)
	if err != nil {
		return nil, err
	}
	return data[:len(data)-n], nil
}

// Zero fills with zero bytes and adds nothing to aligned data. Trailing zero
// bytes of the plaintext are lost on Unpad.
type Zero struct{}

func (Zero) Pad(data []byte, blockSize int) ([]byte, error) {
	if err := checkBlockSize(blockSize); err != nil {
		return nil, err
	}

	n := (blockSize - len(data)%blockSize) % blockSize
	return grow(data, n), nil
}

func (Zero) Unpad(data []byte, blockSize int) ([]byte, error) {
	if err := checkBlockSize(blockSize); err != nil {
		return nil, err
	}
	if len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes, block %d", ErrNotAligned, len(data), blockSize)
	}

	end := len(data)
	for end > 0 && data[end-1] == 0 {
		end--
	}
	return data[:end], nil
}

// ByName returns the scheme called name: pkcs7, ansix923, iso10126 or zero.
func ByName(name string) (Padding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pkcs7", "":
		return PKCS7{}, nil
	case "ansix923", "x923":
		return ANSIX923{}, nil
	case "iso10126":
		return ISO10126{}, nil
	case "zero", "zeros":
		return Zero{}, nil
	default:
		return nil, fmt.Errorf("unknown padding %q", name)
	}
}
