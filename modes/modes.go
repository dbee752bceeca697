// Package modes runs a block cipher (AES from crypto/aes) in the ECB, CBC
// and CTR operating modes with pluggable padding.
package modes

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"itsec/padding"
)

type Mode int

const (
	ECB Mode = iota
	CBC
	CTR
)

func (m Mode) String() string {
	switch m {
	case ECB:
		return "ECB"
	case CBC:
		return "CBC"
	case CTR:
		return "CTR"
	default:
		return "Unknown"
	}
}

// ParseMode accepts ecb, cbc or ctr in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ECB":
		return ECB, nil
	case "CBC":
		return CBC, nil
	case "CTR":
		return CTR, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrMode, s)
	}
}

// NeedsIV reports whether the mode takes an IV (or nonce).
func (m Mode) NeedsIV() bool {
	return m == CBC || m == CTR
}

var (
	ErrMode       = errors.New("unsupported mode")
	ErrIVLength   = errors.New("IV length must equal the block size")
	ErrNotAligned = errors.New("ciphertext is not a whole number of blocks")
)

type Cipher struct {
	block   cipher.Block
	mode    Mode
	padding padding.Padding
}

// New wraps block. A nil pad means PKCS7. Padding is ignored in CTR mode.
func New(block cipher.Block, mode Mode, pad padding.Padding) *Cipher {
	if pad == nil {
		pad = padding.PKCS7{}
	}
	return &Cipher{
		block:   block,
		mode:    mode,
		padding: pad,
	}
}

// NewAES builds a Cipher over AES. key must be 16, 24 or 32 bytes.
func NewAES(key []byte, mode Mode, pad padding.Padding) (*Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes key: %w", err)
	}
	return New(block, mode, pad), nil
}

func (c *Cipher) BlockSize() int {
	return c.block.BlockSize()
}

func (c *Cipher) Mode() Mode {
	return c.mode
}

func (c *Cipher) checkIV(iv []byte) error {
	if len(iv) != c.block.BlockSize() {
		return fmt.Errorf("%w: got %d, want %d", ErrIVLength, len(iv), c.block.BlockSize())
	}
	return nil
}

// Encrypt enciphers plaintext. iv is ignored in ECB mode.
func (c *Cipher) Encrypt(plaintext, iv []byte) ([]byte, error) {
	blockSize := c.block.BlockSize()

	switch c.mode {
	case ECB, CBC:
		if c.mode == CBC {
			if err := c.checkIV(iv); err != nil {
				return nil, err
			}
		}

		padded, err := c.padding.Pad(plaintext, blockSize)
		if err != nil {
			return nil, fmt.Errorf("pad: %w", err)
		}

		ciphertext := make([]byte, len(padded))
		c.encrypter(iv).CryptBlocks(ciphertext, padded)
		return ciphertext, nil
	case CTR:
		if err := c.checkIV(iv); err != nil {
			return nil, err
		}
		return c.xorCTR(plaintext, iv), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrMode, int(c.mode))
	}
}

// Decrypt reverses Encrypt and strips the padding.
func (c *Cipher) Decrypt(ciphertext, iv []byte) ([]byte, error) {
	blockSize := c.block.BlockSize()

	switch c.mode {
	case ECB, CBC:
		if c.mode == CBC {
			if err := c.checkIV(iv); err != nil {
				return nil, err
			}
		}
		if len(ciphertext) == 0 || len(ciphertext)%blockSize != 0 {
			return nil, fmt.Errorf("%w: %d bytes", ErrNotAligned, len(ciphertext))
		}

		padded := make([]byte, len(ciphertext))
		c.decrypter(iv).CryptBlocks(padded, ciphertext)

		plaintext, err := c.padding.Unpad(padded, blockSize)
		if err != nil {
			return nil, fmt.Errorf("unpad: %w", err)
		}
		return plaintext, nil
	case CTR:
		if err := c.checkIV(iv); err != nil {
			return nil, err
		}
		return c.xorCTR(ciphertext, iv), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrMode, int(c.mode))
	}
}

func (c *Cipher) encrypter(iv []byte) cipher.BlockMode {
	if c.mode == CBC {
		return cipher.NewCBCEncrypter(c.block, iv)
	}
	return NewECBEncrypter(c.block)
}

func (c *Cipher) decrypter(iv []byte) cipher.BlockMode {
	if c.mode == CBC {
		return cipher.NewCBCDecrypter(c.block, iv)
	}
	return NewECBDecrypter(c.block)
}

// xorCTR encrypts successive counter blocks and XORs them into data.
func (c *Cipher) xorCTR(data, nonce []byte) []byte {
	blockSize := c.block.BlockSize()
	out := make([]byte, len(data))
	counter := make([]byte, blockSize)
	copy(counter, nonce)
	keystream := make([]byte, blockSize)

	for pos := 0; pos < len(data); pos += blockSize {
		c.block.Encrypt(keystream, counter)

		end := min(pos+blockSize, len(data))
		for j := pos; j < end; j++ {
			out[j] = data[j] ^ keystream[j-pos]
		}

		incrementCounter(counter)
	}

	return out
}

func incrementCounter(counter []byte) {
	for i := len(counter) - 1; i >= 0; i-- {
		counter[i]++
		if counter[i] != 0 {
			break
		}
	}
}

// GenerateIV returns size random bytes.
func GenerateIV(size int) ([]byte, error) {
	iv := make([]byte, size)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}
	return iv, nil
}

// KeyFromString uses the UTF-8 bytes of s as a key, so "einszweidreivier"
// is an AES-128 key.
func KeyFromString(s string) []byte {
	return []byte(s)
}
