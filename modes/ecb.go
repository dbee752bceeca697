package modes

import "crypto/cipher"

// ecb satisfies cipher.BlockMode by encrypting every block on its own.
type ecb struct {
	block cipher.Block
	size  int
}

type ecbEncrypter ecb

func NewECBEncrypter(block cipher.Block) cipher.BlockMode {
	return &ecbEncrypter{block, block.BlockSize()}
}

func (e *ecbEncrypter) BlockSize() int { return e.size }

func (e *ecbEncrypter) CryptBlocks(dst, src []byte) {
	if len(src)%e.size != 0 {
		panic("modes: input not full blocks")
	}
	if len(dst) < len(src) {
		panic("modes: output smaller than input")
	}

	for len(src) > 0 {
		e.block.Encrypt(dst, src[:e.size])
		src = src[e.size:]
		dst = dst[e.size:]
	}
}

type ecbDecrypter ecb

func NewECBDecrypter(block cipher.Block) cipher.BlockMode {
	return &ecbDecrypter{block, block.BlockSize()}
}

func (d *ecbDecrypter) BlockSize() int { return d.size }

func (d *ecbDecrypter) CryptBlocks(dst, src []byte) {
	if len(src)%d.size != 0 {
		panic("modes: input not full blocks")
	}
	if len(dst) < len(src) {
		panic("modes: output smaller than input")
	}

	for len(src) > 0 {
		d.block.Decrypt(dst, src[:d.size])
		src = src[d.size:]
		dst = dst[d.size:]
	}
}
