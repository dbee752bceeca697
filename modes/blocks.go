package modes

// Blocks splits data into size-byte slices; the last one may be shorter.
// The slices share data's backing array.
func Blocks(data []byte, size int) [][]byte {
	if size <= 0 {
		return nil
	}

	blocks := make([][]byte, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		blocks = append(blocks, data[start:min(start+size, len(data))])
	}
	return blocks
}

// RepeatedBlocks counts blocks that equal an earlier block. A non-zero count
// for ordinary ciphertext is the ECB pattern leak.
func RepeatedBlocks(ciphertext []byte, size int) int {
	seen := make(map[string]struct{})
	repeats := 0
	for _, b := range Blocks(ciphertext, size) {
		if _, ok := seen[string(b)]; ok {
			repeats++
			continue
		}
		seen[string(b)] = struct{}{}
	}
	return repeats
}
