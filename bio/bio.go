package bio

// BlockSize is the number of bytes one data block can hold.
// A file is at most inode.NDirect blocks long.
const BlockSize = 1024

// A Block is one slot of the data-block table. Len bytes of
// Data are live, the rest is garbage left over from whatever
// file owned the slot before.
type Block struct {
	Len  uint16
	Data [BlockSize]byte
}

// Bytes returns the live part of the block. The slice
// aliases the block.
func (b *Block) Bytes() []byte {
	return b.Data[:b.Len]
}

// Spare is how many more bytes fit before the block is full
func (b *Block) Spare() int {
	return BlockSize - int(b.Len)
}

// Bappend copies as much of p as fits onto the end of the
// block and returns the count copied. Never fails.
func (b *Block) Bappend(p []byte) int {
	n := copy(b.Data[b.Len:], p)
	b.Len += uint16(n)
	return n
}

// Bcopy makes b a verbatim duplicate of src
func (b *Block) Bcopy(src *Block) {
	b.Len = src.Len
	copy(b.Data[:], src.Data[:src.Len])
}

// Brelse drops the block's contents. The bytes themselves
// are left in place, only the length is reset.
func (b *Block) Brelse() {
	b.Len = 0
}
