package balloc

// Bitmap has one entry per data block. true means the
// block is available.
type Bitmap []bool

func mkBitmap(n uint32) Bitmap {
	b := make(Bitmap, n)
	for i := range b {
		b[i] = true
	}
	return b
}

func (b Bitmap) setBit(nr int32) {
	b[nr] = false
}

func (b Bitmap) clearBit(nr int32) {
	b[nr] = true
}

// lowest available entry, -1 if none
func (b Bitmap) firstFree() int32 {
	for i, free := range b {
		if free {
			return int32(i)
		}
	}
	return -1
}

// Count walks the whole map. Used by cp's space check and
// by the image checker, never on the allocation path.
func (b Bitmap) Count() uint32 {
	var n uint32
	for _, free := range b {
		if free {
			n++
		}
	}
	return n
}
