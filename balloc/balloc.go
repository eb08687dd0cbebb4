package balloc

import (
	"fmt"

	"slotfs/errs"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("balloc")

// Balloc owns the data-block free list and the count of
// free blocks. Fields are exported so the image encoder
// can see them; touch them only through the methods.
type Balloc struct {
	Free  Bitmap
	Nfree uint32
}

func MkBalloc(nblocks uint32) Balloc {
	return Balloc{
		Free:  mkBitmap(nblocks),
		Nfree: nblocks,
	}
}

// AllocBlock always hands out the lowest numbered free
// block. Fails with ErrNoSpace once the table is used up.
func (b *Balloc) AllocBlock() (int32, error) {
	bn := b.Free.firstFree()
	if bn < 0 {
		return -1, fmt.Errorf("no free data blocks: %w", errs.ErrNoSpace)
	}
	b.Free.setBit(bn)
	b.Nfree--
	log.Debugf("alloc block %d, %d left", bn, b.Nfree)
	return bn, nil
}

// RelseBlock puts bn back on the free list. Callers must
// not release a block twice; if they do it is logged and
// ignored so the free count stays honest.
func (b *Balloc) RelseBlock(bn int32) {
	if bn < 0 || int(bn) >= len(b.Free) {
		log.Errorf("illegal block to relse: %d", bn)
		return
	}
	if b.Free[bn] {
		log.Warnf("double free of block %d", bn)
		return
	}
	b.Free.clearBit(bn)
	b.Nfree++
}
