// Package jrnl gives multi-step operations an all-or-nothing
// mode. It is an in-memory undo log only: nothing is
// written anywhere, and a crash loses the same as it would
// without it.
package jrnl

import (
	"slotfs/image"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("jrnl")

// TxnHandle holds the image as it was when the transaction
// began. A nil handle is valid and does nothing, which is
// what callers get when transactions are switched off.
type TxnHandle struct {
	img  *image.Image
	snap *image.Image
	done bool
}

func BeginTransaction(img *image.Image) *TxnHandle {
	log.Debugf("begin transaction over %d slots", img.Capacity)
	return &TxnHandle{
		img:  img,
		snap: img.Clone(),
	}
}

// EndTransaction keeps every change made since begin
func (t *TxnHandle) EndTransaction() {
	if t == nil || t.done {
		return
	}
	t.done = true
	t.snap = nil
}

// AbortTransaction puts the image back the way it was at
// begin. Aborting a finished transaction is a no-op.
func (t *TxnHandle) AbortTransaction() {
	if t == nil || t.done {
		return
	}
	log.Debugf("aborting transaction")
	t.img.Restore(t.snap)
	t.done = true
	t.snap = nil
}

// Finish ends the transaction if *errp is nil and aborts it
// otherwise. Meant for defer.
func (t *TxnHandle) Finish(errp *error) {
	if *errp != nil {
		t.AbortTransaction()
		return
	}
	t.EndTransaction()
}
