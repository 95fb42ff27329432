// Package gui is the frame orchestrator: widget identity, the
// persistent interaction memory, the layout cursor and the Context
// tying input, painting and tessellation into one frame call.
package gui

import "strconv"

// Id is the stable fingerprint of a widget slot. The same widget in
// the same logical place computes the same Id every frame; siblings
// in one frame must differ. Ids are built by folding discriminators
// (labels, loop indices, salts) into a parent scope's Id, so "Ok"
// inside panel A and "Ok" inside panel B stay distinct.
type Id uint64

// FNV-1a, 64 bit.
const (
	idOffset = 14695981039346656037
	idPrime  = 1099511628211
)

// RootId seeds a Context's Id scope.
const RootId Id = idOffset

// WithString folds a label into the Id.
func (id Id) WithString(s string) Id {
	h := uint64(id)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= idPrime
	}
	// An extra fold keeps WithString("ab") apart from
	// WithString("a")+WithString("b").
	h ^= uint64(len(s))
	h *= idPrime
	return Id(h)
}

// WithInt folds a loop index or key into the Id. Callers creating
// widgets in a loop over identical labels must fold the index, or the
// duplicates collide (a documented footgun, detected in debug mode).
func (id Id) WithInt(i int) Id {
	h := uint64(id)
	v := uint64(i)
	for b := 0; b < 8; b++ {
		h ^= (v >> (8 * b)) & 0xff
		h *= idPrime
	}
	return Id(h)
}

func (id Id) String() string { return "Id(" + strconv.FormatUint(uint64(id), 16) + ")" }
