// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package cache

import (
	"github.com/btcsuite/btcd/bloom"
	"github.com/btcsuite/btcd/wire"
)

// Filter is an approximate-membership test backed by a BIP37 bloom
// filter, standing in for the original implementation's standalone
// bloom-filter crate. Soundness guarantee: Matches never false-negatives
// a key that was Add-ed, but may false-positive on one that wasn't.
type Filter struct {
	filter   *bloom.Filter
	elements uint32
	fpRate   float64
}

// NewFilter builds a Filter sized for elements entries at the given
// false-positive rate.
func NewFilter(elements uint32, fpRate float64) *Filter {
	return &Filter{
		filter:   bloom.NewFilter(elements, 0, fpRate, wire.BloomUpdateNone),
		elements: elements,
		fpRate:   fpRate,
	}
}

// Add records key in the filter.
func (f *Filter) Add(key []byte) {
	f.filter.Add(key)
}

// Matches reports whether key may have been Add-ed. False positives are
// possible; false negatives are not.
func (f *Filter) Matches(key []byte) bool {
	return f.filter.Matches(key)
}

// Reset replaces the filter with a fresh, empty one of the same size and
// false-positive rate.
func (f *Filter) Reset() {
	f.filter = bloom.NewFilter(f.elements, 0, f.fpRate, wire.BloomUpdateNone)
}
