/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package entity

import (
	"sync"
	"time"
)

// Do NOT change these after a server has started generating UIDs, or you
// risk streaks of duplicate UIDs.
const (
	// uidTimecodeMultiplier scales seconds to 100-microsecond units.
	uidTimecodeMultiplier = 10000
	// uidTimecodeCharset is base 58 with "I", "l", "O", and "S" left out so
	// time codes read unambiguously regardless of font.
	uidTimecodeCharset = "0123456789aAbBcCdDeEfFgGhHijJkKLmM" +
		"nNopPqQrRstTuUvVwWxXyYzZ"
)

var (
	uidMu sync.Mutex
	// uidTimecode is shared by every entity type issuing UIDs in the
	// process, because the visible timecode space is shared.
	uidTimecode uint64
)

// MakeUID mints a new UID of the form "C-TTTTTTTT", where C is the type
// code and T is the current time code (for example "E-6jQZ4zvH").  The
// counter is bumped by at least 1 on every call and clamped to the scaled
// clock whenever the clock has advanced further, so UIDs are strictly
// monotonic and collision-free even within one clock tick.
func MakeUID(code string) string {
	uidMu.Lock()
	defer uidMu.Unlock()

	bigTime := uint64(time.Now().UnixMicro()) / (1000000 / uidTimecodeMultiplier)
	if bigTime > uidTimecode {
		uidTimecode = bigTime
	} else {
		uidTimecode++
	}
	return code + "-" + encodeTimecode(uidTimecode)
}

func encodeTimecode(n uint64) string {
	base := uint64(len(uidTimecodeCharset))
	if n == 0 {
		return string(uidTimecodeCharset[0])
	}
	var digits []byte
	for n > 0 {
		digits = append(digits, uidTimecodeCharset[n%base])
		n /= base
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
