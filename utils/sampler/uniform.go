// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	safemath "github.com/Tommytrg/randomness-registry/utils/math"
)

// Random maps a 256-bit [seed] and a caller-supplied [nonce] to an integer
// uniformly distributed in [0, rang).
//
// Rather than reducing the digest modulo [rang], the digest is masked down
// to flagBits = 255 - msb(rang) bits and scaled: result = (masked * rang) >>
// flagBits. The residual bias is bounded by 2^-flagBits, which for a 32-bit
// range is at most 2^-224. This spends more entropy bits than strictly
// needed in exchange for avoiding modulo bias.
//
// Random is a pure function: identical inputs always produce identical
// outputs. [rang] must be nonzero; Random(0, ...) returns 0.
func Random(rang uint32, nonce uint64, seed common.Hash) uint32 {
	if rang == 0 {
		return 0
	}
	flagBits := uint(255 - safemath.Msb32(rang))

	digest := crypto.Keccak256Hash(seed.Bytes(), packedNonce(nonce))

	number := new(uint256.Int).SetBytes(digest.Bytes())
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), flagBits)
	mask.SubUint64(mask, 1)
	number.And(number, mask)

	// masked < 2^flagBits and rang < 2^(255-flagBits+1), so the product
	// never wraps the 256-bit word.
	number.Mul(number, uint256.NewInt(uint64(rang)))
	number.Rsh(number, flagBits)
	return uint32(number.Uint64())
}

// packedNonce encodes [nonce] as a 32-byte big-endian word, matching how a
// 256-bit integer argument is laid out when hashed on the host ledger.
func packedNonce(nonce uint64) []byte {
	word := make([]byte, common.HashLength)
	binary.BigEndian.PutUint64(word[24:], nonce)
	return word
}
