package digest

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// EncodedSize is the length of the fixed-layout binary digest record:
// 32 fingerprint bytes followed by a little-endian 64-bit unsigned size.
const EncodedSize = FingerprintSize + 8

// hexLen is the length of a hex-encoded fingerprint.
const hexLen = FingerprintSize * 2

// FingerprintFromHex parses a 64-character lowercase or uppercase hex string
// into a Fingerprint. Wrong-length or non-hex input is rejected with
// ErrInvalidFingerprint.
func FingerprintFromHex(s string) (Fingerprint, error) {
	var f Fingerprint
	if len(s) != hexLen {
		return f, fmt.Errorf("%w: got %d hex chars", ErrInvalidFingerprint, len(s))
	}
	if _, err := hex.Decode(f[:], []byte(s)); err != nil {
		return Fingerprint{}, fmt.Errorf("%w: %w", ErrInvalidFingerprint, err)
	}
	return f, nil
}

// Hex returns the lowercase hex encoding of the fingerprint.
func (f Fingerprint) Hex() string {
	return hex.EncodeToString(f[:])
}

// String returns the same form as Hex.
func (f Fingerprint) String() string { return f.Hex() }

// MarshalText encodes the fingerprint as lowercase hex, so JSON and other
// text encodings carry it as a 64-character string rather than a byte array.
func (f Fingerprint) MarshalText() ([]byte, error) {
	return []byte(f.Hex()), nil
}

// UnmarshalText decodes a hex-encoded fingerprint.
func (f *Fingerprint) UnmarshalText(text []byte) error {
	parsed, err := FingerprintFromHex(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// String returns "<fingerprint-hex>/<size>".
func (d Digest) String() string {
	return fmt.Sprintf("%s/%d", d.Fingerprint.Hex(), d.SizeBytes)
}

// MarshalBinary encodes the digest as its fixed-layout record: the 32 raw
// fingerprint bytes followed by the size as a little-endian uint64. The
// layout has no padding or version field; any consumer on the other side of
// a process or language boundary must agree on it exactly.
func (d Digest) MarshalBinary() ([]byte, error) {
	out := make([]byte, EncodedSize)
	copy(out, d.Fingerprint[:])
	binary.LittleEndian.PutUint64(out[FingerprintSize:], d.SizeBytes)
	return out, nil
}

// UnmarshalBinary decodes a fixed-layout digest record. Input that is not
// exactly 40 bytes is rejected with ErrInvalidEncoding.
func (d *Digest) UnmarshalBinary(data []byte) error {
	if len(data) != EncodedSize {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidEncoding, len(data))
	}
	copy(d.Fingerprint[:], data[:FingerprintSize])
	d.SizeBytes = binary.LittleEndian.Uint64(data[FingerprintSize:])
	return nil
}
