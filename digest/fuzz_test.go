package digest

import (
	"testing"
)

// FuzzFingerprintFromBytes verifies the length gate: exactly 32 bytes
// succeeds and round-trips, everything else fails.
func FuzzFingerprintFromBytes(f *testing.F) {
	f.Add([]byte{})
	f.Add(make([]byte, 31))
	f.Add(make([]byte, 32))
	f.Add(make([]byte, 33))

	f.Fuzz(func(t *testing.T, b []byte) {
		fp, err := FingerprintFromBytes(b)
		if len(b) == FingerprintSize {
			if err != nil {
				t.Fatalf("32-byte input rejected: %v", err)
			}
			if got := fp.Bytes(); string(got) != string(b) {
				t.Fatalf("round trip mismatch: %x != %x", got, b)
			}
		} else if err == nil {
			t.Fatalf("accepted %d-byte input", len(b))
		}
	})
}

// FuzzDigestBinaryRoundTrip verifies UnmarshalBinary accepts exactly the
// 40-byte fixed layout and that accepted records round-trip.
func FuzzDigestBinaryRoundTrip(f *testing.F) {
	f.Add(make([]byte, 40))
	f.Add(make([]byte, 39))
	f.Add(make([]byte, 41))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		var d Digest
		err := d.UnmarshalBinary(data)
		if len(data) != EncodedSize {
			if err == nil {
				t.Fatalf("accepted %d-byte record", len(data))
			}
			return
		}
		if err != nil {
			t.Fatalf("rejected 40-byte record: %v", err)
		}
		out, err := d.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != string(data) {
			t.Fatalf("round trip mismatch: %x != %x", out, data)
		}
	})
}
