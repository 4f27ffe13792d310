package encoding

import "testing"

func TestRLE_RoundTrip(t *testing.T) {
	in := make([]uint16, 0, 200)
	in = append(in, 1, 1, 1, 2, 2, 3)
	for i := 0; i < 50; i++ {
		in = append(in, 7)
	}
	in = append(in, 9, 10, 10, 10, 0xFFFF)

	out, err := DecodeRLE(EncodeRLE(in), len(in))
	if err != nil {
		t.Fatalf("DecodeRLE: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len mismatch: got %d want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("mismatch at %d: got %d want %d", i, out[i], in[i])
		}
	}
}

func TestRLE_RejectsWrongLength(t *testing.T) {
	enc := EncodeRLE([]uint16{4, 4, 4, 4})
	if _, err := DecodeRLE(enc, 3); err == nil {
		t.Fatalf("expected error for overlong input")
	}
	if _, err := DecodeRLE(enc, 5); err == nil {
		t.Fatalf("expected error for short input")
	}
	if _, err := DecodeRLE("not base64!", 1); err == nil {
		t.Fatalf("expected base64 error")
	}
}

func TestRLE_Empty(t *testing.T) {
	out, err := DecodeRLE(EncodeRLE(nil), 0)
	if err != nil || len(out) != 0 {
		t.Fatalf("out=%v err=%v", out, err)
	}
}

func TestRLE_LargeWantDoesNotPreallocate(t *testing.T) {
	enc := EncodeRLE([]uint16{1, 1})
	if _, err := DecodeRLE(enc, 1<<62); err == nil {
		t.Fatalf("expected short input error")
	}
	if _, err := DecodeRLE(enc, -1); err == nil {
		t.Fatalf("expected error for negative length")
	}
}
