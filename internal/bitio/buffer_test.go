package bitio

import (
	"math/rand"
	"testing"
)

func TestPushPullRoundTrip(t *testing.T) {
	for n := 1; n <= 8; n++ {
		b := New()
		want := byte(1<<uint(n) - 1)
		b.Push(uint32(want), n)
		b.Finish()
		rb := NewFromBytes(b.Bytes())
		got, err := rb.Pull(n)
		if err != nil {
			t.Fatalf("Pull(%d): %v", n, err)
		}
		if byte(got) != want {
			t.Errorf("Pull(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestPushPullArbitraryInterleaving(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := New()
	var widths []int
	var values []uint32
	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(8)
		v := uint32(rng.Intn(1 << uint(n)))
		widths = append(widths, n)
		values = append(values, v)
		b.Push(v, n)
	}
	b.Finish()

	rb := NewFromBytes(b.Bytes())
	for i, n := range widths {
		got, err := rb.Pull(n)
		if err != nil {
			t.Fatalf("field %d: Pull(%d): %v", i, n, err)
		}
		if got != values[i] {
			t.Errorf("field %d: Pull(%d) = %d, want %d", i, n, got, values[i])
		}
	}
}

func TestPullUnderflow(t *testing.T) {
	b := New()
	b.Push(0x3, 2)
	b.Finish()
	rb := NewFromBytes(b.Bytes())
	if _, err := rb.Pull(8); err != nil {
		t.Fatalf("Pull(8) on padded byte: %v", err)
	}
	if _, err := rb.Pull(1); err != ErrUnderflow {
		t.Errorf("Pull past end = %v, want ErrUnderflow", err)
	}
}

func TestFinishPadsWithZeros(t *testing.T) {
	b := New()
	b.Push(0x1, 1) // single 1 bit
	b.Finish()
	got := b.Bytes()
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0] != 0x80 {
		t.Errorf("byte = %08b, want 10000000", got[0])
	}
}

func TestBitLenBeforeFinish(t *testing.T) {
	b := New()
	b.Push(0xff, 8)
	b.Push(0x1, 3)
	if b.BitLen() != 11 {
		t.Errorf("BitLen() = %d, want 11", b.BitLen())
	}
	b.Finish()
	if len(b.Bytes()) != 2 {
		t.Errorf("len(Bytes()) = %d, want 2", len(b.Bytes()))
	}
}

func TestCrossByteField(t *testing.T) {
	b := New()
	b.Push(0xaa, 8) // 10101010
	b.Push(0x5, 4)  // 0101, straddles byte boundary
	b.Finish()

	rb := NewFromBytes(b.Bytes())
	v1, _ := rb.Pull(8)
	v2, _ := rb.Pull(4)
	if v1 != 0xaa || v2 != 0x5 {
		t.Errorf("got %x,%x want aa,5", v1, v2)
	}
}

func TestPooledRoundTrip(t *testing.T) {
	b := NewPooled(16)
	b.Push(0x3, 2)
	b.Push(0x7f, 7)
	b.Finish()

	rb := NewFromBytes(b.Bytes())
	v1, _ := rb.Pull(2)
	v2, _ := rb.Pull(7)
	if v1 != 0x3 || v2 != 0x7f {
		t.Errorf("got %x,%x want 3,7f", v1, v2)
	}
	b.Release()
}
