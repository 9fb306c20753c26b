package dma_test

import (
	"bytes"
	"testing"

	"github.com/imx8mq/dcss/dma"
)

func TestAllocAlignment(t *testing.T) {
	a, err := dma.Alloc(1)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Release()
	b, err := dma.Alloc(dma.Alignment + 1)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	if a.Addr()%dma.Alignment != 0 || b.Addr()%dma.Alignment != 0 {
		t.Errorf("unaligned addresses %#x, %#x", a.Addr(), b.Addr())
	}
	if a.Size() != dma.Alignment || b.Size() != 2*dma.Alignment {
		t.Errorf("sizes not rounded to the granule: %d, %d", a.Size(), b.Size())
	}
}

// A device must only see CPU writes after they were written back.
func TestWritebackPublishes(t *testing.T) {
	b, err := dma.Alloc(64)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	msg := []byte("coherency is not optional")
	copy(b.Bytes(), msg)

	got := make([]byte, len(msg))
	if err := dma.Observe(b.Addr(), got); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(got, msg) {
		t.Fatal("device observed CPU writes before writeback")
	}

	b.WritebackAll()
	if err := dma.Observe(b.Addr(), got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, msg) {
		t.Fatalf("device observed %q, want %q", got, msg)
	}
}

func TestObserveOutsideAllocation(t *testing.T) {
	b, err := dma.Alloc(64)
	if err != nil {
		t.Fatal(err)
	}

	p := make([]byte, 8)
	if err := dma.Observe(b.Addr()+64, p); err == nil {
		t.Error("read past the end of an allocation succeeded")
	}

	b.Release()
	if err := dma.Observe(b.Addr(), p); err == nil {
		t.Error("read from a released allocation succeeded")
	}
}
