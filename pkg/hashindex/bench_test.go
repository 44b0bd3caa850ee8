package hashindex

import (
	"encoding/binary"
	"testing"
)

func BenchmarkSet(b *testing.B) {
	idx := newTestIndex(b)
	defer idx.Free()

	key := make([]byte, 32)
	value := make([]byte, 12)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		binary.LittleEndian.PutUint32(key[:4], uint32(i))
		binary.LittleEndian.PutUint32(value[:4], uint32(i+1))

		if err := idx.Set(key, value); err != nil {
			b.Fatalf("Set: %v", err)
		}
	}
}

func BenchmarkGetHit(b *testing.B) {
	idx := newTestIndex(b)
	defer idx.Free()

	key := make([]byte, 32)
	value := make([]byte, 12)

	const entries = 100_000

	for i := 0; i < entries; i++ {
		binary.LittleEndian.PutUint32(key[:4], uint32(i))
		binary.LittleEndian.PutUint32(value[:4], uint32(i+1))

		if err := idx.Set(key, value); err != nil {
			b.Fatalf("Set: %v", err)
		}
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		binary.LittleEndian.PutUint32(key[:4], uint32(i%entries))

		if _, found := idx.Get(key); !found {
			b.Fatal("miss on a present key")
		}
	}
}

func BenchmarkGetMiss(b *testing.B) {
	idx := newTestIndex(b)
	defer idx.Free()

	key := make([]byte, 32)
	value := make([]byte, 12)

	const entries = 100_000

	for i := 0; i < entries; i++ {
		binary.LittleEndian.PutUint32(key[:4], uint32(i))
		binary.LittleEndian.PutUint32(value[:4], uint32(i+1))

		if err := idx.Set(key, value); err != nil {
			b.Fatalf("Set: %v", err)
		}
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		binary.LittleEndian.PutUint32(key[:4], uint32(entries+i))

		if _, found := idx.Get(key); found {
			b.Fatal("hit on an absent key")
		}
	}
}
