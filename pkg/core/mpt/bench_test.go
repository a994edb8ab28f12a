package mpt

import (
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/mptrie/internal/random"
)

func BenchmarkTrie_Put(b *testing.B) {
	b.Run("one", func(b *testing.B) {
		tr := NewTrie(Config{})
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			k, v := uuid.New(), uuid.New()
			if err := tr.Put(k[:], v[:]); err != nil {
				b.Fatal(err)
			}
		}
	})
	for _, n := range []int{1000, 10000} {
		keys, values := random.UUIDPairs(n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			tr := NewTrie(Config{})
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				for j := range keys {
					if err := tr.Put(keys[j], values[j]); err != nil {
						b.Fatal(err)
					}
				}
			}
		})
	}
}

func BenchmarkTrie_Get(b *testing.B) {
	keys, values := random.UUIDPairs(10000)
	tr := NewTrie(Config{})
	for i := range keys {
		if err := tr.Put(keys[i], values[i]); err != nil {
			b.Fatal(err)
		}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v, err := tr.Get(keys[7777])
		if err != nil || v == nil {
			b.Fatal("missing value", err)
		}
	}
}

func BenchmarkTrie_Delete(b *testing.B) {
	for _, n := range []int{1000, 10000} {
		keys, values := random.UUIDPairs(n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				tr := NewTrie(Config{})
				for j := range keys {
					if err := tr.Put(keys[j], values[j]); err != nil {
						b.Fatal(err)
					}
				}
				b.StartTimer()
				for j := range keys {
					if _, err := tr.Delete(keys[j]); err != nil {
						b.Fatal(err)
					}
				}
			}
		})
	}
}

func BenchmarkTrie_Commit(b *testing.B) {
	keys, values := random.UUIDPairs(10000)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		tr := NewTrie(Config{})
		for j := range keys {
			if err := tr.Put(keys[j], values[j]); err != nil {
				b.Fatal(err)
			}
		}
		b.StartTimer()
		if _, err := tr.Commit(); err != nil {
			b.Fatal(err)
		}
	}
}
