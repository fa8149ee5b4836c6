package benchmarks

import (
	"path/filepath"
	"testing"

	"github.com/randalmurphal/objwrap/pkg/objwrap"
	"github.com/randalmurphal/objwrap/pkg/objwrap/snapshot"
)

// BenchmarkCapture measures capturing a wrapper into a record.
func BenchmarkCapture(b *testing.B) {
	w := objwrap.New(createData(1000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = snapshot.Capture(w, "bench")
	}
}

// BenchmarkRestore measures rebuilding a wrapper from a record.
func BenchmarkRestore(b *testing.B) {
	r, err := snapshot.Capture(objwrap.New(createData(1000)), "bench")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = snapshot.Restore[string](r)
	}
}

// BenchmarkMemoryStore_Save measures in-memory snapshot save.
func BenchmarkMemoryStore_Save(b *testing.B) {
	store := snapshot.NewMemoryStore()
	data := mustMarshal(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save("bench", "snap-1", data)
	}
}

// BenchmarkSQLiteStore_Save measures SQLite snapshot save.
func BenchmarkSQLiteStore_Save(b *testing.B) {
	store := createSQLiteStore(b)
	data := mustMarshal(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save("bench", "snap-1", data)
	}
}

// BenchmarkSQLiteStore_Latest measures loading the newest snapshot.
func BenchmarkSQLiteStore_Latest(b *testing.B) {
	store := createSQLiteStore(b)
	_ = store.Save("bench", "snap-1", mustMarshal(b))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Latest("bench")
	}
}

func mustMarshal(b *testing.B) []byte {
	b.Helper()
	r, err := snapshot.Capture(objwrap.New(createData(100)), "bench")
	if err != nil {
		b.Fatal(err)
	}
	data, err := r.Marshal()
	if err != nil {
		b.Fatal(err)
	}
	return data
}

func createSQLiteStore(b *testing.B) *snapshot.SQLiteStore {
	b.Helper()
	store, err := snapshot.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = store.Close() })
	return store
}
