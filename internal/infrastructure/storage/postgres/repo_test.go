package postgres

import (
	"context"
	"os"
	"reflect"
	"testing"

	"xprem/internal/domain"
)

func TestPostgresRepoRoundTrip(t *testing.T) {
	dsn := os.Getenv("XPREM_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("XPREM_TEST_PG_DSN not set")
	}
	repo, err := New(dsn)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	key := "xprem:prefs:test|" + t.Name()
	t.Cleanup(func() { _, _ = repo.db.Exec(`DELETE FROM preferences WHERE pair_key=$1`, key) })

	want := domain.Preferences{Pinned: []string{"BTC"}, Open: []string{"BTC"}}
	if err := repo.Save(ctx, key, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := repo.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
