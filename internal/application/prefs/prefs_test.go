package prefs

import (
	"context"
	"errors"
	"slices"
	"testing"

	"xprem/internal/domain"
)

func pinned(s *State, t string) bool { return slices.Contains(s.Snapshot().Pinned, t) }

func muted(s *State, t string) bool { return slices.Contains(s.Snapshot().Muted, t) }

func TestPinUnmutes(t *testing.T) {
	s := NewState()
	s.ToggleMute("BTC")
	s.TogglePin("BTC")
	if !pinned(s, "BTC") || muted(s, "BTC") {
		t.Fatal("pinning a muted ticker must unmute it")
	}
}

func TestMuteUnpinsAndCollapses(t *testing.T) {
	s := NewState()
	s.TogglePin("ETH")
	s.ToggleExpand("ETH")
	if !s.IsOpen("ETH") {
		t.Fatal("pinned ticker should expand")
	}
	s.ToggleMute("ETH")
	if pinned(s, "ETH") || s.IsOpen("ETH") || !muted(s, "ETH") {
		t.Fatalf("mute must unpin and collapse: %+v", s.Snapshot())
	}
	s.ToggleMute("ETH")
	if muted(s, "ETH") {
		t.Fatal("second mute toggle unmutes")
	}
}

func TestExpandRequiresPin(t *testing.T) {
	s := NewState()
	s.ToggleExpand("XRP")
	if s.IsOpen("XRP") {
		t.Fatal("expand is a no-op for unpinned tickers")
	}
	s.TogglePin("XRP")
	s.ToggleExpand("XRP")
	s.TogglePin("XRP")
	if s.IsOpen("XRP") {
		t.Fatal("unpin must collapse")
	}
}

func TestResetAndSnapshot(t *testing.T) {
	s := NewState()
	s.TogglePin("B")
	s.TogglePin("A")
	s.ToggleExpand("A")
	s.ToggleMute("C")
	snap := s.Snapshot()
	if !slices.Equal(snap.Pinned, []string{"A", "B"}) || !slices.Equal(snap.Open, []string{"A"}) || !slices.Equal(snap.Muted, []string{"C"}) {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	s.Reset()
	if !s.Snapshot().Empty() {
		t.Fatal("reset clears all sets")
	}
	s.Restore(snap)
	if !s.IsOpen("A") || !muted(s, "C") {
		t.Fatal("restore brings sets back")
	}
}

type memStore struct {
	data    map[string]domain.Preferences
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load(_ context.Context, key string) (domain.Preferences, error) {
	if m.loadErr != nil {
		return domain.Preferences{}, m.loadErr
	}
	return m.data[key], nil
}

func (m *memStore) Save(_ context.Context, key string, p domain.Preferences) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = p
	return nil
}

func TestKeeperSavesOnlyWhenArmed(t *testing.T) {
	st := &memStore{data: map[string]domain.Preferences{"k1": {Pinned: []string{"BTC"}}}}
	k := NewKeeper(st)
	ctx := context.Background()

	p := k.Switch(ctx, "k1")
	if !slices.Equal(p.Pinned, []string{"BTC"}) {
		t.Fatalf("loaded %+v", p)
	}
	k.Save(ctx, domain.Preferences{Pinned: []string{"STALE"}})
	if st.saves != 0 {
		t.Fatal("must not save before Arm")
	}
	k.Arm()
	k.Save(ctx, domain.Preferences{Pinned: []string{"ETH"}})
	if st.saves != 1 || !slices.Equal(st.data["k1"].Pinned, []string{"ETH"}) {
		t.Fatalf("armed save failed: %+v", st.data)
	}

	k.Switch(ctx, "k2")
	k.Save(ctx, domain.Preferences{Pinned: []string{"X"}})
	if _, ok := st.data["k2"]; ok || st.saves != 1 {
		t.Fatal("switch disarms: no write for the new key until armed")
	}
}

func TestKeeperToleratesStorageFailure(t *testing.T) {
	st := &memStore{data: map[string]domain.Preferences{}, loadErr: errors.New("down"), saveErr: errors.New("down")}
	k := NewKeeper(st)
	if p := k.Switch(context.Background(), "k"); !p.Empty() {
		t.Fatal("failed load yields empty preferences")
	}
	k.Arm()
	k.Save(context.Background(), domain.Preferences{Muted: []string{"A"}})
	if st.saves != 1 {
		t.Fatal("save attempted once")
	}
}
