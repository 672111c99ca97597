package application

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/entity"
)

// Overlapping writers against one identity must serialize: no increment and
// no history entry may be lost.
func TestConcurrentMutationsSerialize(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	const writers = 50

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			item := entity.HistoryItem{ID: "h" + strconv.Itoa(i), Original: strconv.Itoa(i)}
			if _, err := st.AppendHistory(ctx, "u1", item); err != nil {
				t.Errorf("append %d: %v", i, err)
				return
			}
			if _, err := st.IncrementResonanceCount(ctx, "u1"); err != nil {
				t.Errorf("increment %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	d, err := st.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.ResonanceCount != writers {
		t.Errorf("resonance count = %d, want %d (lost increments)", d.ResonanceCount, writers)
	}
	if len(d.History) != writers {
		t.Errorf("history length = %d, want %d (lost appends)", len(d.History), writers)
	}

	seen := map[string]bool{}
	for _, h := range d.History {
		if seen[h.ID] {
			t.Errorf("duplicate history entry %s", h.ID)
		}
		seen[h.ID] = true
	}
}

// Two overlapping profile updates touching different fields must both land:
// one writer sets the name, the other the bio, and neither change is lost.
func TestOverlappingProfileUpdatesKeepBothFields(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	name := "Consciência_Alfa"
	bio := "ressoando em paralelo"

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := st.UpdateProfile(ctx, "u1", ProfilePatch{Name: &name}); err != nil {
			t.Errorf("set name: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if _, err := st.UpdateProfile(ctx, "u1", ProfilePatch{Bio: &bio}); err != nil {
			t.Errorf("set bio: %v", err)
		}
	}()
	wg.Wait()

	d, err := st.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Profile.Name != name {
		t.Errorf("name lost: %q", d.Profile.Name)
	}
	if d.Profile.Bio != bio {
		t.Errorf("bio lost: %q", d.Profile.Bio)
	}
}

// Writers on different identities never block each other's state.
func TestConcurrentMutationsAcrossIdentities(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	const identities = 10
	const perIdentity = 5

	var wg sync.WaitGroup
	for i := 0; i < identities; i++ {
		id := "user" + strconv.Itoa(i)
		for j := 0; j < perIdentity; j++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				if _, err := st.IncrementResonanceCount(ctx, id); err != nil {
					t.Errorf("increment %s: %v", id, err)
				}
			}(id)
		}
	}
	wg.Wait()

	for i := 0; i < identities; i++ {
		id := "user" + strconv.Itoa(i)
		d, err := st.Load(ctx, id)
		if err != nil {
			t.Fatalf("load %s: %v", id, err)
		}
		if d.ResonanceCount != perIdentity {
			t.Errorf("%s count = %d, want %d", id, d.ResonanceCount, perIdentity)
		}
	}
}
