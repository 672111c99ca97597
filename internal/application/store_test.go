package application

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/entity"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/infrastructure/memory"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/apperrors"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestStore(t *testing.T) (*Store, *memory.DataBackend) {
	t.Helper()
	backend := memory.NewDataBackend()
	return NewStore(backend, nil, testLogger(), time.Minute), backend
}

func TestLoadSynthesizesAndPersistsDefaults(t *testing.T) {
	st, backend := newTestStore(t)
	ctx := context.Background()

	d, err := st.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if d.Profile.Name != "Consciência_Original" {
		t.Errorf("default profile name = %q", d.Profile.Name)
	}
	if !d.Settings.IsPublic || !d.Settings.AllowMessages || !d.Settings.AllowGroups || !d.Settings.AllowDynastyInvites {
		t.Errorf("default settings should be all enabled: %+v", d.Settings)
	}
	if d.ResonanceCount != 0 || len(d.History) != 0 || len(d.Gallery) != 0 {
		t.Errorf("default aggregate should be empty: %+v", d)
	}
	if backend.Len() != 1 {
		t.Fatalf("first load must persist the defaults, backend has %d docs", backend.Len())
	}

	again, err := st.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if again.Profile.Name != d.Profile.Name || again.LastActive != d.LastActive {
		t.Errorf("second load returned a different aggregate")
	}
}

func TestSaveShallowMerge(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	item := entity.HistoryItem{ID: "h1", Original: "primeiro"}
	if _, err := st.AppendHistory(ctx, "u1", item); err != nil {
		t.Fatalf("append history: %v", err)
	}

	profile := entity.UserProfile{Name: "Nova_Consciência", Bio: "renomeada"}
	d, err := st.Save(ctx, "u1", Patch{Profile: &profile})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if d.Profile.Name != "Nova_Consciência" {
		t.Errorf("profile not replaced: %q", d.Profile.Name)
	}
	if d.Profile.AvatarURL != "" {
		t.Errorf("profile merge must replace wholesale, avatar survived: %q", d.Profile.AvatarURL)
	}
	if len(d.History) != 1 || d.History[0].ID != "h1" {
		t.Errorf("untouched history field was modified: %+v", d.History)
	}
	if !d.Settings.IsPublic {
		t.Errorf("untouched settings field was modified")
	}
}

func TestSaveStampsLastActive(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return fixed }

	set := entity.UserSettings{IsPublic: false}
	d, err := st.Save(ctx, "u1", Patch{Settings: &set})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if d.LastActive != fixed.UnixMilli() {
		t.Errorf("lastActive = %d, want %d", d.LastActive, fixed.UnixMilli())
	}
	if d.Settings.IsPublic {
		t.Errorf("settings not replaced")
	}
}

func TestSaveClearsDynasty(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := st.FoundDynasty(ctx, "u1", "Casa Alfa", "ressoar juntos", "", "", true); err != nil {
		t.Fatalf("found dynasty: %v", err)
	}

	var cleared *entity.Dynasty
	d, err := st.Save(ctx, "u1", Patch{Dynasty: &cleared})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if d.Dynasty != nil {
		t.Errorf("dynasty should be cleared, got %+v", d.Dynasty)
	}
}

func TestAppendHistoryCapAndOrder(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	total := entity.MaxHistoryItems + 5
	for i := 0; i < total; i++ {
		item := entity.HistoryItem{ID: "h" + strconv.Itoa(i), Original: strconv.Itoa(i)}
		if _, err := st.AppendHistory(ctx, "u1", item); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	d, err := st.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(d.History) != entity.MaxHistoryItems {
		t.Fatalf("history length = %d, want %d", len(d.History), entity.MaxHistoryItems)
	}
	if d.History[0].Original != strconv.Itoa(total-1) {
		t.Errorf("newest entry should be first, got %q", d.History[0].Original)
	}
	if d.History[len(d.History)-1].Original != strconv.Itoa(total-entity.MaxHistoryItems) {
		t.Errorf("oldest surviving entry = %q", d.History[len(d.History)-1].Original)
	}
}

func TestIncrementResonanceCount(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		n, err := st.IncrementResonanceCount(ctx, "u1")
		if err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
		if n != i {
			t.Errorf("count after %d increments = %d", i, n)
		}
	}

	d, _ := st.Load(ctx, "u1")
	if d.ResonanceCount != 5 {
		t.Errorf("persisted count = %d, want 5", d.ResonanceCount)
	}
}

func TestPurgeResetsToDefaults(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	profile := entity.UserProfile{Name: "Marcada"}
	if _, err := st.Save(ctx, "u1", Patch{Profile: &profile}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := st.IncrementResonanceCount(ctx, "u1"); err != nil {
		t.Fatalf("increment: %v", err)
	}

	if err := st.Purge(ctx, "u1"); err != nil {
		t.Fatalf("purge: %v", err)
	}

	d, err := st.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load after purge: %v", err)
	}
	if d.Profile.Name != "Consciência_Original" || d.ResonanceCount != 0 {
		t.Errorf("purge should reset to defaults, got name=%q count=%d", d.Profile.Name, d.ResonanceCount)
	}
}

func TestBackendUnreachable(t *testing.T) {
	st, backend := newTestStore(t)
	ctx := context.Background()

	if _, err := st.Load(ctx, "u1"); err != nil {
		t.Fatalf("seed load: %v", err)
	}

	backend.FailNext = true
	_, err := st.Load(ctx, "u1")
	if err == nil {
		t.Fatal("expected failure")
	}
	if apperrors.KindOf(err) != apperrors.KindUnreachable {
		t.Errorf("kind = %q, want %q", apperrors.KindOf(err), apperrors.KindUnreachable)
	}

	// One-shot failure: the record is still intact afterwards.
	d, err := st.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load after failure: %v", err)
	}
	if d.Profile.Name != "Consciência_Original" {
		t.Errorf("record corrupted after transient failure")
	}
}

func TestMalformedRecord(t *testing.T) {
	st, backend := newTestStore(t)
	ctx := context.Background()

	backend.SetRaw("u1", []byte("{not json"))
	_, err := st.Load(ctx, "u1")
	if err == nil {
		t.Fatal("expected decode failure")
	}
	if apperrors.KindOf(err) != apperrors.KindMalformed {
		t.Errorf("kind = %q, want %q", apperrors.KindOf(err), apperrors.KindMalformed)
	}
}

func TestRedisMirror(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	backend := memory.NewDataBackend()
	st := NewStore(backend, rdb, testLogger(), time.Minute)
	ctx := context.Background()

	profile := entity.UserProfile{Name: "Espelhada"}
	if _, err := st.Save(ctx, "u1", Patch{Profile: &profile}); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := mr.Get("userdata:u1")
	if err != nil {
		t.Fatalf("mirror key missing: %v", err)
	}
	var mirrored entity.UserData
	if err := json.Unmarshal([]byte(raw), &mirrored); err != nil {
		t.Fatalf("mirror decode: %v", err)
	}
	if mirrored.Profile.Name != "Espelhada" {
		t.Errorf("mirror holds stale profile: %q", mirrored.Profile.Name)
	}

	if err := st.Purge(ctx, "u1"); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if mr.Exists("userdata:u1") {
		t.Errorf("mirror key should be deleted on purge")
	}
}

func TestMirrorFailureDoesNotFailSave(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	backend := memory.NewDataBackend()
	st := NewStore(backend, rdb, testLogger(), time.Minute)
	ctx := context.Background()

	mr.Close() // mirror is now unreachable

	profile := entity.UserProfile{Name: "Durável"}
	d, err := st.Save(ctx, "u1", Patch{Profile: &profile})
	if err != nil {
		t.Fatalf("save must survive a dead mirror: %v", err)
	}
	if d.Profile.Name != "Durável" {
		t.Errorf("durable write lost: %q", d.Profile.Name)
	}
}

func TestUpdateProfileMergesFields(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	name := "Consciência_Alfa"
	if _, err := st.UpdateProfile(ctx, "u1", ProfilePatch{Name: &name}); err != nil {
		t.Fatalf("set name: %v", err)
	}

	bio := "nova bio"
	d, err := st.UpdateProfile(ctx, "u1", ProfilePatch{Bio: &bio})
	if err != nil {
		t.Fatalf("set bio: %v", err)
	}
	if d.Profile.Name != "Consciência_Alfa" {
		t.Errorf("bio-only update wiped the name: %q", d.Profile.Name)
	}
	if d.Profile.Bio != "nova bio" {
		t.Errorf("bio = %q", d.Profile.Bio)
	}
	if d.Profile.AvatarURL == "" {
		t.Errorf("bio-only update wiped the avatar")
	}
}

func TestUpdateSettingsMergesFields(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	private := false
	d, err := st.UpdateSettings(ctx, "u1", SettingsPatch{IsPublic: &private})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if d.Settings.IsPublic {
		t.Errorf("isPublic not applied")
	}
	if !d.Settings.AllowMessages || !d.Settings.AllowGroups || !d.Settings.AllowDynastyInvites {
		t.Errorf("untouched toggles were reset: %+v", d.Settings)
	}
}

func TestPeekNeverCreates(t *testing.T) {
	st, backend := newTestStore(t)
	ctx := context.Background()

	if _, err := st.Peek(ctx, "ghost"); !apperrors.IsNotFound(err) {
		t.Fatalf("peek of unknown id: %v, want not-found", err)
	}
	if backend.Len() != 0 {
		t.Fatalf("peek minted a record, backend has %d docs", backend.Len())
	}

	if _, err := st.Load(ctx, "u1"); err != nil {
		t.Fatalf("load: %v", err)
	}
	d, err := st.Peek(ctx, "u1")
	if err != nil {
		t.Fatalf("peek of stored id: %v", err)
	}
	if d.Profile.Name != "Consciência_Original" {
		t.Errorf("peek returned a different aggregate")
	}
}

func TestMutateNoopPatch(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	d, err := st.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	before := d.LastActive

	got, err := st.Mutate(ctx, "u1", func(d *entity.UserData) (Patch, error) {
		return Patch{}, nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if got.LastActive != before {
		t.Errorf("zero patch must not persist, lastActive moved %d -> %d", before, got.LastActive)
	}
}
