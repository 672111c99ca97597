package application

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/entity"
)

func mediaFiles(n int) []entity.MediaFile {
	out := make([]entity.MediaFile, n)
	for i := range out {
		out[i] = entity.MediaFile{URL: "data:image/png;base64,AA" + strconv.Itoa(i), Type: entity.MediaImage}
	}
	return out
}

func TestCreateGalleryPostTruncatesMedia(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	post, err := st.CreateGalleryPost(ctx, "u1", "muitas fotos", mediaFiles(entity.MaxMediaPerPost+3), entity.EchoProfile{Name: "Alfa"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if len(post.Item.Media) != entity.MaxMediaPerPost {
		t.Errorf("media kept = %d, want %d", len(post.Item.Media), entity.MaxMediaPerPost)
	}
	if post.Dropped != 3 {
		t.Errorf("dropped = %d, want 3", post.Dropped)
	}
	// The first items survive, extras fall off the end.
	if post.Item.Media[0].URL != mediaFiles(1)[0].URL {
		t.Errorf("truncation changed media order")
	}
}

func TestCreateGalleryPostRequiresMedia(t *testing.T) {
	st, _ := newTestStore(t)

	_, err := st.CreateGalleryPost(context.Background(), "u1", "sem mídia", nil, entity.EchoProfile{})
	if !errors.Is(err, ErrNoMedia) {
		t.Errorf("err = %v, want ErrNoMedia", err)
	}
}

func TestGalleryOrderNewestFirst(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	first, _ := st.CreateGalleryPost(ctx, "u1", "primeiro", mediaFiles(1), entity.EchoProfile{})
	second, _ := st.CreateGalleryPost(ctx, "u1", "segundo", mediaFiles(1), entity.EchoProfile{})

	d, err := st.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(d.Gallery) != 2 {
		t.Fatalf("gallery length = %d", len(d.Gallery))
	}
	if d.Gallery[0].ID != second.Item.ID || d.Gallery[1].ID != first.Item.ID {
		t.Errorf("gallery not newest first")
	}
}

func TestAddComment(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	post, _ := st.CreateGalleryPost(ctx, "u1", "comente", mediaFiles(1), entity.EchoProfile{})

	c, err := st.AddComment(ctx, "u1", post.Item.ID, "Beta", "ressoei com isso")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if c.UserName != "Beta" || c.ID == "" {
		t.Errorf("bad comment: %+v", c)
	}

	d, _ := st.Load(ctx, "u1")
	if len(d.Gallery[0].Comments) != 1 || d.Gallery[0].Comments[0].Text != "ressoei com isso" {
		t.Errorf("comment not persisted: %+v", d.Gallery[0].Comments)
	}

	if _, err := st.AddComment(ctx, "u1", "missing-post", "Beta", "eco"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("err = %v, want ErrPostNotFound", err)
	}
}

func TestFollowIsIdempotent(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	p := entity.EchoProfile{ID: "user2", Name: "Consciência_Beta"}
	if _, err := st.Follow(ctx, "u1", p); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := st.Follow(ctx, "u1", p); err != nil {
		t.Fatalf("second follow: %v", err)
	}

	d, _ := st.Load(ctx, "u1")
	if len(d.Following) != 1 {
		t.Errorf("following length = %d, want 1", len(d.Following))
	}

	if _, err := st.Unfollow(ctx, "u1", "user2"); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	d, _ = st.Load(ctx, "u1")
	if len(d.Following) != 0 {
		t.Errorf("unfollow left %d entries", len(d.Following))
	}
}

func TestCreateGroupRules(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	member := entity.EchoProfile{ID: "user2", Name: "Consciência_Beta"}

	if _, err := st.CreateGroup(ctx, "u1", "", "", []entity.EchoProfile{member}); !errors.Is(err, ErrGroupName) {
		t.Errorf("err = %v, want ErrGroupName", err)
	}
	if _, err := st.CreateGroup(ctx, "u1", "Ecos", "", nil); !errors.Is(err, ErrGroupMembers) {
		t.Errorf("err = %v, want ErrGroupMembers", err)
	}

	g, err := st.CreateGroup(ctx, "u1", "Ecos", "", []entity.EchoProfile{member})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if g.ID == "" || len(g.Members) != 1 {
		t.Errorf("bad group: %+v", g)
	}
}

func TestPostGroupMessage(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	member := entity.EchoProfile{ID: "user2", Name: "Consciência_Beta"}
	g, _ := st.CreateGroup(ctx, "u1", "Ecos", "", []entity.EchoProfile{member})

	msg, err := st.PostGroupMessage(ctx, "u1", g.ID, "Alfa", "alguém aí?")
	if err != nil {
		t.Fatalf("post message: %v", err)
	}
	if msg.Text != "alguém aí?" {
		t.Errorf("bad message: %+v", msg)
	}

	d, _ := st.Load(ctx, "u1")
	if d.Groups[0].LastMessage != "Alfa: alguém aí?" {
		t.Errorf("lastMessage = %q", d.Groups[0].LastMessage)
	}
	if len(d.Groups[0].Messages) != 1 {
		t.Errorf("messages length = %d", len(d.Groups[0].Messages))
	}

	if _, err := st.PostGroupMessage(ctx, "u1", "missing-group", "Alfa", "eco"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("err = %v, want ErrGroupNotFound", err)
	}
}

func TestLeaveGroup(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	member := entity.EchoProfile{ID: "user2"}
	g, _ := st.CreateGroup(ctx, "u1", "Ecos", "", []entity.EchoProfile{member})

	if _, err := st.LeaveGroup(ctx, "u1", g.ID); err != nil {
		t.Fatalf("leave group: %v", err)
	}
	d, _ := st.Load(ctx, "u1")
	if len(d.Groups) != 0 {
		t.Errorf("group still present after leave")
	}
}

func TestFoundDynastyOncePerIdentity(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := st.FoundDynasty(ctx, "u1", "", "propósito", "", "", true); !errors.Is(err, ErrDynastyRequired) {
		t.Errorf("err = %v, want ErrDynastyRequired", err)
	}

	dyn, err := st.FoundDynasty(ctx, "u1", "Casa Alfa", "ressoar juntos", "", "", true)
	if err != nil {
		t.Fatalf("found dynasty: %v", err)
	}
	if len(dyn.Roles) != 1 || dyn.Roles[0].Name != "Fundador" || dyn.Roles[0].Color != "#f59e0b" {
		t.Errorf("founder role = %+v", dyn.Roles)
	}
	if len(dyn.Members) != 1 || dyn.Members[0].ID != "u1" {
		t.Errorf("creator should be the sole member: %+v", dyn.Members)
	}

	if _, err := st.FoundDynasty(ctx, "u1", "Casa Beta", "outro", "", "", true); !errors.Is(err, ErrDynastyExists) {
		t.Errorf("err = %v, want ErrDynastyExists", err)
	}
}

func TestPostDynastyMessage(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := st.PostDynastyMessage(ctx, "u1", "Alfa", "eco", nil); !errors.Is(err, ErrDynastyNotFound) {
		t.Errorf("err = %v, want ErrDynastyNotFound", err)
	}

	if _, err := st.FoundDynasty(ctx, "u1", "Casa Alfa", "ressoar juntos", "", "", true); err != nil {
		t.Fatalf("found dynasty: %v", err)
	}

	role := &entity.DynastyRole{ID: "r1", Name: "Fundador", Color: "#f59e0b"}
	msg, err := st.PostDynastyMessage(ctx, "u1", "Alfa", "primeira mensagem", role)
	if err != nil {
		t.Fatalf("post dynasty message: %v", err)
	}
	if msg.UserRole == nil || msg.UserRole.Name != "Fundador" {
		t.Errorf("role lost: %+v", msg)
	}

	d, _ := st.Load(ctx, "u1")
	if d.Dynasty == nil || len(d.Dynasty.Chat) != 1 {
		t.Fatalf("dynasty chat not persisted: %+v", d.Dynasty)
	}
}

func TestPremiumInvariant(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	d, err := st.UpgradePremium(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if !d.Profile.IsPremium || d.Profile.PremiumSettings == nil {
		t.Fatalf("upgrade invariant broken: premium=%v settings=%v", d.Profile.IsPremium, d.Profile.PremiumSettings)
	}
	if d.Profile.PremiumSettings.BorderType != entity.ColorSolid {
		t.Errorf("defaults not applied: %+v", d.Profile.PremiumSettings)
	}

	d, err = st.CancelPremium(ctx, "u1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if d.Profile.IsPremium || d.Profile.PremiumSettings != nil {
		t.Errorf("cancel invariant broken: premium=%v settings=%v", d.Profile.IsPremium, d.Profile.PremiumSettings)
	}
}

func TestUpdateProfileStripsSettingsForNonPremium(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	name := "Sem_Premium"
	premium := false
	settings := entity.DefaultPremiumSettings()
	d, err := st.UpdateProfile(ctx, "u1", ProfilePatch{
		Name:            &name,
		IsPremium:       &premium,
		PremiumSettings: &settings,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if d.Profile.PremiumSettings != nil {
		t.Errorf("premium settings must be dropped for non-premium profiles")
	}
}

func TestDynastyFeedPost(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := st.CreateDynastyFeedPost(ctx, "u1", "sem casa", mediaFiles(1), entity.EchoProfile{}); !errors.Is(err, ErrDynastyNotFound) {
		t.Errorf("err = %v, want ErrDynastyNotFound", err)
	}

	if _, err := st.FoundDynasty(ctx, "u1", "Casa Alfa", "ressoar juntos", "", "", true); err != nil {
		t.Fatalf("found dynasty: %v", err)
	}

	first, err := st.CreateDynastyFeedPost(ctx, "u1", "primeiro", mediaFiles(1), entity.EchoProfile{Name: "Alfa"})
	if err != nil {
		t.Fatalf("feed post: %v", err)
	}
	second, err := st.CreateDynastyFeedPost(ctx, "u1", "segundo", mediaFiles(entity.MaxMediaPerPost+2), entity.EchoProfile{Name: "Alfa"})
	if err != nil {
		t.Fatalf("second feed post: %v", err)
	}
	if len(second.Item.Media) != entity.MaxMediaPerPost || second.Dropped != 2 {
		t.Errorf("feed post cap: media=%d dropped=%d", len(second.Item.Media), second.Dropped)
	}

	d, _ := st.Load(ctx, "u1")
	if d.Dynasty == nil || len(d.Dynasty.Feed) != 2 {
		t.Fatalf("feed not persisted: %+v", d.Dynasty)
	}
	if d.Dynasty.Feed[0].ID != second.Item.ID || d.Dynasty.Feed[1].ID != first.Item.ID {
		t.Errorf("dynasty feed not newest first")
	}
	if len(d.Gallery) != 0 {
		t.Errorf("feed post leaked into the personal gallery")
	}
}
