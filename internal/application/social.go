package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/entity"
)

var (
	ErrNoMedia         = errors.New("a post needs at least one media item")
	ErrPostNotFound    = errors.New("gallery post not found")
	ErrGroupName       = errors.New("a group needs a name")
	ErrGroupMembers    = errors.New("a group needs at least one member")
	ErrGroupNotFound   = errors.New("group not found")
	ErrDynastyExists   = errors.New("identity already founded a dynasty")
	ErrDynastyRequired = errors.New("a dynasty needs a name and a purpose")
	ErrDynastyNotFound = errors.New("no dynasty to post to")
)

// GalleryPost is the accepted shape of a new post after media truncation.
type GalleryPost struct {
	Item    entity.GalleryItem
	Dropped int
}

// CreateGalleryPost prepends a new post to the gallery. Media beyond the
// per-post cap is silently truncated and the dropped count reported so the
// caller can tell the user.
func (s *Store) CreateGalleryPost(ctx context.Context, identityID, caption string, media []entity.MediaFile, author entity.EchoProfile) (*GalleryPost, error) {
	if len(media) == 0 {
		return nil, ErrNoMedia
	}

	dropped := 0
	if len(media) > entity.MaxMediaPerPost {
		dropped = len(media) - entity.MaxMediaPerPost
		media = media[:entity.MaxMediaPerPost]
	}

	item := entity.GalleryItem{
		ID:           uuid.NewString(),
		Media:        media,
		Caption:      caption,
		Comments:     []entity.Comment{},
		Timestamp:    s.now().UnixMilli(),
		AuthorName:   author.Name,
		AuthorAvatar: author.AvatarURL,
	}

	_, err := s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		gallery := append([]entity.GalleryItem{item}, d.Gallery...)
		return Patch{Gallery: &gallery}, nil
	})
	if err != nil {
		return nil, err
	}

	return &GalleryPost{Item: item, Dropped: dropped}, nil
}

// AddComment appends a comment to one gallery post.
func (s *Store) AddComment(ctx context.Context, identityID, postID, userName, text string) (*entity.Comment, error) {
	comment := entity.Comment{
		ID:        uuid.NewString(),
		UserName:  userName,
		Text:      text,
		Timestamp: s.now().UnixMilli(),
	}

	_, err := s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		gallery := make([]entity.GalleryItem, len(d.Gallery))
		copy(gallery, d.Gallery)

		for i := range gallery {
			if gallery[i].ID == postID {
				gallery[i].Comments = append(gallery[i].Comments, comment)
				return Patch{Gallery: &gallery}, nil
			}
		}
		return Patch{}, ErrPostNotFound
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Follow adds a profile to the following list. Following the same profile
// twice is a no-op, not an error.
func (s *Store) Follow(ctx context.Context, identityID string, profile entity.EchoProfile) (*entity.UserData, error) {
	return s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		for _, f := range d.Following {
			if f.ID == profile.ID {
				return Patch{}, nil
			}
		}
		following := append([]entity.EchoProfile{profile}, d.Following...)
		return Patch{Following: &following}, nil
	})
}

// Unfollow removes a profile from the following list by external id.
func (s *Store) Unfollow(ctx context.Context, identityID, profileID string) (*entity.UserData, error) {
	return s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		following := make([]entity.EchoProfile, 0, len(d.Following))
		for _, f := range d.Following {
			if f.ID != profileID {
				following = append(following, f)
			}
		}
		return Patch{Following: &following}, nil
	})
}

// CreateGroup starts a chat group. A name and at least one member besides the
// creator are required; a group with no counterpart would be unreachable.
func (s *Store) CreateGroup(ctx context.Context, identityID, name, photoURL string, members []entity.EchoProfile) (*entity.Group, error) {
	if name == "" {
		return nil, ErrGroupName
	}
	if len(members) == 0 {
		return nil, ErrGroupMembers
	}

	group := entity.Group{
		ID:       uuid.NewString(),
		Name:     name,
		PhotoURL: photoURL,
		Members:  members,
		Messages: []entity.ChatMessage{},
	}

	_, err := s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		groups := append([]entity.Group{group}, d.Groups...)
		return Patch{Groups: &groups}, nil
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// PostGroupMessage appends a message to a group's log and refreshes the
// cached lastMessage preview.
func (s *Store) PostGroupMessage(ctx context.Context, identityID, groupID, userName, text string) (*entity.ChatMessage, error) {
	msg := entity.ChatMessage{
		ID:        uuid.NewString(),
		UserName:  userName,
		Text:      text,
		Timestamp: s.now().UnixMilli(),
	}

	_, err := s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		groups := make([]entity.Group, len(d.Groups))
		copy(groups, d.Groups)

		for i := range groups {
			if groups[i].ID == groupID {
				groups[i].Messages = append(groups[i].Messages, msg)
				groups[i].LastMessage = fmt.Sprintf("%s: %s", msg.UserName, msg.Text)
				return Patch{Groups: &groups}, nil
			}
		}
		return Patch{}, ErrGroupNotFound
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// LeaveGroup drops a group from the aggregate.
func (s *Store) LeaveGroup(ctx context.Context, identityID, groupID string) (*entity.UserData, error) {
	return s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		groups := make([]entity.Group, 0, len(d.Groups))
		for _, g := range d.Groups {
			if g.ID != groupID {
				groups = append(groups, g)
			}
		}
		return Patch{Groups: &groups}, nil
	})
}

// FoundDynasty creates the identity's dynasty. One per identity; the creator
// becomes the sole member with the founder role.
func (s *Store) FoundDynasty(ctx context.Context, identityID, name, purpose, photoURL, bannerURL string, isPublic bool) (*entity.Dynasty, error) {
	if name == "" || purpose == "" {
		return nil, ErrDynastyRequired
	}

	founderRole := entity.DynastyRole{
		ID:    uuid.NewString(),
		Name:  "Fundador",
		Color: "#f59e0b",
	}

	var dynasty *entity.Dynasty

	_, err := s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		if d.Dynasty != nil {
			return Patch{}, ErrDynastyExists
		}

		dynasty = &entity.Dynasty{
			ID:        uuid.NewString(),
			Name:      name,
			PhotoURL:  photoURL,
			BannerURL: bannerURL,
			Purpose:   purpose,
			IsPublic:  isPublic,
			Roles:     []entity.DynastyRole{founderRole},
			Members:   []entity.EchoProfile{d.Echo(identityID)},
			Feed:      []entity.GalleryItem{},
			Chat:      []entity.ChatMessage{},
		}
		return Patch{Dynasty: &dynasty}, nil
	})
	if err != nil {
		return nil, err
	}
	return dynasty, nil
}

// PostDynastyMessage appends a message to the dynasty chat.
func (s *Store) PostDynastyMessage(ctx context.Context, identityID, userName, text string, role *entity.DynastyRole) (*entity.ChatMessage, error) {
	msg := entity.ChatMessage{
		ID:        uuid.NewString(),
		UserName:  userName,
		UserRole:  role,
		Text:      text,
		Timestamp: s.now().UnixMilli(),
	}

	_, err := s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		if d.Dynasty == nil {
			return Patch{}, ErrDynastyNotFound
		}
		dyn := *d.Dynasty
		dyn.Chat = append(dyn.Chat, msg)
		out := &dyn
		return Patch{Dynasty: &out}, nil
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CreateDynastyFeedPost publishes a post into the dynasty feed, newest first,
// with the same media cap and truncation notice as the personal gallery.
func (s *Store) CreateDynastyFeedPost(ctx context.Context, identityID, caption string, media []entity.MediaFile, author entity.EchoProfile) (*GalleryPost, error) {
	if len(media) == 0 {
		return nil, ErrNoMedia
	}

	dropped := 0
	if len(media) > entity.MaxMediaPerPost {
		dropped = len(media) - entity.MaxMediaPerPost
		media = media[:entity.MaxMediaPerPost]
	}

	item := entity.GalleryItem{
		ID:           uuid.NewString(),
		Media:        media,
		Caption:      caption,
		Comments:     []entity.Comment{},
		Timestamp:    s.now().UnixMilli(),
		AuthorName:   author.Name,
		AuthorAvatar: author.AvatarURL,
	}

	_, err := s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		if d.Dynasty == nil {
			return Patch{}, ErrDynastyNotFound
		}
		dyn := *d.Dynasty
		dyn.Feed = append([]entity.GalleryItem{item}, dyn.Feed...)
		out := &dyn
		return Patch{Dynasty: &out}, nil
	})
	if err != nil {
		return nil, err
	}

	return &GalleryPost{Item: item, Dropped: dropped}, nil
}

// UpgradePremium flips the profile to premium. A nil settings argument gets
// the defaults; the profile invariant (premiumSettings iff isPremium) holds
// in both directions.
func (s *Store) UpgradePremium(ctx context.Context, identityID string, settings *entity.PremiumSettings) (*entity.UserData, error) {
	if settings == nil {
		settings = entity.DefaultPremiumSettings()
	}

	return s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		profile := d.Profile
		profile.IsPremium = true
		profile.PremiumSettings = settings
		return Patch{Profile: &profile}, nil
	})
}

// CancelPremium drops premium status and its settings together.
func (s *Store) CancelPremium(ctx context.Context, identityID string) (*entity.UserData, error) {
	return s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		profile := d.Profile
		profile.IsPremium = false
		profile.PremiumSettings = nil
		return Patch{Profile: &profile}, nil
	})
}
