package application

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/entity"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/repository"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/apperrors"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/helpers"
)

const mirrorKeyPrefix = "userdata:"

// Patch is a shallow top-level merge against the aggregate: nil fields are
// left untouched, non-nil fields replace the stored value wholesale. Nested
// objects are never merged field by field; a caller changing one premium
// color must send the whole profile.
type Patch struct {
	Profile        *entity.UserProfile   `json:"profile,omitempty"`
	Settings       *entity.UserSettings  `json:"settings,omitempty"`
	Gallery        *[]entity.GalleryItem `json:"gallery,omitempty"`
	Dynasty        **entity.Dynasty      `json:"dynasty,omitempty"`
	Groups         *[]entity.Group       `json:"groups,omitempty"`
	History        *[]entity.HistoryItem `json:"history,omitempty"`
	Followers      *[]entity.EchoProfile `json:"followers,omitempty"`
	Following      *[]entity.EchoProfile `json:"following,omitempty"`
	ResonanceCount *int                  `json:"resonanceCount,omitempty"`
}

// IsZero reports whether the patch carries no fields at all.
func (p Patch) IsZero() bool {
	return p.Profile == nil && p.Settings == nil && p.Gallery == nil &&
		p.Dynasty == nil && p.Groups == nil && p.History == nil &&
		p.Followers == nil && p.Following == nil && p.ResonanceCount == nil
}

func (p Patch) apply(d *entity.UserData) {
	if p.Profile != nil {
		d.Profile = *p.Profile
	}
	if p.Settings != nil {
		d.Settings = *p.Settings
	}
	if p.Gallery != nil {
		d.Gallery = *p.Gallery
	}
	if p.Dynasty != nil {
		d.Dynasty = *p.Dynasty
	}
	if p.Groups != nil {
		d.Groups = *p.Groups
	}
	if p.History != nil {
		d.History = *p.History
	}
	if p.Followers != nil {
		d.Followers = *p.Followers
	}
	if p.Following != nil {
		d.Following = *p.Following
	}
	if p.ResonanceCount != nil {
		d.ResonanceCount = *p.ResonanceCount
	}
}

// ProfilePatch is a field-level merge against the profile sub-object: nil
// fields keep their current value, non-nil fields replace it. This is the
// shape PUT /api/profile accepts, so a caller sending only a bio keeps its
// name, avatar and premium state.
type ProfilePatch struct {
	Name            *string                  `json:"name,omitempty"`
	Bio             *string                  `json:"bio,omitempty"`
	AvatarURL       *string                  `json:"avatarUrl,omitempty"`
	BannerURL       *string                  `json:"bannerUrl,omitempty"`
	IsPremium       *bool                    `json:"isPremium,omitempty"`
	PremiumSettings **entity.PremiumSettings `json:"premiumSettings,omitempty"`
	Followers       *[]entity.EchoProfile    `json:"followers,omitempty"`
	Following       *[]entity.EchoProfile    `json:"following,omitempty"`
	Gallery         *[]entity.GalleryItem    `json:"gallery,omitempty"`
	CreatedDynasty  **entity.Dynasty         `json:"createdDynasty,omitempty"`
	Groups          *[]entity.Group          `json:"groups,omitempty"`
}

func (p ProfilePatch) IsZero() bool {
	return p.Name == nil && p.Bio == nil && p.AvatarURL == nil &&
		p.BannerURL == nil && p.IsPremium == nil && p.PremiumSettings == nil &&
		p.Followers == nil && p.Following == nil && p.Gallery == nil &&
		p.CreatedDynasty == nil && p.Groups == nil
}

func (p ProfilePatch) apply(dst *entity.UserProfile) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Bio != nil {
		dst.Bio = *p.Bio
	}
	if p.AvatarURL != nil {
		dst.AvatarURL = *p.AvatarURL
	}
	if p.BannerURL != nil {
		dst.BannerURL = *p.BannerURL
	}
	if p.IsPremium != nil {
		dst.IsPremium = *p.IsPremium
	}
	if p.PremiumSettings != nil {
		dst.PremiumSettings = *p.PremiumSettings
	}
	if p.Followers != nil {
		dst.Followers = *p.Followers
	}
	if p.Following != nil {
		dst.Following = *p.Following
	}
	if p.Gallery != nil {
		dst.Gallery = *p.Gallery
	}
	if p.CreatedDynasty != nil {
		dst.CreatedDynasty = *p.CreatedDynasty
	}
	if p.Groups != nil {
		dst.Groups = *p.Groups
	}
}

// SettingsPatch is the field-level merge shape for the settings sub-object.
type SettingsPatch struct {
	IsPublic            *bool `json:"isPublic,omitempty"`
	AllowMessages       *bool `json:"allowMessages,omitempty"`
	AllowGroups         *bool `json:"allowGroups,omitempty"`
	AllowDynastyInvites *bool `json:"allowDynastyInvites,omitempty"`
}

func (p SettingsPatch) IsZero() bool {
	return p.IsPublic == nil && p.AllowMessages == nil &&
		p.AllowGroups == nil && p.AllowDynastyInvites == nil
}

func (p SettingsPatch) apply(dst *entity.UserSettings) {
	if p.IsPublic != nil {
		dst.IsPublic = *p.IsPublic
	}
	if p.AllowMessages != nil {
		dst.AllowMessages = *p.AllowMessages
	}
	if p.AllowGroups != nil {
		dst.AllowGroups = *p.AllowGroups
	}
	if p.AllowDynastyInvites != nil {
		dst.AllowDynastyInvites = *p.AllowDynastyInvites
	}
}

// Store is the canonical per-identity aggregate store. Writes to the same
// identity are serialized through a per-identity lock; reads and writes for
// different identities proceed independently. Every persisted mutation runs
// through the durable backend first, then best-effort refreshes the redis
// mirror.
type Store struct {
	backend   repository.DataBackend
	rdb       *redis.Client
	log       *logrus.Logger
	mirrorTTL time.Duration
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(backend repository.DataBackend, rdb *redis.Client, log *logrus.Logger, mirrorTTL time.Duration) *Store {
	return &Store{
		backend:   backend,
		rdb:       rdb,
		log:       log,
		mirrorTTL: mirrorTTL,
		now:       time.Now,
		locks:     map[string]*sync.Mutex{},
	}
}

func (s *Store) lock(identityID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[identityID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[identityID] = l
	}
	return l
}

// Load returns the full aggregate for an identity. An identity that has never
// been written gets a freshly persisted default aggregate; Load never reports
// not-found.
func (s *Store) Load(ctx context.Context, identityID string) (*entity.UserData, error) {
	l := s.lock(identityID)
	l.Lock()
	defer l.Unlock()

	return s.loadLocked(ctx, identityID)
}

func (s *Store) loadLocked(ctx context.Context, identityID string) (*entity.UserData, error) {
	doc, err := s.backend.Get(ctx, identityID)
	if apperrors.IsNotFound(err) {
		d := entity.DefaultUserData(s.now())
		if err := s.persistLocked(ctx, identityID, d); err != nil {
			return nil, err
		}
		return d, nil
	}
	if err != nil {
		return nil, err
	}

	d := &entity.UserData{}
	if err := json.Unmarshal(doc, d); err != nil {
		return nil, apperrors.Malformed(identityID, err)
	}
	return d, nil
}

// Save merges a patch into the aggregate and persists the result. The merge
// is all-or-nothing: a backend failure leaves the stored aggregate untouched
// and the error carries the failure kind.
func (s *Store) Save(ctx context.Context, identityID string, patch Patch) (*entity.UserData, error) {
	l := s.lock(identityID)
	l.Lock()
	defer l.Unlock()

	return s.saveLocked(ctx, identityID, patch)
}

func (s *Store) saveLocked(ctx context.Context, identityID string, patch Patch) (*entity.UserData, error) {
	d, err := s.loadLocked(ctx, identityID)
	if err != nil {
		return nil, err
	}

	patch.apply(d)
	d.LastActive = s.now().UnixMilli()

	if err := s.persistLocked(ctx, identityID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Store) persistLocked(ctx context.Context, identityID string, d *entity.UserData) error {
	doc, err := json.Marshal(d)
	if err != nil {
		return apperrors.Malformed(identityID, err)
	}

	if err := s.backend.Put(ctx, identityID, doc); err != nil {
		return err
	}

	s.mirror(ctx, identityID, d)
	return nil
}

// mirror refreshes the redis copy. Mirror failures are logged and swallowed:
// the durable write already succeeded.
func (s *Store) mirror(ctx context.Context, identityID string, d *entity.UserData) {
	if s.rdb == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.rdb, mirrorKeyPrefix+identityID, d, s.mirrorTTL); err != nil {
		s.log.WithError(err).WithField("identity_id", identityID).Warn("user data mirror write failed")
	}
}

// UpdateProfile shallow-merges the supplied fields into the current profile
// under the identity lock, so overlapping callers touching different fields
// both land. The premium invariant holds on the merged result: a profile that
// is not premium carries no premium settings.
func (s *Store) UpdateProfile(ctx context.Context, identityID string, patch ProfilePatch) (*entity.UserData, error) {
	return s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		profile := d.Profile
		patch.apply(&profile)
		if !profile.IsPremium {
			profile.PremiumSettings = nil
		}
		return Patch{Profile: &profile}, nil
	})
}

// UpdateSettings shallow-merges the supplied fields into the current settings.
func (s *Store) UpdateSettings(ctx context.Context, identityID string, patch SettingsPatch) (*entity.UserData, error) {
	return s.Mutate(ctx, identityID, func(d *entity.UserData) (Patch, error) {
		settings := d.Settings
		patch.apply(&settings)
		return Patch{Settings: &settings}, nil
	})
}

// Peek returns the aggregate only when one is stored. Unlike Load it never
// synthesizes defaults, so looking up a foreign identity cannot mint a record
// for it.
func (s *Store) Peek(ctx context.Context, identityID string) (*entity.UserData, error) {
	l := s.lock(identityID)
	l.Lock()
	defer l.Unlock()

	doc, err := s.backend.Get(ctx, identityID)
	if err != nil {
		return nil, err
	}

	d := &entity.UserData{}
	if err := json.Unmarshal(doc, d); err != nil {
		return nil, apperrors.Malformed(identityID, err)
	}
	return d, nil
}

// AppendHistory prepends an analysis record and evicts beyond the cap, so the
// history always holds the most recent entries newest first.
func (s *Store) AppendHistory(ctx context.Context, identityID string, item entity.HistoryItem) (*entity.UserData, error) {
	l := s.lock(identityID)
	l.Lock()
	defer l.Unlock()

	d, err := s.loadLocked(ctx, identityID)
	if err != nil {
		return nil, err
	}

	history := append([]entity.HistoryItem{item}, d.History...)
	if len(history) > entity.MaxHistoryItems {
		history = history[:entity.MaxHistoryItems]
	}

	return s.saveLocked(ctx, identityID, Patch{History: &history})
}

// IncrementResonanceCount bumps the lifetime counter relative to the last
// persisted value, never a caller-supplied one, and returns the new count.
func (s *Store) IncrementResonanceCount(ctx context.Context, identityID string) (int, error) {
	l := s.lock(identityID)
	l.Lock()
	defer l.Unlock()

	d, err := s.loadLocked(ctx, identityID)
	if err != nil {
		return 0, err
	}

	next := d.ResonanceCount + 1
	if _, err := s.saveLocked(ctx, identityID, Patch{ResonanceCount: &next}); err != nil {
		return 0, err
	}
	return next, nil
}

// Purge removes everything stored for an identity. A later Load starts over
// from defaults.
func (s *Store) Purge(ctx context.Context, identityID string) error {
	l := s.lock(identityID)
	l.Lock()
	defer l.Unlock()

	if err := s.backend.Delete(ctx, identityID); err != nil {
		return err
	}

	if s.rdb != nil {
		if err := helpers.RedisDel(ctx, s.rdb, mirrorKeyPrefix+identityID); err != nil {
			s.log.WithError(err).WithField("identity_id", identityID).Warn("user data mirror delete failed")
		}
	}
	return nil
}

// Mutate runs fn on the current aggregate under the identity lock and
// persists whatever patch fn returns. Social operations build on this.
func (s *Store) Mutate(ctx context.Context, identityID string, fn func(d *entity.UserData) (Patch, error)) (*entity.UserData, error) {
	l := s.lock(identityID)
	l.Lock()
	defer l.Unlock()

	d, err := s.loadLocked(ctx, identityID)
	if err != nil {
		return nil, err
	}

	patch, err := fn(d)
	if err != nil {
		return nil, err
	}
	if patch.IsZero() {
		return d, nil
	}

	return s.saveLocked(ctx, identityID, patch)
}
