package entity

import "time"

// Caps enforced by the store on aggregate mutations.
const (
	// MaxMediaPerPost bounds the media attached to one gallery post.
	MaxMediaPerPost = 7
	// MaxHistoryItems bounds the resonance history; oldest entries are
	// evicted first.
	MaxHistoryItems = 100
)

// MediaType classifies a media attachment.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaGIF   MediaType = "gif"
)

// ColorMode selects how a premium color is rendered.
type ColorMode string

const (
	ColorSolid    ColorMode = "solid"
	ColorGradient ColorMode = "gradient"
)

// MediaFile is one data-addressable media attachment.
type MediaFile struct {
	URL  string    `json:"url"`
	Type MediaType `json:"type"`
}

// Comment is a single comment on a gallery post.
type Comment struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// GalleryItem is one gallery post: 1..MaxMediaPerPost media items, a caption
// and a comment thread.
type GalleryItem struct {
	ID           string      `json:"id"`
	Media        []MediaFile `json:"media"`
	Caption      string      `json:"caption"`
	Comments     []Comment   `json:"comments"`
	Timestamp    int64       `json:"timestamp"`
	AuthorName   string      `json:"authorName,omitempty"`
	AuthorAvatar string      `json:"authorAvatar,omitempty"`
}

// PremiumSettings holds the styling options available to premium profiles.
// It is replaced wholesale on profile updates, never merged field by field.
type PremiumSettings struct {
	BorderColor  string    `json:"borderColor"`
	ProfileColor string    `json:"profileColor"`
	AppColor     string    `json:"appColor"`
	NameColor    string    `json:"nameColor"`
	BorderType   ColorMode `json:"borderType"`
	ProfileType  ColorMode `json:"profileType"`
	NameType     ColorMode `json:"nameType"`
}

// DynastyRole is a named, colored role inside a dynasty.
type DynastyRole struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ChatMessage is one message in a group or dynasty chat log.
type ChatMessage struct {
	ID        string       `json:"id"`
	UserName  string       `json:"userName"`
	UserRole  *DynastyRole `json:"userRole,omitempty"`
	Text      string       `json:"text"`
	Timestamp int64        `json:"timestamp"`
}

// Dynasty is a user-governed community with roles, members, a feed and a chat.
type Dynasty struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	PhotoURL  string        `json:"photoUrl"`
	BannerURL string        `json:"bannerUrl"`
	Purpose   string        `json:"purpose"`
	IsPublic  bool          `json:"isPublic"`
	Roles     []DynastyRole `json:"roles"`
	Members   []EchoProfile `json:"members"`
	Feed      []GalleryItem `json:"feed"`
	Chat      []ChatMessage `json:"chat"`
}

// Group is a chat-only collection of member references with a message log and
// a cached preview of the latest message.
type Group struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	PhotoURL    string        `json:"photoUrl,omitempty"`
	Members     []EchoProfile `json:"members"`
	Messages    []ChatMessage `json:"messages"`
	LastMessage string        `json:"lastMessage,omitempty"`
}

// EchoProfile is a lightweight reference to an external identity, the shape
// exchanged in follow lists, group member lists and search results.
type EchoProfile struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Bio             string           `json:"bio"`
	IsPublic        bool             `json:"isPublic"`
	IsPremium       bool             `json:"isPremium,omitempty"`
	PremiumSettings *PremiumSettings `json:"premiumSettings,omitempty"`
	AvatarColor     string           `json:"avatarColor"`
	AvatarURL       string           `json:"avatarUrl,omitempty"`
}

// ResonanceResponse is the structured result of one analysis call.
type ResonanceResponse struct {
	SocialInfo            string `json:"socialInfo"`
	CollectiveObservation string `json:"collectiveObservation"`
	MovementNote          string `json:"movementNote"`
}

// HistoryItem records one past analysis request/response pair.
type HistoryItem struct {
	ID            string            `json:"id"`
	Original      string            `json:"original"`
	Response      ResonanceResponse `json:"response"`
	Timestamp     int64             `json:"timestamp"`
	RelatedEchoes []EchoProfile     `json:"relatedEchoes"`
}

// UserProfile is the profile sub-object of the aggregate. The list-valued
// fields mirror the aggregate-level lists for presentation and are replaced
// wholesale when a profile patch arrives; the aggregate-level lists are the
// ones the store operations maintain.
type UserProfile struct {
	Name            string           `json:"name"`
	Bio             string           `json:"bio"`
	AvatarURL       string           `json:"avatarUrl"`
	BannerURL       string           `json:"bannerUrl"`
	IsPremium       bool             `json:"isPremium"`
	PremiumSettings *PremiumSettings `json:"premiumSettings,omitempty"`
	Followers       []EchoProfile    `json:"followers"`
	Following       []EchoProfile    `json:"following"`
	Gallery         []GalleryItem    `json:"gallery"`
	CreatedDynasty  *Dynasty         `json:"createdDynasty,omitempty"`
	Groups          []Group          `json:"groups"`
}

// UserSettings are the visibility and inbound-interaction toggles.
type UserSettings struct {
	IsPublic            bool `json:"isPublic"`
	AllowMessages       bool `json:"allowMessages"`
	AllowGroups         bool `json:"allowGroups"`
	AllowDynastyInvites bool `json:"allowDynastyInvites"`
}

// UserData is the aggregate root: everything one identity owns. Lists are
// ordered newest first; LastActive is stamped on every persisted mutation.
type UserData struct {
	Profile        UserProfile   `json:"profile"`
	Settings       UserSettings  `json:"settings"`
	Gallery        []GalleryItem `json:"gallery"`
	Dynasty        *Dynasty      `json:"dynasty,omitempty"`
	Groups         []Group       `json:"groups"`
	History        []HistoryItem `json:"history"`
	Followers      []EchoProfile `json:"followers"`
	Following      []EchoProfile `json:"following"`
	ResonanceCount int           `json:"resonanceCount"`
	LastActive     int64         `json:"lastActive"`
}

const (
	defaultName      = "Consciência_Original"
	defaultBio       = "Explorador do núcleo social."
	defaultAvatarURL = "https://images.unsplash.com/photo-1614850523296-d8c1af93d400?w=200&h=200&fit=crop"
	defaultBannerURL = "https://images.unsplash.com/photo-1464802686167-b939a6910659?w=1200&h=400&fit=crop"
)

// DefaultPremiumSettings returns the styling applied when a profile upgrades
// without choosing anything.
func DefaultPremiumSettings() *PremiumSettings {
	return &PremiumSettings{
		BorderColor:  "#ffffff",
		ProfileColor: "#050505",
		AppColor:     "#ffffff",
		NameColor:    "#ffffff",
		BorderType:   ColorSolid,
		ProfileType:  ColorSolid,
		NameType:     ColorSolid,
	}
}

// DefaultUserData builds the aggregate synthesized on first load for an
// identity with no stored record.
func DefaultUserData(now time.Time) *UserData {
	return &UserData{
		Profile: UserProfile{
			Name:      defaultName,
			Bio:       defaultBio,
			AvatarURL: defaultAvatarURL,
			BannerURL: defaultBannerURL,
			IsPremium: false,
			Followers: []EchoProfile{},
			Following: []EchoProfile{},
			Gallery:   []GalleryItem{},
			Groups:    []Group{},
		},
		Settings: UserSettings{
			IsPublic:            true,
			AllowMessages:       true,
			AllowGroups:         true,
			AllowDynastyInvites: true,
		},
		Gallery:        []GalleryItem{},
		Groups:         []Group{},
		History:        []HistoryItem{},
		Followers:      []EchoProfile{},
		Following:      []EchoProfile{},
		ResonanceCount: 0,
		LastActive:     now.UnixMilli(),
	}
}

// Echo projects the aggregate into the lightweight external-identity shape.
func (d *UserData) Echo(identityID string) EchoProfile {
	color := "#ffffff"
	if d.Profile.PremiumSettings != nil && d.Profile.PremiumSettings.ProfileColor != "" {
		color = d.Profile.PremiumSettings.ProfileColor
	}
	return EchoProfile{
		ID:              identityID,
		Name:            d.Profile.Name,
		Bio:             d.Profile.Bio,
		IsPublic:        d.Settings.IsPublic,
		IsPremium:       d.Profile.IsPremium,
		PremiumSettings: d.Profile.PremiumSettings,
		AvatarColor:     color,
		AvatarURL:       d.Profile.AvatarURL,
	}
}
