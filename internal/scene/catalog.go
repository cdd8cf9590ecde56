package scene

import "sort"

type LayerType string

const (
	LayerText           LayerType = "text"
	LayerHeading        LayerType = "heading"
	LayerQuote          LayerType = "quote"
	LayerGuestName      LayerType = "guest_name"
	LayerImage          LayerType = "image"
	LayerGIF            LayerType = "gif"
	LayerSticker        LayerType = "sticker"
	LayerSVG            LayerType = "svg"
	LayerIcon           LayerType = "icon"
	LayerShape          LayerType = "shape"
	LayerDivider        LayerType = "divider"
	LayerFrame          LayerType = "frame"
	LayerButton         LayerType = "button"
	LayerOpenInvitation LayerType = "open_invitation"
	LayerLiveStreaming  LayerType = "live_streaming"
	LayerCountdown      LayerType = "countdown"
	LayerCalendar       LayerType = "calendar"
	LayerMaps           LayerType = "maps_point"
	LayerPhotoGrid      LayerType = "photo_grid"
	LayerGallerySlider  LayerType = "gallery_slider"
	LayerVideo          LayerType = "video"
	LayerYouTube        LayerType = "youtube"
	LayerLottie         LayerType = "lottie"
	LayerRSVPForm       LayerType = "rsvp_form"
	LayerGuestWishes    LayerType = "guest_wishes"
	LayerDigitalGift    LayerType = "digital_gift"
	LayerQRCode         LayerType = "qr_code"
	LayerLoveStory      LayerType = "love_story"
	LayerMusicPlayer    LayerType = "music_player"
	LayerSocialLinks    LayerType = "social_links"
	LayerConfetti       LayerType = "confetti"
	LayerSnow           LayerType = "snow"
	LayerFireflies      LayerType = "fireflies"
	LayerPetals         LayerType = "petals"
	LayerFlyingBird     LayerType = "flying_bird"
)

type catalogEntry struct {
	name          string
	width, height float64
	// newConfig is nil for types that render from common fields only.
	newConfig func() Config
}

func textStyle(size float64, weight string) func() Config {
	return func() Config {
		return &TextStyle{
			FontFamily: "Inter",
			FontSize:   size,
			FontWeight: weight,
			FontStyle:  "normal",
			Color:      "#ffffff",
			TextAlign:  "center",
			LineHeight: 1.4,
		}
	}
}

func button(label, action string) func() Config {
	return func() Config {
		return &ButtonConfig{
			Label:           label,
			Action:          action,
			BackgroundColor: "#ffffff",
			TextColor:       "#111111",
			BorderRadius:    24,
			FontSize:        14,
		}
	}
}

func particles(kind, color string, count int) func() Config {
	return func() Config {
		return &ParticleConfig{Kind: kind, Count: count, Color: color, Speed: 1, Size: 6}
	}
}

func photoGrid(layout string, columns int) func() Config {
	return func() Config {
		return &PhotoGridConfig{Images: []string{}, Columns: columns, Gap: 4, Layout: layout}
	}
}

func video(controls bool) func() Config {
	return func() Config {
		return &VideoConfig{Muted: true, Loop: true, Controls: controls}
	}
}

func icon(name string) func() Config {
	return func() Config {
		return &IconConfig{Name: name, Color: "#ffffff", Size: 48}
	}
}

var catalog = map[LayerType]catalogEntry{
	LayerText:      {"Text", 200, 50, textStyle(16, "400")},
	LayerHeading:   {"Heading", 300, 60, textStyle(32, "700")},
	LayerQuote:     {"Quote", 300, 120, textStyle(14, "400")},
	LayerGuestName: {"Guest Name", 260, 50, textStyle(20, "600")},
	LayerImage:     {"Image", 200, 200, nil},
	LayerGIF:       {"GIF", 150, 150, nil},
	LayerSticker:   {"Sticker", 120, 120, nil},
	LayerSVG:       {"SVG", 120, 120, icon("")},
	LayerIcon:      {"Icon", 48, 48, icon("heart")},
	LayerShape: {"Shape", 150, 150, func() Config {
		return &ShapeConfig{Shape: "rectangle", Fill: "#ffffff", Stroke: "transparent"}
	}},
	LayerDivider: {"Divider", 300, 8, func() Config {
		return &DividerConfig{Style: "solid", Color: "#ffffff", Thickness: 1}
	}},
	LayerFrame: {"Frame", 300, 400, func() Config {
		return &FrameConfig{Style: "classic", BorderColor: "#d4af37", BorderWidth: 2, Padding: 12}
	}},
	LayerButton:         {"Button", 180, 48, button("Click Here", "link")},
	LayerOpenInvitation: {"Open Invitation", 200, 48, button("Open Invitation", "open")},
	LayerLiveStreaming:  {"Live Streaming", 200, 48, button("Watch Live", "link")},
	LayerCountdown: {"Countdown", 320, 90, func() Config {
		return &CountdownConfig{
			Style:       "boxes",
			ShowDays:    true,
			ShowHours:   true,
			ShowMinutes: true,
			ShowSeconds: true,
			DigitColor:  "#ffffff",
			LabelColor:  "#cccccc",
			ExpiredText: "The day has come",
		}
	}},
	LayerCalendar: {"Save the Date", 200, 48, func() Config {
		return &CalendarConfig{Title: "Save the Date", Provider: "google", ShowButton: true}
	}},
	LayerMaps: {"Maps", 320, 220, func() Config {
		return &MapsConfig{Zoom: 15, ShowButton: true}
	}},
	LayerPhotoGrid:     {"Photo Grid", 360, 360, photoGrid("grid", 2)},
	LayerGallerySlider: {"Gallery Slider", 360, 260, photoGrid("slider", 1)},
	LayerVideo:         {"Video", 360, 200, video(true)},
	LayerYouTube:       {"YouTube", 360, 200, video(true)},
	LayerLottie: {"Lottie", 200, 200, func() Config {
		return &LottieConfig{Loop: true, Autoplay: true, Speed: 1}
	}},
	LayerRSVPForm: {"RSVP Form", 360, 420, func() Config {
		return &RSVPFormConfig{
			Title:          "Will you attend?",
			ShowAttendance: true,
			ShowGuestCount: true,
			MaxGuests:      2,
			ShowMessage:    true,
			SubmitLabel:    "Send RSVP",
			AccentColor:    "#d4af37",
		}
	}},
	LayerGuestWishes: {"Guest Wishes", 360, 420, func() Config {
		return &GuestWishesConfig{
			Title:       "Wishes",
			ShowForm:    true,
			MaxItems:    20,
			Placeholder: "Write your wishes",
			AccentColor: "#d4af37",
		}
	}},
	LayerDigitalGift: {"Digital Gift", 360, 260, func() Config {
		return &GiftConfig{Title: "Wedding Gift", Accounts: []GiftAccount{}, ShowCopyButton: true}
	}},
	LayerQRCode: {"QR Code", 160, 160, func() Config {
		return &QRCodeConfig{ForegroundColor: "#000000", BackgroundColor: "#ffffff"}
	}},
	LayerLoveStory: {"Love Story", 360, 480, func() Config {
		return &LoveStoryConfig{Items: []LoveStoryItem{}, LineColor: "#d4af37"}
	}},
	LayerMusicPlayer: {"Music Player", 48, 48, func() Config {
		return &MusicPlayerConfig{Style: "disc", Color: "#ffffff", Position: "bottom-right"}
	}},
	LayerSocialLinks: {"Social Links", 240, 48, func() Config {
		return &SocialLinksConfig{Links: []SocialLink{}, IconColor: "#ffffff", IconSize: 24}
	}},
	LayerConfetti:  {"Confetti", CanvasWidth, CanvasHeight, particles("confetti", "#f5c518", 80)},
	LayerSnow:      {"Snow", CanvasWidth, CanvasHeight, particles("snow", "#ffffff", 60)},
	LayerFireflies: {"Fireflies", CanvasWidth, CanvasHeight, particles("fireflies", "#fff3a0", 30)},
	LayerPetals:    {"Petals", CanvasWidth, CanvasHeight, particles("petals", "#f7c6d0", 40)},
	LayerFlyingBird: {"Flying Bird", 200, 120, func() Config {
		return &FlyingBirdConfig{Count: 3, Color: "#ffffff", Speed: 1, Direction: "left-to-right"}
	}},
}

// Known reports whether t is a layer type the editor can create.
func (t LayerType) Known() bool {
	_, ok := catalog[t]
	return ok
}

// ConfigKey returns the JSON key of the config block t requires, or "" if none.
func (t LayerType) ConfigKey() string {
	entry, ok := catalog[t]
	if !ok || entry.newConfig == nil {
		return ""
	}
	return entry.newConfig().ConfigKey()
}

// DefaultConfig returns a fresh default config block for t, or nil.
func DefaultConfig(t LayerType) Config {
	entry, ok := catalog[t]
	if !ok || entry.newConfig == nil {
		return nil
	}
	return entry.newConfig()
}

// LayerTypes lists every creatable layer type in lexical order.
func LayerTypes() []LayerType {
	out := make([]LayerType, 0, len(catalog))
	for t := range catalog {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
