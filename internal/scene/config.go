package scene

// Config is the type-specific block carried by a layer. Each implementation is
// stored under its own JSON key next to the common layer fields.
type Config interface {
	ConfigKey() string
}

type TextStyle struct {
	FontFamily    string  `json:"fontFamily"`
	FontSize      float64 `json:"fontSize"`
	FontWeight    string  `json:"fontWeight"`
	FontStyle     string  `json:"fontStyle"`
	Color         string  `json:"color"`
	TextAlign     string  `json:"textAlign"`
	LineHeight    float64 `json:"lineHeight"`
	LetterSpacing float64 `json:"letterSpacing"`
	TextShadow    string  `json:"textShadow,omitempty"`
}

func (*TextStyle) ConfigKey() string { return "textStyle" }

type ButtonConfig struct {
	Label           string  `json:"label"`
	Action          string  `json:"action"`
	URL             string  `json:"url,omitempty"`
	BackgroundColor string  `json:"backgroundColor"`
	TextColor       string  `json:"textColor"`
	BorderRadius    float64 `json:"borderRadius"`
	FontSize        float64 `json:"fontSize"`
}

func (*ButtonConfig) ConfigKey() string { return "buttonConfig" }

type ShapeConfig struct {
	Shape        string  `json:"shape"`
	Fill         string  `json:"fill"`
	Stroke       string  `json:"stroke"`
	StrokeWidth  float64 `json:"strokeWidth"`
	CornerRadius float64 `json:"cornerRadius"`
}

func (*ShapeConfig) ConfigKey() string { return "shapeConfig" }

type CountdownConfig struct {
	TargetDate  string `json:"targetDate"`
	Style       string `json:"style"`
	ShowDays    bool   `json:"showDays"`
	ShowHours   bool   `json:"showHours"`
	ShowMinutes bool   `json:"showMinutes"`
	ShowSeconds bool   `json:"showSeconds"`
	DigitColor  string `json:"digitColor"`
	LabelColor  string `json:"labelColor"`
	ExpiredText string `json:"expiredText"`
}

func (*CountdownConfig) ConfigKey() string { return "countdownConfig" }

type CalendarConfig struct {
	Date       string `json:"date"`
	Title      string `json:"title"`
	Provider   string `json:"provider"`
	ShowButton bool   `json:"showButton"`
}

func (*CalendarConfig) ConfigKey() string { return "calendarConfig" }

type MapsConfig struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Address    string  `json:"address"`
	URL        string  `json:"url"`
	Zoom       int     `json:"zoom"`
	ShowButton bool    `json:"showButton"`
}

func (*MapsConfig) ConfigKey() string { return "mapsConfig" }

type PhotoGridConfig struct {
	Images   []string `json:"images"`
	Columns  int      `json:"columns"`
	Gap      float64  `json:"gap"`
	Layout   string   `json:"layout"`
	Autoplay bool     `json:"autoplay"`
}

func (*PhotoGridConfig) ConfigKey() string { return "photoGridConfig" }

type VideoConfig struct {
	URL      string `json:"url"`
	Autoplay bool   `json:"autoplay"`
	Muted    bool   `json:"muted"`
	Loop     bool   `json:"loop"`
	Controls bool   `json:"controls"`
}

func (*VideoConfig) ConfigKey() string { return "videoConfig" }

type IconConfig struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Size  float64 `json:"size"`
}

func (*IconConfig) ConfigKey() string { return "iconConfig" }

type LottieConfig struct {
	URL      string  `json:"url"`
	Loop     bool    `json:"loop"`
	Autoplay bool    `json:"autoplay"`
	Speed    float64 `json:"speed"`
}

func (*LottieConfig) ConfigKey() string { return "lottieConfig" }

type RSVPFormConfig struct {
	Title          string `json:"title"`
	ShowAttendance bool   `json:"showAttendance"`
	ShowGuestCount bool   `json:"showGuestCount"`
	MaxGuests      int    `json:"maxGuests"`
	ShowMessage    bool   `json:"showMessage"`
	SubmitLabel    string `json:"submitLabel"`
	AccentColor    string `json:"accentColor"`
}

func (*RSVPFormConfig) ConfigKey() string { return "rsvpFormConfig" }

type GuestWishesConfig struct {
	Title       string `json:"title"`
	ShowForm    bool   `json:"showForm"`
	MaxItems    int    `json:"maxItems"`
	Placeholder string `json:"placeholder"`
	AccentColor string `json:"accentColor"`
}

func (*GuestWishesConfig) ConfigKey() string { return "guestWishesConfig" }

type GiftAccount struct {
	Bank   string `json:"bank"`
	Number string `json:"number"`
	Holder string `json:"holder"`
}

type GiftConfig struct {
	Title          string        `json:"title"`
	Accounts       []GiftAccount `json:"accounts"`
	ShippingAddr   string        `json:"shippingAddress,omitempty"`
	ShowCopyButton bool          `json:"showCopyButton"`
}

func (*GiftConfig) ConfigKey() string { return "giftConfig" }

type QRCodeConfig struct {
	Value           string `json:"value"`
	ForegroundColor string `json:"foregroundColor"`
	BackgroundColor string `json:"backgroundColor"`
}

func (*QRCodeConfig) ConfigKey() string { return "qrCodeConfig" }

type LoveStoryItem struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type LoveStoryConfig struct {
	Items     []LoveStoryItem `json:"items"`
	LineColor string          `json:"lineColor"`
}

func (*LoveStoryConfig) ConfigKey() string { return "loveStoryConfig" }

type MusicPlayerConfig struct {
	Style    string `json:"style"`
	Color    string `json:"color"`
	Position string `json:"position"`
}

func (*MusicPlayerConfig) ConfigKey() string { return "musicPlayerConfig" }

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type SocialLinksConfig struct {
	Links     []SocialLink `json:"links"`
	IconColor string       `json:"iconColor"`
	IconSize  float64      `json:"iconSize"`
}

func (*SocialLinksConfig) ConfigKey() string { return "socialLinksConfig" }

type ParticleConfig struct {
	Kind  string  `json:"kind"`
	Count int     `json:"count"`
	Color string  `json:"color"`
	Speed float64 `json:"speed"`
	Size  float64 `json:"size"`
}

func (*ParticleConfig) ConfigKey() string { return "particleConfig" }

type FlyingBirdConfig struct {
	Count     int     `json:"count"`
	Color     string  `json:"color"`
	Speed     float64 `json:"speed"`
	Direction string  `json:"direction"`
}

func (*FlyingBirdConfig) ConfigKey() string { return "flyingBirdConfig" }

type DividerConfig struct {
	Style     string  `json:"style"`
	Color     string  `json:"color"`
	Thickness float64 `json:"thickness"`
}

func (*DividerConfig) ConfigKey() string { return "dividerConfig" }

type FrameConfig struct {
	Style       string  `json:"style"`
	BorderColor string  `json:"borderColor"`
	BorderWidth float64 `json:"borderWidth"`
	Padding     float64 `json:"padding"`
}

func (*FrameConfig) ConfigKey() string { return "frameConfig" }

// ConfigOf returns the layer's config block as T when the layer carries one of that type.
func ConfigOf[T Config](l Layer) (T, bool) {
	cfg, ok := l.Config.(T)
	return cfg, ok
}
