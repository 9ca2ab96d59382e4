// Package host abstracts the Telegram Mini-App shell. The core never reads a
// host global; the composition root injects a Context and everything degrades
// to defaults when the shell is absent.
package host

// Insets are the safe-area margins in CSS pixels.
type Insets struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// Theme carries the shell's color tokens.
type Theme struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
}

// Haptics is the shell's feedback capability.
type Haptics interface {
	Impact(style string)
}

// Context is everything the core takes from the host shell. Zero insets,
// default theme and no-op haptics stand in when the shell is missing.
type Context struct {
	SafeArea Insets  `json:"safeArea"`
	Theme    Theme   `json:"theme"`
	Haptics  Haptics `json:"-"`
	Platform string  `json:"platform,omitempty"`
}

// Default is the degraded context used without a host shell.
func Default() Context {
	return Context{
		Theme:   Theme{Background: "#ffffff", Text: "#0f0f0f", Accent: "#ff6b35"},
		Haptics: NoopHaptics{},
	}
}

// Normalize fills gaps left by a partially populated shell context.
func (c Context) Normalize() Context {
	def := Default()
	if c.Theme.Background == "" {
		c.Theme.Background = def.Theme.Background
	}
	if c.Theme.Text == "" {
		c.Theme.Text = def.Theme.Text
	}
	if c.Theme.Accent == "" {
		c.Theme.Accent = def.Theme.Accent
	}
	if c.Haptics == nil {
		c.Haptics = NoopHaptics{}
	}
	return c
}

// NoopHaptics ignores all feedback requests.
type NoopHaptics struct{}

func (NoopHaptics) Impact(string) {}
