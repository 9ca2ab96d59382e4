package host

import "testing"

func TestNormalizeFillsDefaults(t *testing.T) {
	c := Context{}.Normalize()
	if c.Theme.Background == "" || c.Theme.Text == "" || c.Theme.Accent == "" {
		t.Fatalf("expected a full default theme, got %+v", c.Theme)
	}
	if c.Haptics == nil {
		t.Fatal("expected no-op haptics")
	}
	c.Haptics.Impact("medium")

	if c.SafeArea != (Insets{}) {
		t.Fatalf("absent shell means zero insets, got %+v", c.SafeArea)
	}
}

func TestNormalizeKeepsShellValues(t *testing.T) {
	c := Context{
		SafeArea: Insets{Top: 44, Bottom: 34},
		Theme:    Theme{Background: "#17212b"},
		Platform: "ios",
	}.Normalize()

	if c.SafeArea.Top != 44 {
		t.Fatalf("shell insets lost: %+v", c.SafeArea)
	}
	if c.Theme.Background != "#17212b" {
		t.Fatalf("shell background lost: %s", c.Theme.Background)
	}
	if c.Theme.Text == "" {
		t.Fatal("missing theme fields must be filled")
	}
}
