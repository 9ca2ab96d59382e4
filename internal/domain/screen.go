package domain

// Screen is one full-viewport mode of the storefront. Exactly one is current
// at a time. ScreenProfile is special: it renders as an overlay on top of the
// current screen and never becomes the current screen itself.
type Screen string

const (
	ScreenHome       Screen = "home"
	ScreenCategories Screen = "categories"
	ScreenProduct    Screen = "product"
	ScreenCart       Screen = "cart"
	ScreenCheckout   Screen = "checkout"
	ScreenOrders     Screen = "orders"
	ScreenProfile    Screen = "profile"
)

func (s Screen) Valid() bool {
	switch s {
	case ScreenHome, ScreenCategories, ScreenProduct, ScreenCart, ScreenCheckout, ScreenOrders, ScreenProfile:
		return true
	}
	return false
}
