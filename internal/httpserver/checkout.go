package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surf-storefront/internal/checkout"
	"surf-storefront/internal/domain"
	"surf-storefront/internal/session"
)

func checkoutView(cs *checkout.Session) gin.H {
	view := gin.H{
		"step":       cs.Step(),
		"details":    cs.Details(),
		"processing": cs.Processing(),
	}
	if result, ok := cs.Result(); ok {
		view["result"] = result
	}
	return view
}

func mountedCheckout(c *gin.Context) (*session.Session, *checkout.Session, bool) {
	s := currentSession(c)
	cs := s.Checkout()
	if cs == nil {
		errorJSON(c, domain.ErrInvalidStep)
		return nil, nil, false
	}
	return s, cs, true
}

// startCheckout mounts a checkout session over the current cart snapshot.
func startCheckout(c *gin.Context) {
	s := currentSession(c)
	cs, err := s.StartCheckout()
	if err != nil {
		errorJSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, checkoutView(cs))
}

func getCheckout(c *gin.Context) {
	_, cs, ok := mountedCheckout(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, checkoutView(cs))
}

func setCheckoutDetails(c *gin.Context) {
	_, cs, ok := mountedCheckout(c)
	if !ok {
		return
	}
	var details checkout.Details
	if err := c.ShouldBindJSON(&details); err != nil {
		badRequest(c, "invalid details payload")
		return
	}
	if err := cs.SetDetails(details); err != nil {
		errorJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, checkoutView(cs))
}

func advanceCheckout(c *gin.Context) {
	_, cs, ok := mountedCheckout(c)
	if !ok {
		return
	}
	cs.Advance()
	c.JSON(http.StatusOK, checkoutView(cs))
}

func checkoutBack(c *gin.Context) {
	_, cs, ok := mountedCheckout(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": cs.Back(), "step": cs.Step()})
}

type payRequest struct {
	Method checkout.PaymentMethod `json:"method"`
}

// payCheckout starts the simulated processing; clients poll GET /checkout
// until the step reaches success.
func payCheckout(c *gin.Context) {
	_, cs, ok := mountedCheckout(c)
	if !ok {
		return
	}
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payment payload")
		return
	}
	if err := cs.Pay(req.Method); err != nil {
		errorJSON(c, err)
		return
	}
	c.JSON(http.StatusAccepted, checkoutView(cs))
}

// completeCheckout is the "new order" action: append the order, clear the
// cart, unmount the checkout.
func completeCheckout(c *gin.Context) {
	s := currentSession(c)
	order, err := s.CompleteCheckout()
	if err != nil {
		errorJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "cart": cartView(s)})
}

func abandonCheckout(c *gin.Context) {
	s := currentSession(c)
	s.AbandonCheckout()
	c.Status(http.StatusNoContent)
}
