package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"storefront/pkg/cart"
)

type cartTestContext struct {
	cart      *cart.Cart
	couponErr error
}

func (c *cartTestContext) reset() {
	c.cart = nil
	c.couponErr = nil
}

func (c *cartTestContext) anEmptyCart() error {
	c.cart = cart.New()
	return nil
}

func (c *cartTestContext) iAddProductPriced(id string, price int) error {
	c.cart.AddItem(cart.Product{ID: id, Name: "Product " + id, UnitPriceMinor: int64(price)})
	return nil
}

func (c *cartTestContext) iSetTheQuantityOfTo(id string, quantity int) error {
	c.cart.SetQuantity(id, quantity)
	return nil
}

func (c *cartTestContext) iRemoveProduct(id string) error {
	c.cart.RemoveItem(id)
	return nil
}

func (c *cartTestContext) iApplyCoupon(code string) error {
	c.couponErr = c.cart.ApplyCoupon(code)
	return nil
}

func (c *cartTestContext) iClearTheCart() error {
	c.cart.Clear()
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if got := c.cart.Len(); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theCartIsEmpty() error {
	if !c.cart.IsEmpty() {
		return fmt.Errorf("expected empty cart, got %d lines", c.cart.Len())
	}
	return nil
}

func (c *cartTestContext) lineHasQuantity(id string, quantity int) error {
	for _, l := range c.cart.Lines() {
		if l.ProductID == id {
			if l.Quantity != quantity {
				return fmt.Errorf("line %s: expected quantity %d, got %d", id, quantity, l.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("line %s not in cart", id)
}

func (c *cartTestContext) theCouponIsAccepted() error {
	if c.couponErr != nil {
		return fmt.Errorf("expected coupon to be accepted, got %v", c.couponErr)
	}
	return nil
}

func (c *cartTestContext) theCouponIsRejected() error {
	if !errors.Is(c.couponErr, cart.ErrUnknownCoupon) {
		return fmt.Errorf("expected ErrUnknownCoupon, got %v", c.couponErr)
	}
	return nil
}

func (c *cartTestContext) noCouponIsActive() error {
	if cp, ok := c.cart.Coupon(); ok {
		return fmt.Errorf("expected no coupon, got %s", cp.Code)
	}
	return nil
}

func expectAmount(name string, got decimal.Decimal, want string) error {
	w, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if !got.Equal(w) {
		return fmt.Errorf("expected %s %s, got %s", name, want, got)
	}
	return nil
}

func (c *cartTestContext) theSubtotalIs(want string) error {
	return expectAmount("subtotal", decimal.NewFromInt(c.cart.Subtotal()), want)
}

func (c *cartTestContext) theDiscountIs(want string) error {
	return expectAmount("discount", c.cart.Discount(), want)
}

func (c *cartTestContext) theTotalIs(want string) error {
	return expectAmount("total", c.cart.Total(), want)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)

	// When steps
	ctx.Step(`^I add product "([^"]*)" priced (\d+)$`, tc.iAddProductPriced)
	ctx.Step(`^I set the quantity of "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfTo)
	ctx.Step(`^I remove product "([^"]*)"$`, tc.iRemoveProduct)
	ctx.Step(`^I apply coupon "([^"]*)"$`, tc.iApplyCoupon)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^line "([^"]*)" has quantity (\d+)$`, tc.lineHasQuantity)
	ctx.Step(`^the coupon is accepted$`, tc.theCouponIsAccepted)
	ctx.Step(`^the coupon is rejected$`, tc.theCouponIsRejected)
	ctx.Step(`^no coupon is active$`, tc.noCouponIsActive)
	ctx.Step(`^the subtotal is "([^"]*)"$`, tc.theSubtotalIs)
	ctx.Step(`^the discount is "([^"]*)"$`, tc.theDiscountIs)
	ctx.Step(`^the total is "([^"]*)"$`, tc.theTotalIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
