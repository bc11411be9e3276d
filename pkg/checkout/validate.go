package checkout

import (
	"strings"

	"storefront/pkg/order"
	"storefront/pkg/validate"
)

// NormalizeCustomer trims surrounding whitespace from every field.
func NormalizeCustomer(c order.Customer) order.Customer {
	return order.Customer{
		Name:       strings.TrimSpace(c.Name),
		Email:      strings.TrimSpace(c.Email),
		Phone:      strings.TrimSpace(c.Phone),
		Address:    strings.TrimSpace(c.Address),
		PostalCode: strings.TrimSpace(c.PostalCode),
	}
}

// ValidateCustomer checks the checkout form. It returns a *validate.Error
// naming every bad field.
func ValidateCustomer(c order.Customer) error {
	c = NormalizeCustomer(c)
	var v validate.Error
	if c.Name == "" {
		v.Add("name", "required")
	}
	switch {
	case c.Email == "":
		v.Add("email", "required")
	case !validate.Email(c.Email):
		v.Add("email", "must be a valid email address")
	}
	switch {
	case c.Phone == "":
		v.Add("phone", "required")
	case !validate.Phone(c.Phone):
		v.Add("phone", "must contain 7 to 15 digits")
	}
	if c.Address == "" {
		v.Add("address", "required")
	}
	switch {
	case c.PostalCode == "":
		v.Add("postalCode", "required")
	case !validate.PostalCode(c.PostalCode):
		v.Add("postalCode", "must be 4 to 10 letters or digits")
	}
	return v.Err()
}
