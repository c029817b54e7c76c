package service

import (
	"github.com/skagen/norna/internal/domain"
)

// Lookup errors - use domain.ENOTFOUND
var (
	ErrOrderNotFound   = domain.Errorf(domain.ENOTFOUND, "", "Order not found")
	ErrProductNotFound = domain.Errorf(domain.ENOTFOUND, "", "Product not found")
	ErrStoreNotFound   = domain.Errorf(domain.ENOTFOUND, "", "Store not found")
)

// Validation errors - use domain.EINVALID
var (
	ErrEmptyCart                = domain.Errorf(domain.EINVALID, "", "Cart is empty")
	ErrInvalidQuantity          = domain.Errorf(domain.EINVALID, "", "Quantity must be greater than 0")
	ErrMissingShippingAddress   = domain.Errorf(domain.EINVALID, "", "Shipping address required for delivery orders")
	ErrMissingCustomerPhone     = domain.Errorf(domain.EINVALID, "", "Customer phone required for checkout")
	ErrPaymentMethodNotAccepted = domain.Errorf(domain.EINVALID, "", "Payment method not accepted by this store")
	ErrInvalidFulfillment       = domain.Errorf(domain.EINVALID, "", "Unknown fulfillment method")
	ErrUnknownStatus            = domain.Errorf(domain.EINVALID, "", "Unknown order status")
)

// Conflict errors - use domain.ECONFLICT
var (
	ErrTenantMismatch = domain.ErrTenantMismatch
	ErrStatusConflict = domain.Conflict("", "Order status changed concurrently, reload and retry")
)
