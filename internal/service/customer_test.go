package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skagen/norna/internal/domain"
)

func TestLookupByPhone_Found(t *testing.T) {
	svc := NewCustomerService(&mockCustomerStore{customer: &domain.Customer{
		Phone:     "208-555-0101",
		FirstName: "Ana",
	}})

	customer, err := svc.LookupByPhone(storefrontContext(), "208-555-0101")

	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "Ana", customer.FirstName)
}

func TestLookupByPhone_NotFoundIsNil(t *testing.T) {
	svc := NewCustomerService(&mockCustomerStore{})

	customer, err := svc.LookupByPhone(storefrontContext(), "208-555-0199")

	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestLookupByPhone_RequiresPhone(t *testing.T) {
	svc := NewCustomerService(&mockCustomerStore{})

	_, err := svc.LookupByPhone(storefrontContext(), "")

	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestUpdateSettings_Validation(t *testing.T) {
	registry := &mockStoreRegistry{store: testStore()}
	svc := NewStoreService(registry)

	blank := ""
	_, err := svc.UpdateSettings(storefrontContext(), domain.StoreSettingsParams{Name: &blank})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.UpdateSettings(storefrontContext(), domain.StoreSettingsParams{
		PaymentMethods: []domain.PaymentMethod{"paypal"},
	})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.UpdateSettings(storefrontContext(), domain.StoreSettingsParams{
		DeliveryZones: []domain.DeliveryZone{{Zip: "83864", FeeCents: -5}},
	})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.False(t, registry.updateCalled)

	fee := int64(750)
	_, err = svc.UpdateSettings(storefrontContext(), domain.StoreSettingsParams{
		PaymentMethods:          []domain.PaymentMethod{domain.PaymentCash, domain.PaymentCard},
		DefaultDeliveryFeeCents: &fee,
	})
	require.NoError(t, err)
	assert.True(t, registry.updateCalled)
}
