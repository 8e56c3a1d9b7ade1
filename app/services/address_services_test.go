package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/testkit"
)

func TestAddressBook(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewAddressService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	home, err := svc.Create(bg, alice.ID, AddressInput{
		AddressLine1: "1 Rustaveli Ave", City: "Tbilisi", State: "Tbilisi", ZipCode: "0108",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCountry, home.Country)
	assert.Equal(t, alice.ID, home.UserID)

	_, err = svc.Get(bg, bob.ID, home.ID)
	assert.ErrorIs(t, err, ErrNotFound, "someone else's address is not found")

	updated, err := svc.Update(bg, alice.ID, home.ID, AddressPatch{City: ptr("Batumi")})
	require.NoError(t, err)
	assert.Equal(t, "Batumi", updated.City)
	assert.Equal(t, "1 Rustaveli Ave", updated.AddressLine1)

	_, err = svc.Update(bg, bob.ID, home.ID, AddressPatch{City: ptr("Kutaisi")})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(bg, bob.ID, home.ID), ErrNotFound)
	require.NoError(t, svc.Delete(bg, alice.ID, home.ID))

	list, err := svc.List(bg, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Get(bg, alice.ID, home.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
