package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimacar/qrmenu/internal/apperrors"
	"github.com/selimacar/qrmenu/internal/models"
)

func TestProvisionRestaurantDerivesSlugFromName(t *testing.T) {
	repo := &fakeRestaurantRepo{}
	svc := NewMenuService(repo)

	restaurant, err := svc.ProvisionRestaurant("Kozbeyli Konağı", "", 7)
	require.NoError(t, err)
	assert.Equal(t, "kozbeyli-konagi", restaurant.Slug)
	assert.Equal(t, uint(7), restaurant.OwnerID)
	assert.Equal(t, "tr", restaurant.Settings.DefaultLanguage)
}

func TestProvisionRestaurantRetriesOnSlugCollision(t *testing.T) {
	repo := &fakeRestaurantRepo{restaurants: []models.Restaurant{
		{ID: 1, Slug: "kozbeyli-konagi"},
	}}
	svc := NewMenuService(repo)

	restaurant, err := svc.ProvisionRestaurant("Kozbeyli Konağı", "", 8)
	require.NoError(t, err)
	assert.Equal(t, "kozbeyli-konagi-2", restaurant.Slug)
}

func TestProvisionRestaurantRejectsInvalidSlug(t *testing.T) {
	svc := NewMenuService(&fakeRestaurantRepo{})

	_, err := svc.ProvisionRestaurant("Ad", "Invalid Slug!", 1)
	var validationErr apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "slug", validationErr.Field)
}

func TestGetPublicMenuUnknownSlug(t *testing.T) {
	svc := NewMenuService(&fakeRestaurantRepo{})

	_, err := svc.GetPublicMenu("yok-boyle-bir-yer", "tr")
	assert.ErrorIs(t, err, apperrors.ErrRestaurantNotFound)
}

func TestAuthMemoryProviderRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	provider := NewMemoryProvider(secret)
	ctx := context.Background()

	result, err := provider.Register(ctx, "owner@example.com", "Sifre1234", "Test Lokantası", "test-lokantasi")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, "test-lokantasi", result.Restaurant.Slug)

	claims, err := ValidateToken(secret, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", claims.Email)

	// Wrong password and unknown email both collapse to the same error.
	_, err = provider.Login(ctx, "owner@example.com", "yanlis-sifre")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = provider.Login(ctx, "kimse@example.com", "Sifre1234")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	again, err := provider.Login(ctx, "owner@example.com", "Sifre1234")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, again.User.ID)

	// Duplicate registration is refused.
	_, err = provider.Register(ctx, "owner@example.com", "Sifre1234", "Baska", "baska")
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestSelectorWithoutMonitorPinsPrimary(t *testing.T) {
	primary := NewMemoryProvider([]byte("a"))
	fallback := NewMemoryProvider([]byte("b"))

	selector := NewSelector(primary, fallback, nil)
	assert.Same(t, primary, selector.Current())
}

func TestValidateTokenRejectsTamperedSecret(t *testing.T) {
	token, err := GenerateToken([]byte("secret-one"), 1, "a@b.co")
	require.NoError(t, err)

	_, err = ValidateToken([]byte("secret-two"), token)
	assert.Error(t, err)
}
