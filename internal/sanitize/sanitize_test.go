package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "guest.user@mail.example.com", "x+tag@y.io"}
	for _, s := range valid {
		assert.True(t, IsValidEmail(s), s)
	}
	invalid := []string{"", "plain", "a@b", "a @b.co", "@b.co", "a@.", "a@b co.m"}
	for _, s := range invalid {
		assert.False(t, IsValidEmail(s), s)
	}
}

func TestValidatePasswordNamesFirstUnmetRule(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
		contains string
	}{
		{"Abcdef12", true, ""},
		{"short", false, "8 karakter"},
		{"alllowercase1", false, "büyük harf"},
		{"ALLUPPERCASE1", false, "küçük harf"},
		{"NoDigitsHere", false, "rakam"},
	}
	for _, tc := range cases {
		res := ValidatePassword(tc.password)
		assert.Equal(t, tc.valid, res.Valid, tc.password)
		if !tc.valid {
			assert.Contains(t, res.Message, tc.contains)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("kozbeyli-konagi"))
	assert.True(t, IsValidSlug("abc"))
	assert.True(t, IsValidSlug("cafe-34"))

	assert.False(t, IsValidSlug("ab"))                        // too short
	assert.False(t, IsValidSlug(strings.Repeat("a", 51)))     // too long
	assert.False(t, IsValidSlug("-leading"))
	assert.False(t, IsValidSlug("trailing-"))
	assert.False(t, IsValidSlug("Üsküdar"))
	assert.False(t, IsValidSlug("has space"))
}

func TestIsValidRatingTotality(t *testing.T) {
	assert.False(t, IsValidRating(0))
	assert.True(t, IsValidRating(1))
	assert.True(t, IsValidRating(3))
	assert.True(t, IsValidRating(5))
	assert.False(t, IsValidRating(6))
	assert.False(t, IsValidRating(3.5))
	assert.False(t, IsValidRating(-2))
}

func TestSlugifyTransliteration(t *testing.T) {
	require.Equal(t, "kozbeyli-konagi", Slugify("Kozbeyli Konağı"))
	assert.Equal(t, "uskudar-cicek-pasaji", Slugify("Üsküdar Çiçek Pasajı"))
	assert.Equal(t, "cafe-a-la-mode", Slugify("Café à la Mode"))
	assert.Equal(t, "istanbul", Slugify("İstanbul"))
	assert.Equal(t, "menu-2024", Slugify("  Menü -- 2024!  "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Kozbeyli Konağı", "Plain Name", "çok--garip___isim", ""}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), in)
	}
}

func TestSanitizeNameStripsControlAndMarkup(t *testing.T) {
	assert.Equal(t, "Ali Veli", SanitizeName("  Ali \t Veli \x00"))
	assert.Equal(t, "scriptalert(1)/script", SanitizeName("<script>alert(1)</script>"))

	long := strings.Repeat("a", 200)
	assert.Len(t, SanitizeName(long), 80)
}

func TestSanitizeCommentKeepsNewlines(t *testing.T) {
	got := SanitizeComment("Harika!\nTekrar geleceğiz.\x07")
	assert.Equal(t, "Harika!\nTekrar geleceğiz.", got)

	long := strings.Repeat("y", 1500)
	assert.Len(t, SanitizeComment(long), 1000)
}
