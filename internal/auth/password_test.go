package auth

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var passwordAlphabet = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()-_=+ äöüßéñ日本語")

func randomPassword(r *rand.Rand, length int) string {
	runes := make([]rune, length)
	for i := range runes {
		runes[i] = passwordAlphabet[r.Intn(len(passwordAlphabet))]
	}
	return string(runes)
}

func TestPasswordRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		// Lengths hug the 6-char registration minimum and stretch well past
		// it, with unicode mixed in via the alphabet.
		length := 6 + r.Intn(40)
		password := randomPassword(r, length)

		hash, err := HashPassword(password)
		require.NoError(t, err, "password %q", password)
		assert.True(t, CheckPassword(password, hash), "password %q must verify against its own hash", password)

		if i%10 == 0 {
			other := password + "x"
			assert.False(t, CheckPassword(other, hash), "password %q must not verify %q", hash, other)
		}
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$broken"} {
		t.Run(fmt.Sprintf("hash=%q", hash), func(t *testing.T) {
			assert.False(t, CheckPassword("whatever", hash))
		})
	}
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
