package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	tests := []struct {
		center string
		admin  bool
	}{
		{center: "ALL", admin: true},
		{center: "all", admin: true},
		{center: " All ", admin: true},
		{center: "Acorn", admin: false},
		{center: "", admin: false},
	}
	for _, tt := range tests {
		t.Run(tt.center, func(t *testing.T) {
			acc := NewContext("user", tt.center)
			assert.Equal(t, tt.admin, acc.IsAdministrator)
		})
	}
}

func TestContext_WithOverride(t *testing.T) {
	t.Run("administrator narrows to selected center", func(t *testing.T) {
		acc := NewContext("admin", "ALL").WithOverride(" Maple ")

		assert.Equal(t, "Maple", acc.EffectiveCenter())
		assert.False(t, acc.Unrestricted())
	})

	t.Run("administrator without override is unrestricted", func(t *testing.T) {
		acc := NewContext("admin", "ALL")

		assert.Equal(t, "", acc.EffectiveCenter())
		assert.True(t, acc.Unrestricted())
	})

	t.Run("empty override clears selection", func(t *testing.T) {
		acc := NewContext("admin", "ALL").WithOverride("Maple").WithOverride("")

		assert.True(t, acc.Unrestricted())
	})

	t.Run("center user ignores override", func(t *testing.T) {
		acc := NewContext("staff", "Acorn").WithOverride("Maple")

		assert.Equal(t, "Acorn", acc.EffectiveCenter())
		assert.Empty(t, acc.CenterOverride)
		assert.False(t, acc.Unrestricted())
	})
}

func TestCurrent(t *testing.T) {
	_, err := Current(context.Background())
	assert.ErrorIs(t, err, ErrNoAccess)

	acc := NewContext("staff", "Acorn")
	got, err := Current(WithContext(context.Background(), acc))
	require.NoError(t, err)
	assert.Equal(t, acc, got)
}
