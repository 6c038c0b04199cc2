package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("creates address with all fields", func(t *testing.T) {
		addr, err := NewAddress("1 Main St", "Springfield", "IL", "62701", "Canada")
		require.NoError(t, err)

		assert.Equal(t, "1 Main St", addr.Street())
		assert.Equal(t, "Springfield", addr.City())
		assert.Equal(t, "IL", addr.State())
		assert.Equal(t, "62701", addr.PostalCode())
		assert.Equal(t, "Canada", addr.Country())
		assert.False(t, addr.IsEmpty())
	})

	t.Run("defaults country when blank", func(t *testing.T) {
		addr, err := NewAddress("1 Main St", "Springfield", "IL", "62701", "")
		require.NoError(t, err)
		assert.Equal(t, DefaultCountry, addr.Country())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		addr, err := NewAddress(" 1 Main St ", " Springfield ", " IL ", " 62701 ", "")
		require.NoError(t, err)
		assert.Equal(t, "1 Main St", addr.Street())
		assert.Equal(t, "Springfield", addr.City())
	})

	t.Run("requires each subfield", func(t *testing.T) {
		cases := []struct {
			name                             string
			street, city, state, postalCode  string
			wantErr                          string
		}{
			{"missing street", "", "Springfield", "IL", "62701", "street is required"},
			{"missing city", "1 Main St", "", "IL", "62701", "city is required"},
			{"missing state", "1 Main St", "Springfield", "", "62701", "state is required"},
			{"missing postal code", "1 Main St", "Springfield", "IL", "", "postal code is required"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewAddress(tc.street, tc.city, tc.state, tc.postalCode, "")
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			})
		}
	})
}

func TestAddressFullAddress(t *testing.T) {
	addr := MustNewAddress("1 Main St", "Springfield", "IL", "62701", "")
	assert.Equal(t, "1 Main St, Springfield, IL, 62701, United States", addr.FullAddress())
	assert.Equal(t, "", EmptyAddress().FullAddress())
}

func TestAddressEquals(t *testing.T) {
	a := MustNewAddress("1 Main St", "Springfield", "IL", "62701", "")
	b := MustNewAddress("1 Main St", "Springfield", "IL", "62701", "")
	c := MustNewAddress("9 Oak Ave", "Springfield", "IL", "62701", "")

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestAddressJSONRoundTrip(t *testing.T) {
	addr := MustNewAddress("1 Main St", "Springfield", "IL", "62701", "")

	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, addr.Equals(decoded))
}

func TestAddressScan(t *testing.T) {
	t.Run("scans JSON bytes", func(t *testing.T) {
		var addr Address
		err := addr.Scan([]byte(`{"street":"1 Main St","city":"Springfield","state":"IL","postalCode":"62701","country":"United States"}`))
		require.NoError(t, err)
		assert.Equal(t, "1 Main St", addr.Street())
	})

	t.Run("nil becomes empty address", func(t *testing.T) {
		var addr Address
		require.NoError(t, addr.Scan(nil))
		assert.True(t, addr.IsEmpty())
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		var addr Address
		assert.Error(t, addr.Scan(42))
	})

	t.Run("empty address stores as NULL", func(t *testing.T) {
		v, err := EmptyAddress().Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}
