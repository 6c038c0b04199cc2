package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultCountry is used when no country is supplied
const DefaultCountry = "United States"

// Address is a value object representing a postal address.
// It is immutable - all operations return new Address instances.
type Address struct {
	street     string
	city       string
	state      string
	postalCode string
	country    string
}

// NewAddress creates a new Address. Street, city, state and postal code are
// required; country defaults to DefaultCountry when blank.
func NewAddress(street, city, state, postalCode, country string) (Address, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	postalCode = strings.TrimSpace(postalCode)
	country = strings.TrimSpace(country)

	if street == "" {
		return Address{}, fmt.Errorf("street is required")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city is required")
	}
	if state == "" {
		return Address{}, fmt.Errorf("state is required")
	}
	if postalCode == "" {
		return Address{}, fmt.Errorf("postal code is required")
	}
	if len(street) > 200 {
		return Address{}, fmt.Errorf("street cannot exceed 200 characters")
	}
	if len(postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code cannot exceed 20 characters")
	}
	if country == "" {
		country = DefaultCountry
	}

	return Address{
		street:     street,
		city:       city,
		state:      state,
		postalCode: postalCode,
		country:    country,
	}, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(street, city, state, postalCode, country string) Address {
	addr, err := NewAddress(street, city, state, postalCode, country)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// State returns the state or province
func (a Address) State() string {
	return a.state
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the country
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address has no content
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == "" && a.state == "" && a.postalCode == ""
}

// FullAddress returns the complete formatted address string
func (a Address) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, 5)
	for _, p := range []string{a.street, a.city, a.state, a.postalCode, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// String returns a string representation of the address
func (a Address) String() string {
	return a.FullAddress()
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a.street == other.street &&
		a.city == other.city &&
		a.state == other.state &&
		a.postalCode == other.postalCode &&
		a.country == other.country
}

// addressJSON is used for JSON and database serialization
type addressJSON struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:     a.street,
		City:       a.city,
		State:      a.state,
		PostalCode: a.postalCode,
		Country:    a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var aux addressJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.street = aux.Street
	a.city = aux.City
	a.state = aux.State
	a.postalCode = aux.PostalCode
	a.country = aux.Country
	return nil
}

// Value implements driver.Valuer so Address can be stored as a JSON column
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner so Address can be read from a JSON column
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
	if len(data) == 0 {
		*a = Address{}
		return nil
	}
	return a.UnmarshalJSON(data)
}
