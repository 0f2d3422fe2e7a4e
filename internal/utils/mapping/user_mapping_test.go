package mapping

import (
	"testing"

	"github.com/SscSPs/accounting_core/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestUserProtectedValues_RoundTrip(t *testing.T) {
	phone := "555-0100"
	m := models.User{UserID: "u1", Email: "ana@example.com", Phone: &phone}

	values := UserProtectedValues(m)
	assert.Equal(t, "ana@example.com", values[UserFieldEmail])
	assert.Equal(t, "555-0100", values[UserFieldPhone])
	assert.Nil(t, values[UserFieldAddress])
	assert.Nil(t, values[UserFieldNotes])

	values[UserFieldEmail] = "enc:email"
	values[UserFieldPhone] = "enc:phone"
	ApplyUserProtectedValues(&m, values)

	assert.Equal(t, "enc:email", m.Email)
	assert.Equal(t, "enc:phone", *m.Phone)
	assert.Nil(t, m.Address)
	assert.Equal(t, "555-0100", phone, "source pointer must not be mutated")
}
