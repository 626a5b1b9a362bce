package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAccountByEmail(t *testing.T) {
	accounts := []Account{
		{ID: "1", Email: "first@example.com"},
		{ID: "2", Email: "Teacher@Demo.Portal.gov.in"},
	}

	found, ok := FindAccountByEmail(accounts, "teacher@demo.portal.gov.in")
	require.True(t, ok)
	assert.Equal(t, "2", found.ID)

	_, ok = FindAccountByEmail(accounts, "missing@example.com")
	assert.False(t, ok)
}

func TestNewAccountFromSpec(t *testing.T) {
	spec := Roster()[0]
	acc := NewAccountFromSpec(spec, DemoDefaultPassword)

	assert.Equal(t, spec.Email, acc.Email)
	assert.Equal(t, DemoDefaultPassword, acc.Password)
	assert.True(t, acc.Confirmed)
	assert.Equal(t, spec.Name, acc.Metadata.Name)
	assert.Equal(t, spec.Designation, acc.Metadata.Designation)
	assert.Equal(t, spec.Department, acc.Metadata.Department)
	assert.NoError(t, acc.Validate())
}

func TestNewAccount_Validate(t *testing.T) {
	assert.ErrorIs(t, NewAccount{Email: "not-an-email", Password: "x"}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, NewAccount{Email: "a@example.com"}.Validate(), ErrInvalidInput)
}

func TestNewRoleAssignment(t *testing.T) {
	id := uuid.New()

	ra, err := NewRoleAssignment(id.String(), RoleBlock)
	require.NoError(t, err)
	assert.Equal(t, id, ra.AccountID)
	assert.Equal(t, RoleBlock, ra.Role)
	assert.NotEqual(t, uuid.Nil, ra.ID)

	_, err = NewRoleAssignment("not-a-uuid", RoleBlock)
	assert.ErrorIs(t, err, ErrInvalidAccountID)

	_, err = NewRoleAssignment(id.String(), Role("root"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestNewProfile(t *testing.T) {
	p := NewProfile(Account{ID: "1", Email: "a@example.com"}, nil)
	assert.Equal(t, RolePublic, p.Role)
	assert.NotNil(t, p.Roles)
	assert.Equal(t, []Permission{PermissionPublicStats}, p.Permissions)

	p = NewProfile(Account{ID: "1"}, []Role{RoleTeacher, RoleDistrict})
	assert.Equal(t, RoleDistrict, p.Role)
}

func TestNewSessionContext(t *testing.T) {
	valid := &IdentitySession{
		ID:        "sess-1",
		Token:     "tok",
		Active:    true,
		ExpiresAt: time.Now().Add(time.Hour),
		Account:   Account{ID: uuid.NewString(), Email: "a@example.com"},
	}

	sc, err := NewSessionContext(valid)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sc.SessionID)
	assert.Equal(t, "tok", sc.Token)

	_, err = NewSessionContext(nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	inactive := *valid
	inactive.Active = false
	_, err = NewSessionContext(&inactive)
	assert.ErrorIs(t, err, ErrSessionInactive)

	expired := *valid
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	_, err = NewSessionContext(&expired)
	assert.ErrorIs(t, err, ErrSessionInactive)

	noEmail := *valid
	noEmail.Account.Email = ""
	_, err = NewSessionContext(&noEmail)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
