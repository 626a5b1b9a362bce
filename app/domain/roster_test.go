package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster(t *testing.T) {
	roster := Roster()
	require.Len(t, roster, 7)

	wantRoles := []Role{RoleAdmin, RoleDistrict, RoleBlock, RoleSupervisor, RoleTeacher, RoleNRC, RolePublic}
	emails := make(map[string]bool)
	for i, spec := range roster {
		assert.Equal(t, wantRoles[i], spec.Role, "roster order for entry %d", i)
		assert.NotEmpty(t, spec.Name)
		assert.NotEmpty(t, spec.Designation)
		assert.NotEmpty(t, spec.Department)

		key := strings.ToLower(spec.Email)
		assert.False(t, emails[key], "duplicate email %s", spec.Email)
		emails[key] = true
	}
}

func TestRoster_ReturnsCopy(t *testing.T) {
	first := Roster()
	first[0].Email = "changed@example.com"

	assert.NotEqual(t, "changed@example.com", Roster()[0].Email)
}

func TestParseRoster(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantLen int
		wantErr string
	}{
		{
			name: "valid document",
			doc: `
accounts:
  - email: a@example.com
    name: A
    role: admin
  - email: b@example.com
    name: B
    role: public
`,
			wantLen: 2,
		},
		{
			name:    "empty roster",
			doc:     "accounts: []",
			wantErr: "roster is empty",
		},
		{
			name: "unknown role",
			doc: `
accounts:
  - email: a@example.com
    name: A
    role: root
`,
			wantErr: "roster entry 0",
		},
		{
			name: "case-insensitive duplicate email",
			doc: `
accounts:
  - email: a@example.com
    name: A
    role: admin
  - email: A@Example.com
    name: A2
    role: block
`,
			wantErr: "duplicates entry 0",
		},
		{
			name:    "malformed yaml",
			doc:     "accounts: [",
			wantErr: "failed to decode roster",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster, err := ParseRoster([]byte(tt.doc))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, roster, tt.wantLen)
		})
	}
}
