package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "patient", want: RolePatient},
		{in: " Doctor ", want: RoleDoctor},
		{in: "admin", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUser_Clone_DoesNotSharePasswordTimestamp(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u := User{ID: "u1", PasswordLastChanged: &ts}

	c := u.Clone()
	*c.PasswordLastChanged = ts.Add(time.Hour)

	assert.Equal(t, ts, *u.PasswordLastChanged)
}

func TestUser_ActivityReference(t *testing.T) {
	login := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	u := User{LoginTime: login}
	assert.Equal(t, login, u.ActivityReference())

	u.LastActivity = login.Add(2 * time.Hour)
	assert.Equal(t, login.Add(2*time.Hour), u.ActivityReference())
}

func TestProfileUpdate_ApplyTo_OnlyNonNil(t *testing.T) {
	name := "Jo Smith"
	phone := ""
	u := User{Name: "Jo", Email: "jo@x.com", Phone: "555", Role: RolePatient}

	ProfileUpdate{Name: &name, Phone: &phone}.ApplyTo(&u)

	assert.Equal(t, "Jo Smith", u.Name)
	assert.Equal(t, "jo@x.com", u.Email)
	assert.Equal(t, "", u.Phone)
	assert.Equal(t, RolePatient, u.Role)
}

func TestProfileUpdate_IsEmpty(t *testing.T) {
	assert.True(t, ProfileUpdate{}.IsEmpty())
	s := "x"
	assert.False(t, ProfileUpdate{Email: &s}.IsEmpty())
}

func TestUser_JSONFieldNames(t *testing.T) {
	login := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	u := User{ID: "u1", Name: "Jo", Email: "jo@x.com", Role: RoleDoctor, LoginTime: login, SessionID: "s1", IsActive: true}

	b, err := json.Marshal(u)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"id", "name", "email", "role", "loginTime", "sessionId", "isActive"} {
		assert.Contains(t, m, k)
	}
	assert.NotContains(t, m, "lastActivity", "zero timestamps are omitted")
	assert.NotContains(t, m, "passwordLastChanged")
	assert.NotContains(t, m, "password")
}
