package auth

import (
	"testing"

	"github.com/mertkaya/courselog/internal/app/models"
	"github.com/stretchr/testify/assert"
)

func TestAdmitExactMatch(t *testing.T) {
	admin := &Principal{UserID: 1, Role: models.RoleAdmin, Tenant: "uvu"}
	teacher := &Principal{UserID: 2, Role: models.RoleTeacher, Tenant: "uvu"}

	assert.True(t, Admit(teacher, models.RoleTeacher))
	assert.True(t, Admit(admin, models.RoleAdmin, models.RoleTeacher))

	// No hierarchy: an admin is rejected unless admin is listed.
	assert.False(t, Admit(admin, models.RoleTeacher))
	assert.False(t, Admit(teacher, models.RoleAdmin))
	assert.False(t, Admit(teacher))
	assert.False(t, Admit(nil, models.RoleTeacher))
}

func TestSameTenant(t *testing.T) {
	p := &Principal{UserID: 1, Role: models.RoleAdmin, Tenant: "uvu"}

	assert.True(t, SameTenant(p, "uvu"))
	assert.False(t, SameTenant(p, "uofu"))
	assert.False(t, SameTenant(nil, "uvu"))
}
