package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize_SinglePermission(t *testing.T) {
	perms := NewPermissionSet("Department.Create", "Department.Read")
	assert.True(t, Authorize(perms, Permission("Department.Create")))
	assert.False(t, Authorize(perms, Permission("Department.Delete")))
	assert.False(t, Authorize(perms, Permission("")))
}

func TestAuthorize_FailClosed(t *testing.T) {
	perms := NewPermissionSet("Department.Create")
	assert.False(t, Authorize(perms, nil))
	assert.False(t, Authorize(perms, All{}))
	assert.False(t, Authorize(perms, Any{}))
	assert.False(t, Authorize(perms, All{Permission("Department.Create"), nil}))
	assert.False(t, Authorize(nil, Permission("Department.Create")))
}

func TestAuthorize_Algebra(t *testing.T) {
	a, b := Permission("User.Read"), Permission("Payroll.Generate")
	sets := []PermissionSet{
		NewPermissionSet(),
		NewPermissionSet("User.Read"),
		NewPermissionSet("Payroll.Generate"),
		NewPermissionSet("User.Read", "Payroll.Generate"),
	}
	for _, p := range sets {
		assert.Equal(t, Authorize(p, a) && Authorize(p, b), Authorize(p, All{a, b}), "all over %v", p.List())
		assert.Equal(t, Authorize(p, a) || Authorize(p, b), Authorize(p, Any{a, b}), "any over %v", p.List())
	}
}

func TestAuthorize_Nested(t *testing.T) {
	cond := All{Permission("Payroll.Read"), Any{Permission("Payroll.Generate"), Permission("Config.Update")}}
	assert.True(t, Authorize(NewPermissionSet("Payroll.Read", "Config.Update"), cond))
	assert.False(t, Authorize(NewPermissionSet("Payroll.Read"), cond))
	assert.Equal(t, "all(Payroll.Read,any(Payroll.Generate,Config.Update))", cond.String())
}

func TestDefaultCatalogue(t *testing.T) {
	c, err := DefaultCatalogue()
	require.NoError(t, err)
	assert.True(t, c.Has("BonusCategory.Assign"))
	assert.True(t, c.Has("PrimeJob.Run"))
	assert.False(t, c.Has("Department.Frobnicate"))
	assert.Equal(t, []string{"Nope.Read"}, c.Unknown([]string{"User.Read", "Nope.Read"}))

	perms := c.Permissions()
	assert.Contains(t, perms, "Observation.Create")
	assert.IsIncreasing(t, perms)
}

func TestParseCatalogue_Invalid(t *testing.T) {
	_, err := ParseCatalogue([]byte("resources:\n  - actions: [Read]\n"))
	assert.Error(t, err)
}
