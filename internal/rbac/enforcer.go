package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// policies is the static permission table: role, resource, action.
// Roles come from the JWT claims set by the auth middleware.
var policies = [][]string{
	{RoleAdmin, "employee", "create"},
	{RoleAdmin, "employee", "read"},
	{RoleAdmin, "employee", "read_all"},
	{RoleAdmin, "employee", "deactivate"},
	{RoleAdmin, "leave", "apply"},
	{RoleAdmin, "leave", "read"},
	{RoleAdmin, "leave", "review"},
	{RoleAdmin, "balance", "read"},
	{RoleAdmin, "balance", "read_all"},
	{RoleAdmin, "attendance", "read"},
	{RoleAdmin, "attendance", "read_all"},
	{RoleAdmin, "attendance", "generate"},

	{RoleEmployee, "employee", "read"},
	{RoleEmployee, "leave", "apply"},
	{RoleEmployee, "leave", "read"},
	{RoleEmployee, "balance", "read"},
	{RoleEmployee, "attendance", "read"},
}

const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// Enforcer wraps casbin with the in-code model and policy table.
// Policies are loaded once at construction; Enforce is safe for
// concurrent use.
type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return &Enforcer{enforcer: e}, nil
}

func (e *Enforcer) Enforce(role, resource, action string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enforcer.Enforce(role, resource, action)
}
