package graft

import "fmt"

// Role describes how a node relates to its parent. The first group of
// roles addresses ordered containers, RoleThrown addresses the unordered
// declared-exception set, and everything after it addresses an attribute
// slot keyed by the role itself.
type Role uint8

const (
	RoleNone Role = iota

	RoleStatement
	RoleArgument
	RoleMember
	RoleTypeParam
	RoleParam

	RoleThrown

	RoleBody
	RoleCondition
	RoleThen
	RoleElse
	RoleInit
	RoleType
	RoleModifier
	RoleLeft
	RoleRight
	RoleExpr
	RoleTarget
)

var roleNames = map[Role]string{
	RoleNone:      "none",
	RoleStatement: "statement",
	RoleArgument:  "argument",
	RoleMember:    "member",
	RoleTypeParam: "typeparam",
	RoleParam:     "param",
	RoleThrown:    "thrown",
	RoleBody:      "body",
	RoleCondition: "condition",
	RoleThen:      "then",
	RoleElse:      "else",
	RoleInit:      "init",
	RoleType:      "type",
	RoleModifier:  "modifier",
	RoleLeft:      "left",
	RoleRight:     "right",
	RoleExpr:      "expr",
	RoleTarget:    "target",
}

var rolesByName = func() map[string]Role {
	m := make(map[string]Role, len(roleNames))
	for r, name := range roleNames {
		m[name] = r
	}
	return m
}()

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// RoleFromString is the inverse of String. It is used when decoding
// trees and patch files.
func RoleFromString(name string) (Role, error) {
	if r, ok := rolesByName[name]; ok {
		return r, nil
	}
	return RoleNone, fmt.Errorf("unknown role: %q", name)
}

// Ordered reports whether the role addresses an order-significant
// sequence in the parent.
func (r Role) Ordered() bool {
	return r >= RoleStatement && r <= RoleParam
}

// Slot reports whether the role addresses an attribute slot on the
// parent rather than a positional container.
func (r Role) Slot() bool {
	return r >= RoleBody
}

// orderedRoles lists the ordered container roles in canonical traversal
// order. Hashing, printing and Visit all iterate containers in this order.
var orderedRoles = []Role{
	RoleStatement,
	RoleArgument,
	RoleMember,
	RoleTypeParam,
	RoleParam,
}

// attrRoles lists the slot roles in canonical traversal order.
var attrRoles = []Role{
	RoleBody,
	RoleCondition,
	RoleThen,
	RoleElse,
	RoleInit,
	RoleType,
	RoleModifier,
	RoleLeft,
	RoleRight,
	RoleExpr,
	RoleTarget,
}
