// Package authz đánh giá điều kiện quyền cho các action route.
// Hàm đánh giá thuần túy, không truy cập store; mọi trường hợp không xác định đều bị từ chối.
package authz

import "strings"

// PermissionSet là tập quyền của user hiện tại
type PermissionSet map[string]struct{}

// NewPermissionSet tạo PermissionSet từ danh sách token
func NewPermissionSet(perms ...string) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		if p = strings.TrimSpace(p); p != "" {
			set[p] = struct{}{}
		}
	}
	return set
}

// Has kiểm tra token có trong tập quyền
func (s PermissionSet) Has(p string) bool {
	_, ok := s[p]
	return ok
}

// List trả về các token (không theo thứ tự)
func (s PermissionSet) List() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}

// Condition là một token quyền, All{...} hoặc Any{...}, lồng nhau tùy ý
type Condition interface {
	allows(perms PermissionSet) bool
	String() string
}

// Permission yêu cầu đúng một token
type Permission string

// All yêu cầu tất cả điều kiện con; All rỗng bị từ chối
type All []Condition

// Any yêu cầu ít nhất một điều kiện con; Any rỗng bị từ chối
type Any []Condition

func (p Permission) allows(perms PermissionSet) bool {
	return p != "" && perms.Has(string(p))
}

func (p Permission) String() string { return string(p) }

func (a All) allows(perms PermissionSet) bool {
	if len(a) == 0 {
		return false
	}
	for _, c := range a {
		if c == nil || !c.allows(perms) {
			return false
		}
	}
	return true
}

func (a All) String() string { return "all(" + join(a) + ")" }

func (a Any) allows(perms PermissionSet) bool {
	for _, c := range a {
		if c != nil && c.allows(perms) {
			return true
		}
	}
	return false
}

func (a Any) String() string { return "any(" + join(a) + ")" }

func join(conds []Condition) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		if c == nil {
			parts = append(parts, "<nil>")
			continue
		}
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}

// Authorize trả về true khi perms thỏa cond. cond nil => từ chối.
func Authorize(perms PermissionSet, cond Condition) bool {
	if cond == nil {
		return false
	}
	return cond.allows(perms)
}
