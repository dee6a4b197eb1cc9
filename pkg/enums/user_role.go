package enums

// UserRole distinguishes reader accounts from platform operators.
type UserRole string

const (
	UserRoleReader UserRole = "reader"
	UserRoleAuthor UserRole = "author"
	UserRoleAdmin  UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleReader, UserRoleAuthor, UserRoleAdmin:
		return true
	}
	return false
}
