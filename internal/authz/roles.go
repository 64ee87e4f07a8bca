package authz

const (
	RoleCustomer = "customer"
	RoleUser     = "user"
	RoleAdmin    = "admin"
)

func IsAdmin(role string) bool {
	return role == RoleAdmin
}

func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleUser, RoleAdmin:
		return true
	}
	return false
}
