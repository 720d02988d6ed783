package model

// UserRole is carried in the bearer token issued by the external auth provider.
// Accounts themselves are not stored by this service; a company only keeps the
// owner's account identifier.
type UserRole string

const (
	RoleUser  UserRole = "user"  // regular visitor
	RoleOwner UserRole = "owner" // profile owner
	RoleAdmin UserRole = "admin" // platform administrator
)
