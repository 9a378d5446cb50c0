package domain

// AuthUser is the public session identity.
type AuthUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credential is the durable account record. Password holds a bcrypt hash
// and must never leave the auth service.
type Credential struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Public strips the secret half of the record.
func (c Credential) Public() AuthUser {
	return AuthUser{Name: c.Name, Email: c.Email}
}
