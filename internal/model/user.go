package model

// Role identifies what a user may do in the site.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleVolunteer Role = "volunteer"
)

// Address is the postal address sub-record of a volunteer profile.
type Address struct {
	PostalCode   string `json:"postalCode,omitempty"`
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
}

// User represents a volunteer or administrator record.
type User struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password,omitempty"` // bcrypt hash; cleared by Sanitized
	Role       Role   `json:"role"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"createdAt,omitempty"`
	LastAccess string `json:"lastAccess,omitempty"`

	Phone                string   `json:"phone,omitempty"`
	NationalID           string   `json:"nationalId,omitempty"`
	BirthDate            string   `json:"birthDate,omitempty"`
	Address              *Address `json:"address,omitempty"`
	Interest             string   `json:"interest,omitempty"`
	SkillLevel           string   `json:"skillLevel,omitempty"`
	Availability         string   `json:"availability,omitempty"`
	Message              string   `json:"message,omitempty"`
	VolunteerHours       int      `json:"volunteerHours"`
	ProjectsParticipated int      `json:"projectsParticipated"`
}

// Sanitized returns a copy that is safe to hand to API clients.
func (u User) Sanitized() User {
	u.Password = ""
	if u.Address != nil {
		addr := *u.Address
		u.Address = &addr
	}
	return u
}

// IsVolunteer reports whether the user has the volunteer role.
func (u User) IsVolunteer() bool {
	return u.Role == RoleVolunteer
}

// SanitizeUsers applies Sanitized to every user.
func SanitizeUsers(users []User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out
}
