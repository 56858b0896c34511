package session

import "login-service/internal/user"

// View is the request-scoped projection of an authenticated identity. It is
// rebuilt on every request, either from the freshly verified user at login
// or from decoded token claims afterwards, and has no lifecycle of its own.
type View struct {
	User UserView `json:"user"`
}

type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	Image string `json:"image,omitempty"`
}

// FromUser projects a stored user record into a View by direct field copy.
// Password hash and second-factor secret never cross this boundary.
func FromUser(u user.User) View {
	return View{
		User: UserView{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
			Role:  u.Role,
			Image: u.Image,
		},
	}
}
