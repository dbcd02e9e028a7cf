package entity

// User usuario autenticado en la API remota (perfil).
type User struct {
	ID        string
	Email     string
	Username  string
	FirstName string
	LastName  string
	IsStaff   bool
}

// FullName nombre para mostrar; cae al username si no hay nombre.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
