package domain

type Customer struct {
	ID          int64
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	Address     string
}

func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}
