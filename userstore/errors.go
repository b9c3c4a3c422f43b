package userstore

import "fmt"

type (
	DuplicateEmail struct {
		Email string
	}

	RecordNotFound struct {
		Criteria Criteria
	}

	InvalidField struct {
		Name string
	}

	InvalidCriteria struct{}

	UnknownDriver struct {
		Name string
	}
)

func (d DuplicateEmail) Error() string {
	return fmt.Sprintf("email %v already registered", d.Email)
}

func (r RecordNotFound) Error() string {
	return fmt.Sprintf("no user matches %v", r.Criteria)
}

func (i InvalidField) Error() string {
	if i.Name == "" {
		return "update must name at least one field"
	}
	return fmt.Sprintf("invalid value for field %v", i.Name)
}

func (InvalidCriteria) Error() string {
	return "lookup criteria must name exactly one field"
}

func (u UnknownDriver) Error() string {
	return fmt.Sprintf("unknown store driver %q, expecting sqlite3 or pgx", u.Name)
}
