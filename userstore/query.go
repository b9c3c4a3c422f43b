package userstore

import (
	"database/sql"
	"fmt"
	"strings"
)

type (
	criteriaKind byte

	// Criteria selects a single user by exactly one field.
	// Use ByID, ByEmail, BySessionID or ByResetToken to build one;
	// the zero value is rejected by the store.
	Criteria struct {
		kind  criteriaKind
		id    int64
		value string
	}

	// Changes lists the fields an Update writes. Nil members are left untouched.
	// SessionID and ResetToken are cleared by passing an invalid sql.NullString
	// (see Clear).
	Changes struct {
		HashedPassword *string
		SessionID      *sql.NullString
		ResetToken     *sql.NullString
	}
)

const (
	noCriteria criteriaKind = iota
	byID
	byEmail
	bySessionID
	byResetToken
)

func ByID(id int64) Criteria { return Criteria{kind: byID, id: id} }
func ByEmail(email string) Criteria { return Criteria{kind: byEmail, value: email} }
func BySessionID(sid string) Criteria { return Criteria{kind: bySessionID, value: sid} }
func ByResetToken(token string) Criteria { return Criteria{kind: byResetToken, value: token} }

// Set returns a value that writes v to an optional column.
func Set(v string) *sql.NullString {
	return &sql.NullString{String: v, Valid: true}
}

// Clear returns a value that sets an optional column back to null.
func Clear() *sql.NullString {
	return &sql.NullString{}
}

// Password returns a pointer to hashed, for use in Changes.HashedPassword.
func Password(hashed string) *string {
	return &hashed
}

func (c Criteria) String() string {
	switch c.kind {
	case byID:
		return fmt.Sprintf("user_id=%v", c.id)
	case byEmail:
		return fmt.Sprintf("email=%v", c.value)
	// session ids and reset tokens are credentials, keep them out of messages
	case bySessionID:
		return "session_id=<redacted>"
	case byResetToken:
		return "reset_token=<redacted>"
	}
	return "<no criteria>"
}

func (c Criteria) valid() bool {
	return c.kind != noCriteria
}

// where returns the filter clause (using ? placeholders) and its arguments.
func (c Criteria) where() (string, []interface{}) {
	switch c.kind {
	case byID:
		return "user_id = ?", []interface{}{c.id}
	case byEmail:
		return "email_hash64 = ? and email = ?", []interface{}{emailHash(c.value), c.value}
	case bySessionID:
		return "session_id = ?", []interface{}{c.value}
	case byResetToken:
		return "reset_token = ?", []interface{}{c.value}
	}
	return "", nil
}

func (c Changes) set() (string, []interface{}, error) {
	var cols []string
	var args []interface{}
	if c.HashedPassword != nil {
		if len(*c.HashedPassword) == 0 {
			return "", nil, InvalidField{Name: "hashed_password"}
		}
		cols = append(cols, "hashed_password = ?")
		args = append(args, *c.HashedPassword)
	}
	if c.SessionID != nil {
		if c.SessionID.Valid && len(c.SessionID.String) == 0 {
			return "", nil, InvalidField{Name: "session_id"}
		}
		cols = append(cols, "session_id = ?")
		args = append(args, *c.SessionID)
	}
	if c.ResetToken != nil {
		if c.ResetToken.Valid && len(c.ResetToken.String) == 0 {
			return "", nil, InvalidField{Name: "reset_token"}
		}
		cols = append(cols, "reset_token = ?")
		args = append(args, *c.ResetToken)
	}
	if len(cols) == 0 {
		return "", nil, InvalidField{}
	}
	return strings.Join(cols, ", "), args, nil
}
