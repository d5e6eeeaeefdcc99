package models

// User is an account record. The upload pipeline does not use it.
type User struct {
	ID       int    `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
}

type NewUser struct {
	Username string
	Password string
}
