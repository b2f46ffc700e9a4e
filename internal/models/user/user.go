package user

import (
	"fmt"

	"github.com/google/uuid"
)

type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}

// User is identified by ID alone; FirstName is mutable and may repeat.
type User struct {
	ID        ID     `json:"id" yaml:"id"`
	FirstName string `json:"first_name" yaml:"first_name"`
}

func New(firstName string) User {
	return User{
		ID:        NewID(),
		FirstName: firstName,
	}
}

func (u User) Equal(other User) bool {
	return u.ID == other.ID
}

func (u User) String() string {
	return fmt.Sprintf("User{id='%s', firstName='%s'}", u.ID, u.FirstName)
}
