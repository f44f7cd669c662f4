package mocks

import "github.com/mabego/smartpantry-mysql/internal/models"

const (
	MockEmail    = "alice@example.com"
	MockPassword = "pa$$word"
	MockUserID   = 1
)

type UserModel struct{}

func (m *UserModel) Insert(email, password string) error {
	switch email {
	case "dupe@example.com":
		return models.ErrDuplicateEmail
	default:
		return nil
	}
}

func (m *UserModel) Authenticate(email, password string) (int, error) {
	if email == MockEmail && password == MockPassword {
		return MockUserID, nil
	}

	return 0, models.ErrInvalidCredentials
}

func (m *UserModel) Exists(id int) (bool, error) {
	return id == MockUserID, nil
}
