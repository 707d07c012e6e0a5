package main

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"edificio/models"
)

var errUserExists = errors.New("user already exists")

func (a *app) registerUser(username, password, role string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username required")
	}
	if len(password) < 6 { // basic password policy
		return fmt.Errorf("password too short (min 6)")
	}
	for _, u := range a.users.All() {
		if u.Username == username {
			return errUserExists
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if role == "" {
		role = "user"
	}
	_, err = a.users.Create(models.User{Username: username, HashedPassword: hash, Role: role})
	return err
}

func (a *app) authenticate(username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	for _, u := range a.users.All() {
		if u.Username != username {
			continue
		}
		if err := bcrypt.CompareHashAndPassword(u.HashedPassword, []byte(password)); err != nil {
			return models.User{}, fmt.Errorf("invalid credentials")
		}
		return u, nil
	}
	return models.User{}, fmt.Errorf("invalid credentials")
}
