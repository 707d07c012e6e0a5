package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"edificio/models"
	"edificio/pkg/storage"
)

var createUserCmd = &cobra.Command{
	Use:   "create-user <username> <password>",
	Short: "Add an operator account to users.json",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, password := args[0], args[1]
		if len(password) < 6 {
			return fmt.Errorf("password too short (min 6)")
		}
		dataDir, _ := cmd.Flags().GetString("data-dir")
		role, _ := cmd.Flags().GetString("role")

		users, err := storage.Open[models.User, *models.User](filepath.Join(dataDir, "users.json"))
		if err != nil {
			return err
		}
		for _, u := range users.All() {
			if u.Username == username {
				fmt.Printf("user %s already exists (id=%d)\n", username, u.ID)
				return nil
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("bcrypt failed: %w", err)
		}
		user, err := users.Create(models.User{Username: username, HashedPassword: hash, Role: role})
		if err != nil {
			return err
		}
		fmt.Printf("created user %s id=%d\n", username, user.ID)
		return nil
	},
}

func init() {
	createUserCmd.Flags().String("role", "user", "account role")
}
