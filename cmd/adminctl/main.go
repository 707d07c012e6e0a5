// adminctl is the operator CLI: data backups, restores and user creation.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use:   "adminctl",
		Short: "Building manager admin tool",
	}

	rootCmd.PersistentFlags().String("data-dir", defaultDataDir(), "application data directory")
	rootCmd.PersistentFlags().String("backup-dir", "backups", "directory holding timestamped backups")

	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(createUserCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func defaultDataDir() string {
	if v := os.Getenv("DATA_DIR"); v != "" {
		return v
	}
	return "data"
}
