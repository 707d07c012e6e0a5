package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"edificio/models"
	"edificio/pkg/mailer"
	"edificio/pkg/storage"
	"edificio/pkg/watch"
)

var jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)

// app bundles the stores and collaborators; handlers hang off it instead of
// package globals so tests can build isolated instances.
type app struct {
	dataDir  string
	tenants  *storage.Store[models.Tenant, *models.Tenant]
	payments *storage.Store[models.Payment, *models.Payment]
	expenses *storage.Store[models.Expense, *models.Expense]
	users    *storage.Store[models.User, *models.User]
	mail     *mailer.Mailer
}

func main() {
	// Auto-load ./.env if present before reading vars; existing env wins.
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	a, err := openApp(dataDir)
	if err != nil {
		log.Fatal("failed to open data stores:", err)
	}
	a.seedAdmin()

	if err := a.watchDataDir(); err != nil {
		log.Printf("warning: data dir watcher disabled: %v", err)
	}

	r := gin.Default()
	a.setupRoutes(r)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	r.Run(addr)
}

func openApp(dataDir string) (*app, error) {
	tenants, err := storage.Open[models.Tenant, *models.Tenant](filepath.Join(dataDir, "tenants.json"))
	if err != nil {
		return nil, err
	}
	payments, err := storage.Open[models.Payment, *models.Payment](filepath.Join(dataDir, "payments.json"))
	if err != nil {
		return nil, err
	}
	expenses, err := storage.Open[models.Expense, *models.Expense](filepath.Join(dataDir, "expenses.json"))
	if err != nil {
		return nil, err
	}
	users, err := storage.Open[models.User, *models.User](filepath.Join(dataDir, "users.json"))
	if err != nil {
		return nil, err
	}
	return &app{
		dataDir:  dataDir,
		tenants:  tenants,
		payments: payments,
		expenses: expenses,
		users:    users,
		mail:     mailer.New(mailer.ConfigFromEnv()),
	}, nil
}

// seedAdmin ensures a usable login exists on first boot.
func (a *app) seedAdmin() {
	for _, u := range a.users.All() {
		if u.Username == "admin" {
			return
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash admin password: %v", err)
		return
	}
	if _, err := a.users.Create(models.User{Username: "admin", HashedPassword: hash, Role: "administrator"}); err != nil {
		log.Printf("failed to seed admin user: %v", err)
		return
	}
	log.Println("Seeded admin user: username=admin, password=admin123")
}

// watchDataDir reloads stores whose files are rewritten by another process
// (a restore from backup, a manual edit).
func (a *app) watchDataDir() error {
	w, err := watch.New()
	if err != nil {
		return err
	}
	w.Track(a.tenants.Path(), a.tenants)
	w.Track(a.payments.Path(), a.payments)
	w.Track(a.expenses.Path(), a.expenses)
	w.Track(a.users.Path(), a.users)
	return w.Start(a.dataDir)
}
