// Command admintoken issues a bearer token for an admin account so the
// dashboard API can be exercised without the login frontend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"ngo-admin-backend/internal/config"
	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/logger"
	"ngo-admin-backend/internal/repository/postgres"
	"ngo-admin-backend/internal/security"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	email := flag.String("email", "", "Admin email to look up in the admins table")
	offline := flag.Bool("offline", false, "Skip the database and mint a token from the flags below")
	adminID := flag.Int64("admin-id", 0, "Admin id (offline mode)")
	ngo := flag.String("ngo", "", "NGO code (offline mode)")
	role := flag.String("role", string(domain.AdminRoleAdmin), "ADMIN or SUPER_ADMIN (offline mode)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	sess := domain.Session{AdminID: *adminID, Email: *email, OrgCode: *ngo, Role: domain.AdminRole(*role)}
	if !*offline {
		if *email == "" {
			log.Fatal("-email is required unless -offline is set")
		}
		db, err := postgres.Open(cfg.GetDatabaseConnectionString(), 1, 1)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		admin, err := postgres.NewAdminRepository(db).GetByEmail(context.Background(), *email)
		if err != nil {
			log.Fatalf("Failed to look up admin %s: %v", *email, err)
		}
		sess = domain.Session{AdminID: admin.ID, Email: admin.Email, OrgCode: admin.OrgCode, Role: admin.Role}
	}

	ttl := time.Duration(cfg.JWT.AccessTokenExpiry) * time.Minute
	tm := security.NewTokenManager(cfg.JWT.Secret, ttl)
	token, err := tm.GenerateAccessToken(sess)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	logger.Info("Issued admin token", "admin_id", sess.AdminID, "ngo_code", sess.OrgCode, "role", sess.Role, "expires_in", ttl.String())
	fmt.Println(token)
}
