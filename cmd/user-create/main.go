// Command user-create registers a professional account. There is no public
// sign-up surface; accounts are provisioned by staff with this tool.
package main

import (
	"context"
	"flag"
	"time"

	authrepo "donezo_backend/internal/auth/repository"
	authsvc "donezo_backend/internal/auth/service"
	"donezo_backend/platform/config"
	"donezo_backend/platform/db"
	"donezo_backend/platform/logger"
)

func main() {
	email := flag.String("email", "", "account email (required)")
	pass := flag.String("password", "", "account password (required)")
	name := flag.String("name", "", "full name (optional)")
	admin := flag.Bool("admin", false, "grant admin standing")
	flag.Parse()

	if *email == "" || *pass == "" {
		flag.Usage()
		panic("email and password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	var fullName *string
	if *name != "" {
		fullName = name
	}

	svc := authsvc.New(authrepo.New(pool), cfg, log)
	user, err := svc.CreateAccount(ctx, *email, *pass, fullName, *admin)
	if err != nil {
		log.Error("failed to create account", "email", *email, "error", err)
		panic("failed to create account: " + err.Error())
	}

	log.Info("account created", "user_id", user.ID, "email", user.Email, "admin", *admin)
}
