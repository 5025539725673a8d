/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/balancesheet-pro/apiserver/config"
	"github.com/balancesheet-pro/apiserver/internal/db"
	"github.com/balancesheet-pro/apiserver/internal/log"
	"github.com/balancesheet-pro/apiserver/internal/services"
	"github.com/balancesheet-pro/apiserver/internal/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminEmail    = "admin@example.com"
	defaultSeedPassword  = "testpass123"
)

// seedCmd represents the seed command.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create accounts for development and load testing",
}

var seedAdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create the default admin account if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if strings.TrimSpace(password) == "" {
			return fail("password must not be empty")
		}

		return withUserService(cmd.Context(), func(users *services.UserService) error {
			user, created, err := users.EnsureUser(cmd.Context(), defaultAdminUsername, defaultAdminEmail, password)
			if err != nil {
				return fail("seed admin: %w", err)
			}
			seedLogger := logger.WithComponent(log.ComponentSeed)
			if created {
				seedLogger.Info("admin created", log.FieldUserID, user.ID)
			} else {
				seedLogger.Info("admin already exists", log.FieldUserID, user.ID)
			}
			return nil
		})
	},
}

type seededUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

var seedUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Create random accounts and write their credentials to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		out, _ := cmd.Flags().GetString("out")
		password, _ := cmd.Flags().GetString("password")
		if count <= 0 {
			return fail("count must be positive")
		}
		if strings.TrimSpace(password) == "" {
			return fail("password must not be empty")
		}

		seeded := make([]seededUser, 0, count)
		err := withUserService(cmd.Context(), func(users *services.UserService) error {
			for i := 0; i < count; i++ {
				suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
				u := seededUser{
					Username: fmt.Sprintf("load_user_%s", suffix),
					Email:    fmt.Sprintf("load_%s@example.com", suffix),
					Password: password,
				}
				if _, _, err := users.EnsureUser(cmd.Context(), u.Username, u.Email, u.Password); err != nil {
					return fail("seed user %s: %w", u.Username, err)
				}
				seeded = append(seeded, u)
			}
			return nil
		})
		if err != nil {
			return err
		}

		if err := writeSeededUsers(out, seeded); err != nil {
			return fail("write %s: %w", out, err)
		}
		logger.WithComponent(log.ComponentSeed).Info("users seeded", "count", len(seeded), "out", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedAdminCmd)
	seedCmd.AddCommand(seedUsersCmd)

	seedAdminCmd.Flags().String("password", defaultSeedPassword, "password for the admin account")
	seedUsersCmd.Flags().Int("count", 200, "number of accounts to create")
	seedUsersCmd.Flags().String("out", filepath.Join("data", "users.json"), "credentials output file")
	seedUsersCmd.Flags().String("password", defaultSeedPassword, "password shared by every seeded account")
}

func withUserService(ctx context.Context, fn func(*services.UserService) error) error {
	cfg := config.LoadConfig()
	if cfg.Database.AutoMigrate {
		if err := db.MigrateUp(cfg); err != nil {
			return fail("%w", err)
		}
	}
	conn, err := db.Open(ctx, cfg)
	if err != nil {
		return fail("open database: %w", err)
	}
	defer conn.Close()

	return fn(services.NewUserService(store.NewUserRepository(conn)))
}

func writeSeededUsers(path string, users []seededUser) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
