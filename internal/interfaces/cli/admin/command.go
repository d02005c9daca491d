// Package admin implements the bootstrap command that creates a verified
// admin account from the terminal.
package admin

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/meetscribe/meetscribe/internal/domain/user"
	"github.com/meetscribe/meetscribe/internal/infrastructure/auth"
	"github.com/meetscribe/meetscribe/internal/infrastructure/config"
	"github.com/meetscribe/meetscribe/internal/infrastructure/database"
	"github.com/meetscribe/meetscribe/internal/infrastructure/repository"
	"github.com/meetscribe/meetscribe/internal/shared/biztime"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/utils"
)

type adminInput struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=100"`
}

var (
	email string
	name  string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a verified admin account",
		Long:  "Create an admin account that can log in immediately, prompting for the password on the terminal.",
		RunE:  run,
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&name, "name", "Administrator", "admin display name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if err := utils.ValidateStruct(adminInput{Email: email, Name: name}); err != nil {
		return err
	}

	cfg, err := config.Load("default")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	log := logger.NewLogger()
	users := repository.NewUserRepository(database.Get(), log)

	existing, err := users.GetByEmail(cmd.Context(), email)
	if err != nil {
		return fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("account %s already exists", email)
	}

	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := user.NewUser(email, name, hash, user.RoleAdmin, time.Hour)
	if err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}
	if token := u.VerificationToken(); token != nil {
		if err := u.VerifyEmail(*token); err != nil {
			return fmt.Errorf("failed to mark account verified: %w", err)
		}
	}

	if err := users.Create(cmd.Context(), u); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	log.Infow("admin account created", "email", email, "created_at", biztime.NowUTC())
	return nil
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("password prompt requires an interactive terminal")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	if len(first) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}
	return string(first), nil
}
