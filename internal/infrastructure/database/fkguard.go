package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

// ForeignKeyGuard scopes a foreign-key relaxation window to a single pinned
// connection. The sync pass writes child rows before their parents are
// committed, so enforcement is disabled for exactly the duration of the pass
// body and restored on every exit path, including panics. Leaving checks
// disabled would silently corrupt referential integrity for all subsequent
// writes, so restore failures are surfaced as errors, never swallowed.
type ForeignKeyGuard struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewForeignKeyGuard(db *gorm.DB, log logger.Interface) *ForeignKeyGuard {
	return &ForeignKeyGuard{db: db, logger: log}
}

// WithRelaxedChecks pins one connection from the pool, disables foreign-key
// enforcement on it, and runs fn with a handle bound to that connection.
// Enforcement is re-enabled before the connection returns to the pool.
func (g *ForeignKeyGuard) WithRelaxedChecks(ctx context.Context, fn func(conn *gorm.DB) error) error {
	disable, enable, err := g.statements()
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Connection(func(conn *gorm.DB) (err error) {
		if execErr := conn.Exec(disable).Error; execErr != nil {
			return fmt.Errorf("failed to relax foreign key checks: %w", execErr)
		}

		defer func() {
			r := recover()
			if enableErr := conn.Exec(enable).Error; enableErr != nil {
				g.logger.Errorw("failed to restore foreign key checks", "error", enableErr)
				if err == nil {
					err = fmt.Errorf("failed to restore foreign key checks: %w", enableErr)
				}
			}
			if r != nil {
				panic(r)
			}
		}()

		return fn(conn)
	})
}

func (g *ForeignKeyGuard) statements() (disable, enable string, err error) {
	switch g.db.Dialector.Name() {
	case "mysql":
		return "SET FOREIGN_KEY_CHECKS = 0", "SET FOREIGN_KEY_CHECKS = 1", nil
	case "sqlite", "sqlite3":
		return "PRAGMA foreign_keys = OFF", "PRAGMA foreign_keys = ON", nil
	default:
		return "", "", fmt.Errorf("unsupported dialect %q for foreign key guard", g.db.Dialector.Name())
	}
}
