// Command migration applies the schema under db/migrations to the
// database named by DB_URL.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/courtsync/courtsync/internal/app"
	"github.com/courtsync/courtsync/internal/config"
)

func main() { os.Exit(run(os.Args[1:])) }

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	dbCfg, err := config.LoadDB()
	if err != nil {
		return fail(err)
	}

	dir, err := migrationsDir()
	if err != nil {
		return fail(err)
	}

	m, err := migrate.New(
		"file://"+filepath.ToSlash(dir),
		app.NormalizeDBURL(dbCfg.URL, dbCfg.DisablePreparedBinary),
	)
	if err != nil {
		return fail(fmt.Errorf("create migrator: %w", err))
	}
	defer closeMigrator(m)

	return dispatch(m, args)
}

func dispatch(m *migrate.Migrate, args []string) int {
	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "up":
		if err := ignoreNoChange(m.Up()); err != nil {
			return fail(err)
		}
		fmt.Println("migrations applied")
	case "down":
		steps, err := parseSteps(args[1:])
		if err != nil {
			return fail(err)
		}
		if err := ignoreNoChange(m.Steps(-steps)); err != nil {
			return fail(err)
		}
		fmt.Printf("rolled back %d migration(s)\n", steps)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			return 0
		}
		if err != nil {
			return fail(fmt.Errorf("read version: %w", err))
		}
		fmt.Printf("version: %d dirty: %t\n", version, dirty)
	case "force":
		version, err := parseVersion(args[1:])
		if err != nil {
			return fail(err)
		}
		if err := m.Force(version); err != nil {
			return fail(fmt.Errorf("force version %d: %w", version, err))
		}
		fmt.Printf("forced version to %d\n", version)
	case "goto":
		target, err := parseTarget(args[1:])
		if err != nil {
			return fail(err)
		}
		if err := ignoreNoChange(m.Migrate(target)); err != nil {
			return fail(err)
		}
		fmt.Printf("migrated to version %d\n", target)
	default:
		printUsage()
		return 2
	}
	return 0
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || steps <= 0 {
		return 0, fmt.Errorf("down steps must be a positive integer, got %q", args[0])
	}
	return steps, nil
}

func parseVersion(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.New("force requires a version argument")
	}
	version, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || version < 0 {
		return 0, fmt.Errorf("invalid version %q", args[0])
	}
	return version, nil
}

func parseTarget(args []string) (uint, error) {
	if len(args) == 0 {
		return 0, errors.New("goto requires a target version argument")
	}
	target, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q", args[0])
	}
	return uint(target), nil
}

// migrationsDir prefers MIGRATIONS_DIR, then the repo layout, then the
// container image layout.
func migrationsDir() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", errors.New("migration directory not found (checked MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("no migration changes")
		return nil
	}
	return err
}

func closeMigrator(m *migrate.Migrate) {
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		fmt.Fprintf(os.Stderr, "close migrator: source=%v db=%v\n", srcErr, dbErr)
	}
}

func fail(err error) int {
	fmt.Fprintln(os.Stderr, "migration:", err)
	return 1
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down [n]|version|force <v>|goto <v>>\n", name)
	fmt.Fprintf(os.Stderr, "  %s up\n", name)
	fmt.Fprintf(os.Stderr, "  %s down 1\n", name)
	fmt.Fprintf(os.Stderr, "  %s goto 3\n", name)
}
