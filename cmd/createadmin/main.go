// Command createadmin creates an admin account in the configured storage.
// The HTTP API only lets admins create admins, so the first one comes from here.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/artem13815/expenses/pkg/config"
	"github.com/artem13815/expenses/pkg/logger"
	"github.com/artem13815/expenses/pkg/policy"
	"github.com/artem13815/expenses/pkg/repository"
	"github.com/artem13815/expenses/pkg/security/password"
	"github.com/artem13815/expenses/pkg/user"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Email")
	username := fs.String("username", "", "Username")
	firstName := fs.String("first", "Admin", "First name")
	lastName := fs.String("last", "User", "Last name")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var missing []string
	if *email == "" {
		missing = append(missing, "email")
	}
	if *username == "" {
		missing = append(missing, "username")
	}
	if len(missing) > 0 {
		fmt.Fprintln(stdout, "Usage: createadmin -email <email> -username <username> [-first <name>] [-last <name>] [-password <password>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}

	pw := *passwordFlag
	if pw == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		pw, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	log := logger.NewSlog(logger.SlogConfig{Level: cfg.LogLevel, Format: "text", Output: stderr})
	store, err := repository.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close(ctx)

	svc := user.NewService(store.Users, password.NewHasher(cfg.BcryptCost))
	operator := policy.Actor{Role: policy.RoleAdmin}
	created, err := svc.Create(ctx, &operator, user.CreateInput{
		Username:  *username,
		Email:     *email,
		FirstName: *firstName,
		LastName:  *lastName,
		Password:  pw,
		Role:      policy.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Fprintf(stdout, "Admin %s created successfully with ID %s\n", created.Username, created.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
