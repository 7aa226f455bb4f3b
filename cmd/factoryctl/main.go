// Command factoryctl is a terminal client for the factory platform. It
// shares the console's session core: credentials live in the file session
// store under the state directory and survive between invocations.
//
// Usage:
//
//	factoryctl login -email you@example.com -password secret
//	factoryctl whoami
//	factoryctl factories
//	factoryctl users [-code SFL]
//	factoryctl logout
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/factoryhq/console/internal/core/domain"
	"github.com/factoryhq/console/internal/core/ports"
	"github.com/factoryhq/console/internal/core/service"
	"github.com/factoryhq/console/internal/infrastructure/backend"
	filestore "github.com/factoryhq/console/internal/infrastructure/store/file"
	"github.com/factoryhq/console/internal/notify"
	"github.com/factoryhq/console/pkg/logger"
)

// localClientKey serialises login attempts; the CLI is a single client.
const localClientKey = "local"

type app struct {
	stateDir string
	manager  *service.SessionManager
	upstream ports.Backend
}

// stderrSink prints notifications for the operator.
type stderrSink struct{}

func (stderrSink) Deliver(n ports.Notification) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", n.Title, n.Message)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	log := logger.Init(logger.Options{Level: envOr("LOG_LEVEL", "warn"), Pretty: true, Output: os.Stderr})

	stateDir := envOr("STATE_DIR", defaultStateDir())
	store := filestore.NewStore(stateDir)
	upstream := backend.NewClient(envOr("API_BASE_URL", "http://localhost:3001/api"), log)
	notifier := notify.Direct{Sinks: []notify.Sink{stderrSink{}}}
	manager := service.NewSessionManager(store, upstream, notifier, log)

	ctx := context.Background()
	manager.Initialize(ctx)

	a := &app{stateDir: stateDir, manager: manager, upstream: upstream}

	var err error
	switch os.Args[1] {
	case "login":
		err = a.login(ctx, os.Args[2:])
	case "logout":
		err = a.logout(ctx)
	case "whoami":
		err = a.whoami(ctx)
	case "factories":
		err = a.factories(ctx)
	case "users":
		err = a.users(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: factoryctl <login|logout|whoami|factories|users> [flags]")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".factory-console"
	}
	return filepath.Join(home, ".factory-console")
}

// currentPath points at the file remembering which session id is active.
func (a *app) currentPath() string {
	return filepath.Join(a.stateDir, "current")
}

func (a *app) currentSession(ctx context.Context) (string, *domain.Session) {
	raw, err := os.ReadFile(a.currentPath())
	if err != nil {
		return "", nil
	}
	sid := string(raw)
	return sid, a.manager.Resolve(ctx, sid)
}

func (a *app) login(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	_ = flags.Parse(args)
	if *email == "" || *password == "" {
		return errors.New("both -email and -password are required")
	}

	sid, sess, err := a.manager.Login(ctx, localClientKey, *email, *password)
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.currentPath(), []byte(sid), 0o600); err != nil {
		return fmt.Errorf("remember session: %w", err)
	}

	fmt.Printf("signed in as %s (%s)\n", sess.User.Name, sess.User.Role)
	if sess.Factory != nil {
		fmt.Printf("factory: %s [%s]\n", sess.Factory.Name, sess.Factory.Code)
	}
	return nil
}

func (a *app) logout(ctx context.Context) error {
	sid, _ := a.currentSession(ctx)
	a.manager.Logout(ctx, sid, localClientKey)
	if err := os.Remove(a.currentPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	_, sess := a.currentSession(ctx)
	if sess == nil {
		return errors.New("not signed in")
	}
	return printJSON(map[string]any{"user": sess.User, "factory": sess.Factory})
}

func (a *app) factories(ctx context.Context) error {
	_, sess := a.currentSession(ctx)
	if sess == nil {
		return errors.New("not signed in")
	}
	factories, err := a.upstream.ListFactories(ctx, sess.Token)
	if err != nil {
		return err
	}
	return printJSON(factories)
}

func (a *app) users(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("users", flag.ExitOnError)
	code := flags.String("code", "", "factory code (superadmin only; others use their own factory)")
	_ = flags.Parse(args)

	_, sess := a.currentSession(ctx)
	if sess == nil {
		return errors.New("not signed in")
	}

	factoryID := ""
	switch {
	case sess.Factory != nil:
		factoryID = sess.Factory.ID
	case *code != "":
		factories, err := a.upstream.ListFactories(ctx, sess.Token)
		if err != nil {
			return err
		}
		for i := range factories {
			if factories[i].CodeMatches(*code) {
				factoryID = factories[i].ID
			}
		}
		if factoryID == "" {
			return domain.ErrFactoryNotFound
		}
	default:
		return errors.New("no factory on this session; pass -code")
	}

	users, err := a.upstream.ListFactoryUsers(ctx, sess.Token, factoryID)
	if err != nil {
		return err
	}
	return printJSON(users)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
