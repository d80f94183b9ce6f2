package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/campus-core/portal-client/internal/config"
	"github.com/campus-core/portal-client/internal/events"
	"github.com/campus-core/portal-client/internal/gateway"
	"github.com/campus-core/portal-client/internal/models"
	"github.com/campus-core/portal-client/internal/reports"
	"github.com/campus-core/portal-client/internal/services"
	"github.com/campus-core/portal-client/internal/session"
	"github.com/campus-core/portal-client/internal/validator"
	"github.com/campus-core/portal-client/internal/views"
)

const usage = `Usage: portal <command> [flags]

Commands:
  login      Sign in and persist the session
  logout     Clear the persisted session
  register   Create an account and sign in
  whoami     Show the current session
  portal     Open the interactive portal
  export     Export a report to an .xlsx workbook
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Logs go to stderr so the TUI owns stdout.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	app, err := buildApp(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize client: %v", err)
	}
	defer app.bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command, args := os.Args[1], os.Args[2:]
	switch command {
	case "login":
		err = app.cmdLogin(ctx, args)
	case "logout":
		err = app.cmdLogout(args)
	case "register":
		err = app.cmdRegister(ctx, args)
	case "whoami":
		err = app.cmdWhoami(ctx, args)
	case "portal":
		err = app.cmdPortal(ctx, args)
	case "export":
		err = app.cmdExport(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app holds the wired component graph shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	bus      *events.Bus
	store    *session.Store
	sessions *session.Manager
	services services.ServiceManager
	exporter *reports.Exporter
}

func buildApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	bus := events.NewBus(logger)
	store := session.NewStore(cfg.SessionFilePath())

	// The manager supplies the token but also needs the client for the
	// auth calls; the indirection breaks that construction cycle.
	tokens := &tokenSource{}

	client, err := gateway.NewClient(gateway.ClientConfig{
		BaseURL:    cfg.APIBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Tokens:     tokens,
		Snapshots:  store,
		Events:     bus,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	manager := session.NewManager(client, store, bus, logger)
	tokens.sessions = manager

	return &app{
		cfg:      cfg,
		logger:   logger,
		bus:      bus,
		store:    store,
		sessions: manager,
		services: services.NewServiceManager(client, validator.New(), logger),
		exporter: reports.NewExporter(logger),
	}, nil
}

// restoreSession bootstraps from the snapshot and reconciles with the
// server when one was found. CLI commands want the settled state, so the
// validation runs synchronously here.
func (a *app) restoreSession(ctx context.Context) error {
	if !a.sessions.Bootstrap() {
		return nil
	}
	return a.sessions.Validate(ctx)
}

// ===== COMMANDS =====

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	username := flags.StringP("username", "u", "", "username")
	password := flags.StringP("password", "p", "", "password (prompted when omitted)")
	flags.Parse(args)

	if *username == "" {
		return fmt.Errorf("--username is required")
	}
	if *password == "" {
		var err error
		*password, err = promptSecret("Password: ")
		if err != nil {
			return err
		}
	}

	if err := a.sessions.Login(ctx, *username, *password); err != nil {
		return err
	}
	user := a.sessions.CurrentUser()
	fmt.Printf("Signed in as %s (%s)\n", user.DisplayName(), user.Role)
	return nil
}

func (a *app) cmdLogout(args []string) error {
	flag.NewFlagSet("logout", flag.ExitOnError).Parse(args)
	a.sessions.Logout()
	fmt.Println("Signed out.")
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("register", flag.ExitOnError)
	username := flags.StringP("username", "u", "", "username")
	email := flags.StringP("email", "e", "", "email address")
	password := flags.StringP("password", "p", "", "password (prompted when omitted)")
	role := flags.String("role", "student", "role: student, teacher or admin")
	firstName := flags.String("first-name", "", "first name")
	lastName := flags.String("last-name", "", "last name")
	flags.Parse(args)

	if *password == "" {
		var err error
		*password, err = promptSecret("Password: ")
		if err != nil {
			return err
		}
	}

	err := a.sessions.Register(ctx, models.RegisterRequest{
		Username:  *username,
		Password:  *password,
		Email:     *email,
		Role:      *role,
		FirstName: *firstName,
		LastName:  *lastName,
	})
	if err != nil {
		var regErr *session.RegistrationError
		if errors.As(err, &regErr) && regErr.AccountCreated {
			fmt.Println(regErr.Message)
			return nil
		}
		return err
	}

	user := a.sessions.CurrentUser()
	fmt.Printf("Account created. Signed in as %s (%s)\n", user.DisplayName(), user.Role)
	return nil
}

func (a *app) cmdWhoami(ctx context.Context, args []string) error {
	flag.NewFlagSet("whoami", flag.ExitOnError).Parse(args)

	if err := a.restoreSession(ctx); err != nil {
		fmt.Println("Not signed in.")
		return nil
	}
	user := a.sessions.CurrentUser()
	if user == nil {
		fmt.Println("Not signed in.")
		return nil
	}

	fmt.Printf("%s (%s)\n", user.DisplayName(), user.Role)
	if user.Email != "" {
		fmt.Println(user.Email)
	}
	fmt.Println("Session file:", a.store.Path())
	return nil
}

func (a *app) cmdPortal(ctx context.Context, args []string) error {
	flag.NewFlagSet("portal", flag.ExitOnError).Parse(args)

	// Render the stale snapshot immediately; the validation result
	// reconciles the view once it lands.
	needsValidation := a.sessions.Bootstrap()

	if err := a.sessions.Watch(ctx, a.bus); err != nil {
		return err
	}
	invalidations, err := a.bus.Subscribe(ctx, events.SessionInvalidated)
	if err != nil {
		return err
	}

	ui := views.NewApp(views.AppConfig{
		Sessions:        a.sessions,
		Services:        a.services,
		Logger:          a.logger,
		Invalidations:   invalidations,
		NeedsValidation: needsValidation,
	})

	program := tea.NewProgram(ui, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("export", flag.ExitOnError)
	reportType := flags.StringP("report", "r", "", "report type, system-stats or gradebook")
	course := flags.StringP("course", "c", "", "course id (gradebook only)")
	period := flags.String("period", "", "report period: week, month, semester, year")
	department := flags.String("department", "", "restrict to one department")
	out := flags.StringP("out", "o", "report.xlsx", "output path")
	flags.Parse(args)

	if *reportType == "" {
		return fmt.Errorf("--report is required")
	}
	if err := a.restoreSession(ctx); err != nil {
		return fmt.Errorf("not signed in: %w", err)
	}
	if !a.sessions.IsAuthenticated() {
		return fmt.Errorf("not signed in; run login first")
	}

	switch *reportType {
	case "system-stats":
		stats, err := a.services.Admin().SystemStats(ctx)
		if err != nil {
			return err
		}
		return a.exporter.ExportToFile(*out, func(w io.Writer) error {
			return a.exporter.WriteSystemStats(stats, w)
		})

	case "gradebook":
		if *course == "" {
			return fmt.Errorf("--course is required for gradebook export")
		}
		grades, err := a.services.Teacher().CourseGrades(ctx, *course)
		if err != nil {
			return err
		}
		return a.exporter.ExportToFile(*out, func(w io.Writer) error {
			return a.exporter.WriteGradebook(grades, w)
		})

	default:
		report, err := a.services.Admin().Report(ctx, *reportType, services.ReportQuery{
			Period:     *period,
			Department: *department,
		})
		if err != nil {
			return err
		}
		return a.exporter.ExportToFile(*out, func(w io.Writer) error {
			return a.exporter.WriteReport(report, w)
		})
	}
}

// ===== HELPERS =====

// tokenSource defers to the session manager once it exists.
type tokenSource struct {
	sessions *session.Manager
}

func (t *tokenSource) Token() string {
	if t.sessions == nil {
		return ""
	}
	return t.sessions.Token()
}

// promptSecret reads a line from stdin. Terminal echo suppression is
// deliberately not attempted; scripted use passes --password instead.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
