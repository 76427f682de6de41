package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vividmedi/medicert/cmd/medicert/wizard"
	"github.com/vividmedi/medicert/internal/api"
	"github.com/vividmedi/medicert/internal/config"
	"github.com/vividmedi/medicert/internal/httpd"
	"github.com/vividmedi/medicert/internal/notify"
	"github.com/vividmedi/medicert/internal/registry"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "wizard":
		runWizard(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	case "version", "--version":
		fmt.Printf("medicert %s\n", version)
	case "help", "--help", "-h":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func runWizard(args []string) {
	config.LoadDotenv()

	// Extract --from flag if present
	var fromDraft string
	for i, arg := range args {
		if arg == "--from" && i+1 < len(args) {
			fromDraft = args[i+1]
		}
	}

	cfg, err := config.Parse(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := wizard.Run(cfg.ServerURL, fromDraft); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(args []string) {
	config.LoadDotenv()

	cfg, err := config.Parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(log)

	store, err := registry.OpenStore(cfg.DBPath)
	if err != nil {
		log.Error("opening certificate store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	opts := []registry.Option{registry.WithLogger(log)}

	var dispatcher *notify.Dispatcher
	if cfg.SMTPHost != "" {
		mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort,
			cfg.SMTPUser, cfg.SMTPPassword, cfg.AdminName, cfg.AdminEmail)
		dispatcher = notify.NewDispatcher(mailer, log)
		defer dispatcher.Close()
		opts = append(opts, registry.WithNotifier(dispatcher))
	} else {
		log.Warn("SMTP_HOST not set, email notifications disabled")
	}

	reg := registry.New(store, opts...)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: httpd.NewHandler(reg, cfg.AllowedOrigins),
	}

	go func() {
		log.Info("registry listening", "port", cfg.Port, "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

func runVerify(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: verify requires a certificate code")
		fmt.Fprintln(os.Stderr, "\nUsage:\n  medicert verify MEDC123456")
		os.Exit(1)
	}
	code := args[0]

	config.LoadDotenv()
	cfg, err := config.Parse(args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
	defer cancel()

	client := api.NewClient(cfg.ServerURL)
	resp, err := client.Verify(ctx, code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !resp.Valid || resp.Certificate == nil {
		fmt.Printf("✗ %s is not a valid certificate\n", code)
		os.Exit(1)
	}

	cert := resp.Certificate
	fmt.Println("✓ Certificate is valid")
	fmt.Println()
	fmt.Printf("  Reference:  %s\n", cert.CertificateNumber)
	fmt.Printf("  Patient:    %s %s\n", cert.FirstName, cert.LastName)
	fmt.Printf("  Type:       %s\n", cert.CertType)
	if cert.Reason != "" {
		fmt.Printf("  Reason:     %s\n", cert.Reason)
	}
	fmt.Printf("  Leave:      %s to %s\n", cert.FromDate, cert.ToDate)
	fmt.Printf("  Issued at:  %s\n", cert.IssuedAt)
}

func printHelp() {
	fmt.Println("medicert")
	fmt.Println("========")
	fmt.Println()
	fmt.Println("Medical certificate requests: interactive intake, registry server")
	fmt.Println("and certificate verification.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  medicert <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  wizard              Launch the interactive request wizard")
	fmt.Println("    --from <FILE>     Preload the form from a YAML draft")
	fmt.Println("  serve               Run the certificate registry server")
	fmt.Println("    -p <PORT>         Listen port (default: 8080, or PORT env)")
	fmt.Println("    -db <FILE>        SQLite database path (default: medicert.db)")
	fmt.Println("    -origins <LIST>   Comma-separated allowed CORS origins")
	fmt.Println("  verify <CODE>       Check a certificate code against the registry")
	fmt.Println("  version             Show version")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  PORT, MEDICERT_DB, ALLOWED_ORIGINS, MEDICERT_SERVER")
	fmt.Println("  SMTP_HOST, SMTP_PORT, BREVO_API_KEY, ADMIN_EMAIL, ADMIN_NAME")
	fmt.Println("  A .env file in the working directory is loaded when present.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Start the registry on port 9000")
	fmt.Println("  medicert serve -p 9000 -db certs.db")
	fmt.Println()
	fmt.Println("  # Request a certificate interactively")
	fmt.Println("  medicert wizard")
	fmt.Println()
	fmt.Println("  # Resume from a saved draft")
	fmt.Println("  medicert wizard --from medicert-draft.yaml")
	fmt.Println()
	fmt.Println("  # Verify a certificate")
	fmt.Println("  medicert verify MEDC123456")
}
