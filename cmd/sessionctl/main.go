package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hireflow/hireflow-session/credstore"
	"github.com/hireflow/hireflow-session/guard"
	"github.com/hireflow/hireflow-session/identity"
	"github.com/hireflow/hireflow-session/internal/config"
	"github.com/hireflow/hireflow-session/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("sessionctl failed")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	c := config.New()
	displayAppname(c.GetAppName())

	manager, err := newManager(c)
	if err != nil {
		return err
	}
	defer manager.Close()

	command := "status"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "login":
		return login(manager)
	case "logout":
		return manager.Logout(context.Background())
	case "status":
		return status(manager)
	case "watch":
		return watch(manager)
	default:
		return fmt.Errorf("unknown command %q (want login, logout, status or watch)", command)
	}
}

func newManager(c config.Config) (*session.Manager, error) {
	store, err := credstore.New(c)
	if err != nil {
		return nil, err
	}

	provider := identity.NewClient(c.GetIdentityBaseURL())
	return session.New(
		credstore.NewResilient(store, log.Logger),
		provider,
		session.WithLogger(log.Logger),
		session.WithNearExpiryThreshold(c.GetNearExpiryThreshold()),
		session.WithSafetyCheckInterval(c.GetSafetyCheckInterval()),
	)
}

func login(manager *session.Manager) error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: sessionctl login <email>")
	}
	email := os.Args[2]

	password := os.Getenv("SESSION_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		password = strings.TrimSpace(line)
	}

	if err := manager.Login(context.Background(), identity.Credentials{Email: email, Password: password}); err != nil {
		return err
	}
	return status(manager)
}

func status(manager *session.Manager) error {
	state := manager.CurrentState()
	decision := guard.EvaluateRoute(state, "/")

	fmt.Printf("state:  %s\n", state)
	fmt.Printf("route:  %s\n", decision.Action)
	if cl := manager.CurrentClaims(); cl != nil {
		fmt.Printf("user:   %s (%s via %s)\n", cl.Email, cl.SubjectID, cl.Provider)
		fmt.Printf("expiry: %s\n", cl.ExpiresAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func watch(manager *session.Manager) error {
	transitions, unsubscribe := manager.Subscribe()
	defer unsubscribe()

	log.Info().Stringer("state", manager.CurrentState()).Msg("watching session transitions, ctrl-c to stop")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case tr := <-transitions:
			log.Info().
				Stringer("from", tr.From).
				Stringer("to", tr.To).
				Str("cause", string(tr.Cause)).
				Msg("session state transition")
		case <-stop:
			return nil
		}
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
