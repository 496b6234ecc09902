package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sia12-web/unihood/internal/config"
	"github.com/sia12-web/unihood/internal/proximity"
	"github.com/sia12-web/unihood/internal/wire"
	"github.com/sia12-web/unihood/pkg/logger"
	"github.com/sia12-web/unihood/sdk"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	serverURL := flag.String("server", cfg.ServerURL, "uniHood server base URL")
	radius := flag.Int("radius", cfg.RadiusM, "proximity radius in meters")
	debug := flag.Bool("debug", cfg.Debug, "enable verbose logging")
	flag.Parse()

	if *debug {
		logger.SetLevel(logger.LevelDebug)
	}

	token, err := loadToken(cfg)
	if err != nil {
		return err
	}
	if sdk.TokenExpired(token, time.Now()) {
		return fmt.Errorf("access token expired; sign in again")
	}

	client := sdk.NewClient(*serverURL)
	defer client.Close()

	client.SetToken(token)
	client.SetDebug(*debug)
	client.SetListener(&logListener{})

	if err := client.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if *radius != client.Radius() {
		if err := client.SetRadius(*radius); err != nil {
			logger.Warnf("set radius: %v", err)
		}
	}

	logger.Infof("watching nearby activity (radius %dm); Ctrl-C to quit", client.Radius())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	client.Disconnect()
	return nil
}

// loadToken reads the access token from UNIHOOD_TOKEN or the token file.
func loadToken(cfg *config.Config) (string, error) {
	if token := strings.TrimSpace(os.Getenv("UNIHOOD_TOKEN")); token != "" {
		return token, nil
	}
	raw, err := os.ReadFile(cfg.AccessToken)
	if err != nil {
		return "", fmt.Errorf("no access token: set UNIHOOD_TOKEN or create %s", cfg.AccessToken)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("access token file %s is empty", cfg.AccessToken)
	}
	return token, nil
}

// logListener prints SDK events for the watch command.
type logListener struct{}

func (*logListener) OnConnected() {
	logger.Infof("connected")
}

func (*logListener) OnDisconnected(reason string) {
	logger.Infof("disconnected: %s", reason)
}

func (*logListener) OnNearby(users []wire.NearbyUser) {
	parts := make([]string, 0, len(users))
	for _, u := range users {
		parts = append(parts, fmt.Sprintf("%s (%s)", u.Handle, proximity.FormatDistance(u.DistanceM)))
	}
	logger.Infof("nearby [%d]: %s", len(users), strings.Join(parts, ", "))
}

func (*logListener) OnUnread(total int, counts map[string]int) {
	logger.Infof("unread total=%d across %d peers", total, len(counts))
}

func (*logListener) OnError(message string) {
	logger.Errorf("%s", message)
}
