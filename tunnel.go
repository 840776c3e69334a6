package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// ngrokSettings is the resolved tunnel configuration. Flags win over the
// environment.
type ngrokSettings struct {
	Enabled   bool
	AuthToken string
	Domain    string
}

func resolveNgrokSettings(enabled bool, authToken, domain string, getenv func(string) string) ngrokSettings {
	if !enabled {
		v := getenv("NGROK_ENABLED")
		enabled = v == "true" || v == "1"
	}
	if authToken == "" {
		authToken = getenv("NGROK_AUTHTOKEN")
	}
	if authToken == "" {
		authToken = getenv("NGROK_AUTH_TOKEN")
	}
	if domain == "" {
		domain = getenv("NGROK_DOMAIN")
	}
	return ngrokSettings{Enabled: enabled, AuthToken: authToken, Domain: domain}
}

// serveTunnel exposes handler through an ngrok endpoint until ctx is done
func serveTunnel(ctx context.Context, settings ngrokSettings, handler http.Handler) error {
	if settings.AuthToken == "" {
		return errors.New("enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
	}

	var opts []ngrokConfig.HTTPEndpointOption
	if settings.Domain != "" {
		opts = append(opts, ngrokConfig.WithDomain(settings.Domain))
		log.Printf("Using custom ngrok domain: %s", settings.Domain)
	}

	log.Println("Starting ngrok tunnel...")
	tun, err := ngrok.Listen(ctx, ngrokConfig.HTTPEndpoint(opts...), ngrok.WithAuthtoken(settings.AuthToken))
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	url := tun.URL()
	log.Printf("Ngrok tunnel established: %s", url)
	log.Printf("  REST API (ngrok): %s/api", url)
	log.Printf("  Match QR codes (ngrok): %s/api/sessions/<session_id>/qr", url)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", url)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", url)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		return err
	}
	log.Println("Ngrok tunnel closed")
	return nil
}
