// Package tripctl implements the operator CLI that queries a running trip
// engine and renders gate decisions for a terminal.
package tripctl

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anchorline/tripgate/internal/platform/config"
)

// Config holds CLI configuration.
type Config struct {
	APIBaseURL string `env:"TRIPGATE_API_URL" envDefault:"http://localhost:8080"`
	ActorID    string `env:"TRIPGATE_ACTOR_ID"`
	ActorRole  string `env:"TRIPGATE_ACTOR_ROLE"`

	Command string
	TripID  string
}

// ParseConfig parses environment and flags into a Config. The positional
// arguments are the command (trips, readiness, completion) and, for the
// gate commands, a trip ID.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "Trip engine API base URL")
	fs.StringVar(&cfg.ActorID, "actor", cfg.ActorID, "Acting crew member ID")
	fs.StringVar(&cfg.ActorRole, "role", cfg.ActorRole, "Asserted actor role (ops_admin only; crew roles are derived)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return Config{}, fmt.Errorf("usage: tripctl [flags] <trips|readiness|completion> [trip-id]")
	}
	cfg.Command = rest[0]
	if len(rest) > 1 {
		cfg.TripID = rest[1]
	}
	switch cfg.Command {
	case "trips":
	case "readiness", "completion":
		if cfg.TripID == "" {
			return Config{}, fmt.Errorf("%s requires a trip ID", cfg.Command)
		}
	default:
		return Config{}, fmt.Errorf("unknown command %q", cfg.Command)
	}
	return cfg, nil
}

// Run executes the configured command and writes the rendering to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	client := &apiClient{
		baseURL:    cfg.APIBaseURL,
		actorID:    cfg.ActorID,
		actorRole:  cfg.ActorRole,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	switch cfg.Command {
	case "trips":
		var payload tripsPayload
		if err := client.get(ctx, "/v1/trips", &payload); err != nil {
			return err
		}
		renderTrips(out, payload.Trips)
	case "readiness":
		var payload readinessPayload
		if err := client.get(ctx, "/v1/trips/"+cfg.TripID+"/readiness", &payload); err != nil {
			return err
		}
		renderReadiness(out, cfg.TripID, payload)
	case "completion":
		var payload completionPayload
		if err := client.get(ctx, "/v1/trips/"+cfg.TripID+"/completion", &payload); err != nil {
			return err
		}
		renderCompletion(out, cfg.TripID, payload)
	}
	return nil
}

// apiClient is a thin JSON client for the trip engine API.
type apiClient struct {
	baseURL    string
	actorID    string
	actorRole  string
	httpClient *http.Client
}

func (c *apiClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.actorID != "" {
		req.Header.Set("X-Actor-Id", c.actorID)
	}
	if c.actorRole != "" {
		req.Header.Set("X-Actor-Role", c.actorRole)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call trip engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errPayload struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errPayload); err == nil && errPayload.Error.Code != "" {
			return fmt.Errorf("trip engine: %s (%s)", errPayload.Error.Message, errPayload.Error.Code)
		}
		return fmt.Errorf("trip engine: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
