// ABOUTME: Root command for the firefly CLI
// ABOUTME: Handles global flags and assembles the shared client stack

package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-health/firefly-cli/internal/auth"
	"github.com/firefly-health/firefly-cli/internal/client"
	"github.com/firefly-health/firefly-cli/internal/config"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "firefly",
	Short: "Terminal companion for Firefly Mental Health",
	Long: `firefly is the terminal companion for Firefly Mental Health.

Run it without arguments for the interactive experience: daily check-ins,
guided interventions, your wellness dashboard, and crisis support.

Environment Variables:
  FIREFLY_API_URL          Backend API URL (default: http://localhost:8000)
  FIREFLY_REQUEST_TIMEOUT  Per-request timeout in seconds (default: 30)
  FIREFLY_CONFIG_DIR       Where credentials and state are stored`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides FIREFLY_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// stack bundles everything a command needs to talk to the backend
type stack struct {
	cfg     *config.Config
	creds   *auth.CredStore
	api     *client.Client
	manager *auth.Manager
}

// newStack loads configuration and wires the client, credential store, and
// auth manager together. The --api-url flag beats the environment.
func newStack() (*stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	creds := auth.NewCredStore(cfg.ConfigDir)
	api := client.New(cfg.APIURL, creds)
	api.SetTimeout(time.Duration(cfg.RequestTimeout) * time.Second)
	api.SetRefreshLeeway(time.Duration(cfg.RefreshLeeway) * time.Second)
	api.SetClientID(creds.ClientID())

	manager := auth.NewManager(api, creds, auth.NewStore())
	return &stack{cfg: cfg, creds: creds, api: api, manager: manager}, nil
}
