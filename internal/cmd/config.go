package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/qm4/xtxid/internal/config"
	"github.com/qm4/xtxid/internal/httpclient"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and manage default config",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print current config as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		masked := *globalCfg
		masked.AuthToken = maskSecret(masked.AuthToken)
		masked.CT0 = maskSecret(masked.CT0)

		out, err := json.MarshalIndent(masked, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set a config value. Keys: user_agent, timeout, verbose, home_url,
tls_hello, auth_token, ct0, browser_cookies.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		value := args[1]

		if err := setConfigValue(globalCfg, key, value); err != nil {
			return err
		}
		if err := cfgpkg.Save(globalCfg); err != nil {
			return err
		}

		shown := value
		if key == "auth_token" || key == "ct0" {
			shown = maskSecret(value)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "set %s=%s\n", key, shown)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), cfgpkg.FilePath())
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func setConfigValue(cfg *cfgpkg.Config, key, value string) error {
	switch key {
	case "user_agent":
		cfg.UserAgent = value
	case "home_url":
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid URL for %s: %q", key, value)
		}
		cfg.HomeURL = value
	case "tls_hello":
		if _, err := httpclient.ParseHelloID(value); err != nil {
			return err
		}
		cfg.TLSHello = value
	case "auth_token":
		cfg.AuthToken = value
	case "ct0":
		cfg.CT0 = value
	case "timeout":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("invalid timeout in seconds: %q", value)
		}
		cfg.Timeout = parsed
	case "verbose", "browser_cookies":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %q", key, value)
		}
		if key == "verbose" {
			cfg.Verbose = parsed
		} else {
			cfg.BrowserCookies = parsed
		}
	default:
		return fmt.Errorf("unsupported config key: %s", key)
	}
	return nil
}

func maskSecret(v string) string {
	if v == "" {
		return ""
	}
	return "***"
}
