package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"contractlens-backend/internal/backoff"
	"contractlens-backend/internal/logging"
)

const defaultServer = "http://localhost:8082"

// settings are resolved from flags, CONTRACTLENS_* variables and defaults.
type settings struct {
	server  string
	timeout time.Duration
	retries int
	asJSON  bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	s := &settings{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "contractlens",
		Short: "Plain-English contract analysis from the terminal",
		Long: `contractlens sends a PDF or DOCX contract to a ContractLens server and prints
a summary, the top risks and the risk coverage for its contract type.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s.server = strings.TrimRight(v.GetString("server"), "/")
			s.timeout = v.GetDuration("timeout")
			s.retries = v.GetInt("retries")
			s.asJSON = v.GetBool("json")
			if v.GetBool("debug") {
				l, err := logging.New("debug", "console")
				if err != nil {
					return err
				}
				s.logger = l
			}
			if s.server == "" {
				return fmt.Errorf("--server is required")
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("server", defaultServer, "ContractLens server URL (or set CONTRACTLENS_SERVER)")
	flags.Duration("timeout", 2*time.Minute, "timeout for each request")
	flags.Int("retries", backoff.DefaultOptions().Retries, "extra attempts after rate-limit or timeout errors")
	flags.Bool("json", false, "print raw JSON instead of a summary")
	flags.Bool("debug", false, "log requests and retries to stderr")

	v.SetEnvPrefix("CONTRACTLENS")
	v.AutomaticEnv()
	for _, name := range []string{"server", "timeout", "retries", "json", "debug"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(newAnalyzeCmd(s), newTypesCmd(s), newHealthCmd(s))
	return root
}

func (s *settings) client() *Client {
	retry := backoff.DefaultOptions()
	retry.Retries = s.retries
	retry.Logger = s.logger
	return NewClient(s.server, s.timeout, retry)
}
