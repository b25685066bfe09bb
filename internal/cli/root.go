// Package cli rebook终端客户端命令
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiebiao/rebook/internal/client"
	"github.com/xiebiao/rebook/internal/infrastructure/config"
	"github.com/xiebiao/rebook/pkg/logger"
)

// app 命令共享的运行时依赖，在PersistentPreRunE中初始化
type app struct {
	// 命令行参数
	configFile string
	server     string
	token      string
	logLevel   string

	cfg     config.ClientConfig
	client  *client.Client
	session client.Session

	rawIn io.Reader
	in    *bufio.Reader
	out   io.Writer
	err   io.Writer
}

// NewRootCmd 创建根命令
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "rebook",
		Short: "Library catalog client",
		Long: `rebook talks to the rebook API.

Readers browse and search the catalog; librarians can also delete books.
The token printed by "rebook login" is read from --token or REBOOK_CLIENT_TOKEN.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./config/config.yaml)")
	flags.StringVar(&a.server, "server", "", "API base URL (overrides client.server)")
	flags.StringVar(&a.token, "token", "", "bearer token (overrides client.token)")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(newSignupCmd(a))
	root.AddCommand(newLoginCmd(a))
	root.AddCommand(newLogoutCmd(a))
	root.AddCommand(newBooksCmd(a))
	root.AddCommand(newLatestCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newCoverCmd(a))

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	logger.Init(logger.Options{Level: a.logLevel, Format: "console", Output: os.Stderr})

	var (
		cfg *config.Config
		err error
	)
	if a.configFile != "" {
		cfg, err = config.LoadFile(a.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	a.cfg = cfg.Client
	if a.server != "" {
		a.cfg.Server = a.server
	}
	if a.token != "" {
		a.cfg.Token = a.token
	}

	a.client, err = client.New(client.Config{
		BaseURL:         a.cfg.Server,
		Timeout:         a.cfg.RequestTimeout,
		BreakerFailures: a.cfg.BreakerFailures,
		BreakerTimeout:  a.cfg.BreakerTimeout,
	})
	if err != nil {
		return err
	}
	a.session = client.Session{Token: a.cfg.Token}

	a.rawIn = cmd.InOrStdin()
	a.in = bufio.NewReader(a.rawIn)
	a.out = cmd.OutOrStdout()
	a.err = cmd.ErrOrStderr()
	return nil
}

func (a *app) pollInterval() time.Duration {
	if a.cfg.PollInterval <= 0 {
		return time.Second
	}
	return a.cfg.PollInterval
}

// requireSession 需要登录的命令在发请求前检查，给出比401更直接的提示
func (a *app) requireSession() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("not logged in: run \"rebook login\" and pass the token via --token or REBOOK_CLIENT_TOKEN")
	}
	return nil
}
