package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lucheng0127/slackbot/internal/server"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand 创建根命令：slackbot [port]
func newRootCommand() *cobra.Command {
	var (
		username   string
		iconURL    string
		iconEmoji  string
		configFile string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "slackbot [port]",
		Short: "Webhook-driven chat command bot",
		Long: `Webhook-driven chat command bot.

Environment:
  SB_BIND_ADDR   listen address (default 127.0.0.1)
  SB_PORT        listen port when no [port] argument is given (default 8080)
  SB_DB_PATH     note database, parent directory is created on start
                 (default /var/lib/slackbot/slackbot.db)
  SB_MQTT_BROKER MQTT broker for the command topic (empty disables MQTT)
  SB_CONFIG      YAML config file
  SB_LOG_LEVEL   debug, info, warn or error
  SB_LOG_FILE    rotating log file`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env 不存在时使用系统环境变量
			_ = godotenv.Load()

			config := server.LoadConfig()

			if len(args) == 1 {
				port, err := server.ParsePort(args[0])
				if err != nil {
					return err
				}
				config.Port = port
			}

			flags := cmd.Flags()
			if flags.Changed("config") {
				config.ConfigFile = configFile
			}
			if flags.Changed("log-level") {
				config.LogLevel = logLevel
			}

			if config.ConfigFile != "" {
				fc, err := server.LoadFile(config.ConfigFile)
				if err != nil {
					return err
				}
				config.MergeFile(fc)
			}

			if flags.Changed("username") {
				config.Username = username
			}
			if flags.Changed("icon-url") {
				config.IconURL = iconURL
			}
			if flags.Changed("icon-emoji") {
				config.IconEmoji = iconEmoji
			}

			logger, err := newLogger(config.LogLevel, config.LogFile)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Sync()

			logger.Info("starting slackbot",
				zap.String("addr", config.HTTPAddr()),
				zap.String("username", config.Username),
				zap.String("icon_url", config.IconURL),
				zap.String("icon_emoji", config.IconEmoji),
			)

			srv, err := server.NewServer(config, logger)
			if err != nil {
				logger.Error("failed to create server", zap.Error(err))
				return err
			}

			if err := srv.Run(); err != nil {
				logger.Error("server error", zap.Error(err))
				return err
			}

			logger.Info("server exited")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&username, "username", "", "default display name for replies")
	flags.StringVar(&iconURL, "icon-url", "", "default icon URL for replies")
	flags.StringVar(&iconEmoji, "icon-emoji", "", "default icon emoji for replies")
	flags.StringVar(&configFile, "config", "", "path to YAML config file")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}
