package server

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/lucheng0127/slackbot/internal/response"
)

// Config 服务配置
type Config struct {
	// HTTP 监听地址
	BindAddr string
	// HTTP 端口
	Port int
	// 默认显示设置，空字符串表示不设置
	Username  string
	IconURL   string
	IconEmoji string
	// 日志级别
	LogLevel string
	// 日志文件（可选，按大小轮转）
	LogFile string
	// 笔记数据库路径，为空时不启用 note 命令
	DBPath string
	// MQTT Broker 地址，为空时不启用 MQTT 通道
	MQTTBroker        string
	MQTTCommandTopic  string
	MQTTResponseTopic string
	// YAML 配置文件路径
	ConfigFile string
	// 配置文件中定义的固定回复命令
	StaticCommands []StaticCommandConfig
}

// LoadConfig 从环境变量加载配置
func LoadConfig() *Config {
	return &Config{
		BindAddr:          getEnv("SB_BIND_ADDR", "127.0.0.1"),
		Port:              parseInt(getEnv("SB_PORT", "8080"), 8080),
		Username:          getEnv("SB_USERNAME", ""),
		IconURL:           getEnv("SB_ICON_URL", ""),
		IconEmoji:         getEnv("SB_ICON_EMOJI", ""),
		LogLevel:          getEnv("SB_LOG_LEVEL", "info"),
		LogFile:           getEnv("SB_LOG_FILE", ""),
		DBPath:            getEnv("SB_DB_PATH", "/var/lib/slackbot/slackbot.db"),
		MQTTBroker:        getEnv("SB_MQTT_BROKER", ""),
		MQTTCommandTopic:  getEnv("SB_MQTT_COMMAND_TOPIC", "slackbot/command"),
		MQTTResponseTopic: getEnv("SB_MQTT_RESPONSE_TOPIC", "slackbot/response"),
		ConfigFile:        getEnv("SB_CONFIG", ""),
	}
}

// MergeFile 合并配置文件，环境变量已设置的字段优先
func (c *Config) MergeFile(fc *FileConfig) {
	if c.Username == "" {
		c.Username = fc.Username
	}
	if c.IconURL == "" {
		c.IconURL = fc.IconURL
	}
	if c.IconEmoji == "" {
		c.IconEmoji = fc.IconEmoji
	}
	c.StaticCommands = append(c.StaticCommands, fc.Commands...)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	for _, sc := range c.StaticCommands {
		if sc.Command == "" {
			return fmt.Errorf("static command without name")
		}
	}

	return nil
}

// HTTPAddr 返回 HTTP 监听地址
func (c *Config) HTTPAddr() string {
	return net.JoinHostPort(c.BindAddr, strconv.Itoa(c.Port))
}

// Defaults 返回机器人级别的默认显示设置
func (c *Config) Defaults() response.Defaults {
	return response.Defaults{
		Username:  response.StringOrNil(c.Username),
		IconURL:   response.StringOrNil(c.IconURL),
		IconEmoji: response.StringOrNil(c.IconEmoji),
	}
}

// ParsePort 解析端口号
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	return port, nil
}

// parseInt 解析整数，失败返回默认值
func parseInt(s string, defaultVal int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultVal
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
