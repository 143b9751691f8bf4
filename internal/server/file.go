package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StaticCommandConfig 固定回复命令
type StaticCommandConfig struct {
	Command   string `yaml:"command"`
	Text      string `yaml:"text"`
	Username  string `yaml:"username"`
	IconURL   string `yaml:"icon_url"`
	IconEmoji string `yaml:"icon_emoji"`
}

// FileConfig YAML 配置文件
type FileConfig struct {
	Username  string                `yaml:"username"`
	IconURL   string                `yaml:"icon_url"`
	IconEmoji string                `yaml:"icon_emoji"`
	Commands  []StaticCommandConfig `yaml:"commands"`
}

// LoadFile 读取并解析配置文件
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	for i, sc := range fc.Commands {
		if sc.Command == "" {
			return nil, fmt.Errorf("commands[%d].command is required", i)
		}
	}

	return &fc, nil
}
