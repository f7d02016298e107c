package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/tubelens/tubelens/pkg/config"
	"github.com/urfave/cli/v3"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration file",
		Action: func(ctx context.Context, c *cli.Command) error {
			return initConfig(c.String("config"))
		},
	}
}

func initConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Configuration file already exists at %s\n", configPath)
		return nil
	}

	cfg, err := config.GetDefaultConfig()
	if err != nil {
		return fmt.Errorf("creating default config: %w", err)
	}

	if err := cfg.SaveTemplateConfig(configPath); err != nil {
		return fmt.Errorf("saving config template: %w", err)
	}

	fmt.Printf("Configuration file created at %s\n", configPath)
	fmt.Println("Set youtube_api_key (or the YOUTUBE_API_KEY environment variable) before starting the server.")
	return nil
}
