package main

import (
	"fmt"

	"github.com/nhath/ezcomplete/internal/config"
)

// ProfileCmd groups profile management
type ProfileCmd struct {
	List   ProfileListCmd   `cmd:"" default:"1" help:"List profiles"`
	Add    ProfileAddCmd    `cmd:"" help:"Add a profile from a DSN"`
	Delete ProfileDeleteCmd `cmd:"" help:"Delete a profile"`
}

type ProfileListCmd struct{}

func (cmd *ProfileListCmd) Run(appCtx *Context) error {
	cfg, err := config.Load(appCtx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(cfg.Profiles) == 0 {
		fmt.Println("no profiles; add one with: ezcomplete profile add <name> <dsn>")
		return nil
	}
	for _, p := range cfg.Profiles {
		mark := " "
		if p.Name == cfg.DefaultProfile {
			mark = "*"
		}
		fmt.Printf("%s %-16s %s\n", mark, p.Name, p.DisplayDSN())
	}
	return nil
}

type ProfileAddCmd struct {
	Name       string `arg:"" help:"Profile name"`
	DSN        string `arg:"" help:"postgres://, mysql://, sqlite:// URL or a SQLite file path"`
	Default    bool   `help:"Make this the default profile"`
	SSHHost    string `help:"SSH bastion host" name:"ssh-host"`
	SSHPort    int    `help:"SSH bastion port" name:"ssh-port" default:"22"`
	SSHUser    string `help:"SSH user" name:"ssh-user"`
	SSHKeyPath string `help:"SSH private key" name:"ssh-key" type:"path"`
}

func (cmd *ProfileAddCmd) Run(appCtx *Context) error {
	cfg, err := config.Load(appCtx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	p, err := config.ParseDSN(cmd.Name, cmd.DSN)
	if err != nil {
		return err
	}
	if cmd.SSHHost != "" {
		p.SSHHost, p.SSHPort, p.SSHUser, p.SSHKeyPath = cmd.SSHHost, cmd.SSHPort, cmd.SSHUser, cmd.SSHKeyPath
	}
	if cmd.Default {
		cfg.DefaultProfile = p.Name
	}
	if err := cfg.AddProfile(p); err != nil {
		return err
	}
	fmt.Printf("added %s (%s)\n", p.Name, p.DisplayDSN())
	return nil
}

type ProfileDeleteCmd struct {
	Name string `arg:"" help:"Profile name"`
}

func (cmd *ProfileDeleteCmd) Run(appCtx *Context) error {
	cfg, err := config.Load(appCtx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.DeleteProfile(cmd.Name); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", cmd.Name)
	return nil
}
