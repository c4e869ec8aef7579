// internal/config/profiles.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nhath/ezcomplete/internal/db"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)

// Profile represents a metadata source connection
type Profile struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"` // postgres, mysql, sqlite
	Host     string `toml:"host,omitempty"`
	Port     int    `toml:"port,omitempty"`
	User     string `toml:"user,omitempty"`
	Database string `toml:"database"`
	// Password is kept in memory for usage
	Password string `toml:"-"`
	// EncryptedPassword is the one persisted in the config file
	EncryptedPassword string `toml:"password,omitempty"`

	// SSH tunnel
	SSHHost              string `toml:"ssh_host,omitempty"`
	SSHPort              int    `toml:"ssh_port,omitempty"`
	SSHUser              string `toml:"ssh_user,omitempty"`
	SSHPassword          string `toml:"-"`
	SSHKeyPath           string `toml:"ssh_key_path,omitempty"`
	EncryptedSSHPassword string `toml:"ssh_password,omitempty"`
}

// GetProfile retrieves a profile by name
func (c *Config) GetProfile(name string) (*Profile, error) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// AddProfile adds a new profile and saves the config
func (c *Config) AddProfile(p Profile) error {
	if _, err := c.GetProfile(p.Name); err == nil {
		return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
	}
	c.Profiles = append(c.Profiles, p)
	if c.DefaultProfile == "" {
		c.DefaultProfile = p.Name
	}
	return c.Save()
}

// DeleteProfile removes a profile and saves the config
func (c *Config) DeleteProfile(name string) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			if c.DefaultProfile == name {
				c.DefaultProfile = ""
			}
			return c.Save()
		}
	}
	return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// ListProfiles returns all profile names
func (c *Config) ListProfiles() []string {
	names := make([]string, len(c.Profiles))
	for i, p := range c.Profiles {
		names[i] = p.Name
	}
	return names
}

// DriverType maps the profile type onto a driver.
func (p *Profile) DriverType() db.DriverType {
	return db.DriverType(p.Type)
}

// ConnectParams builds the driver connection parameters, including the SSH
// tunnel when one is configured.
func (p *Profile) ConnectParams() db.ConnectParams {
	params := db.ConnectParams{
		Host:     p.Host,
		Port:     p.Port,
		User:     p.User,
		Password: p.Password,
		Database: p.Database,
	}
	if p.SSHHost != "" {
		params.SSHConfig = &db.SSHConfig{
			Host:     p.SSHHost,
			Port:     p.SSHPort,
			User:     p.SSHUser,
			Password: p.SSHPassword,
			KeyPath:  p.SSHKeyPath,
		}
	}
	return params
}

// DisplayDSN renders the profile as a URI with the password masked
func (p *Profile) DisplayDSN() string {
	userinfo := p.User
	if p.Password != "" || p.EncryptedPassword != "" {
		userinfo += ":***"
	}
	switch p.Type {
	case "postgres", "mysql":
		return fmt.Sprintf("%s://%s@%s:%d/%s", p.Type, userinfo, p.Host, p.Port, p.Database)
	case "sqlite":
		return "sqlite://" + p.Database
	default:
		return ""
	}
}

// ParseDSN parses a connection string into a Profile
func ParseDSN(name, dsn string) (Profile, error) {
	p := Profile{Name: name}

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return parseURL(p, "postgres", dsn, 5432)
	case strings.HasPrefix(dsn, "mysql://"):
		return parseURL(p, "mysql", dsn, 3306)
	default:
		// sqlite:///path/to.db, file:test.db or a bare path
		p.Type = "sqlite"
		path := strings.TrimPrefix(dsn, "sqlite://")
		p.Database = strings.TrimPrefix(path, "file:")
		if p.Database == "" {
			return p, fmt.Errorf("sqlite dsn %q: empty path", dsn)
		}
		return p, nil
	}
}

func parseURL(p Profile, typ, dsn string, defaultPort int) (Profile, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return p, fmt.Errorf("parse dsn: %w", err)
	}
	p.Type = typ
	p.Host = u.Hostname()
	p.Port = defaultPort
	if port := u.Port(); port != "" {
		if p.Port, err = strconv.Atoi(port); err != nil {
			return p, fmt.Errorf("parse dsn port %q: %w", port, err)
		}
	}
	if u.User != nil {
		p.User = u.User.Username()
		p.Password, _ = u.User.Password()
	}
	p.Database = strings.TrimPrefix(u.Path, "/")
	return p, nil
}
