package main

import (
	"fmt"
	"log"

	"github.com/nhath/ezcomplete/internal/autocomplete"
	"github.com/nhath/ezcomplete/internal/config"
	"github.com/nhath/ezcomplete/internal/db"
	"github.com/nhath/ezcomplete/internal/metacache"
	"github.com/nhath/ezcomplete/internal/schema"
	"github.com/nhath/ezcomplete/internal/ui"
)

// SourceFlags select where schema metadata comes from.
type SourceFlags struct {
	Profile string `help:"Connection profile to read metadata from" short:"p"`
	Schema  string `help:"YAML schema snapshot; with a profile it answers first and the server fills gaps" type:"existingfile" short:"s"`
}

// session is an engine wired to its metadata source for one command run.
type session struct {
	cfg    *config.Config
	cache  *metacache.Cache
	engine *autocomplete.Engine
	source ui.Source
	driver db.Driver
}

func openSession(appCtx *Context, flags SourceFlags) (*session, error) {
	cfg, err := config.Load(appCtx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	timeout, err := cfg.Completion.Timeout()
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}

	var tree *schema.Tree
	if flags.Schema != "" {
		if tree, err = schema.Load(flags.Schema); err != nil {
			return nil, err
		}
		s.source = ui.Source{Name: flags.Schema, Type: "snapshot"}
	}

	profileName := flags.Profile
	if profileName == "" && tree == nil {
		profileName = cfg.DefaultProfile
	}

	var (
		source metacache.Source
		local  metacache.LocalTree
	)
	switch {
	case profileName != "":
		profile, err := cfg.GetProfile(profileName)
		if err != nil {
			return nil, err
		}
		if s.driver, err = connect(profile); err != nil {
			return nil, err
		}
		source = s.driver
		s.source = ui.Source{Name: profile.Name, Type: profile.Type}
		if tree != nil {
			local = tree
		}
	case tree != nil:
		source, local = tree, tree
	default:
		return nil, ErrNoSource
	}

	s.cache = metacache.New(source, local, metacache.Options{FetchTimeout: timeout})
	s.engine = autocomplete.New(s.cache, engineOptions(cfg.Completion))
	return s, nil
}

// connect opens the profile's driver. Connect verifies the server is reachable.
func connect(p *config.Profile) (db.Driver, error) {
	driver, err := db.NewDriver(p.DriverType())
	if err != nil {
		return nil, err
	}
	if err := driver.Connect(p.ConnectParams()); err != nil {
		return nil, err
	}
	log.Printf("connected to %s (%s)", p.Name, p.Type)
	return driver, nil
}

func engineOptions(c config.Completion) autocomplete.Options {
	snippets := make([]autocomplete.Snippet, 0, len(c.Snippets))
	for _, s := range c.Snippets {
		snippets = append(snippets, autocomplete.Snippet{Label: s.Label, Detail: s.Detail, Body: s.Body})
	}
	return autocomplete.Options{
		MaxResults:       c.MaxResults,
		ContextWindow:    c.ContextWindow,
		FetchConcurrency: c.FetchConcurrency,
		Snippets:         snippets,
	}
}

func (s *session) Close() {
	if s.driver != nil {
		s.driver.Close()
	}
}
