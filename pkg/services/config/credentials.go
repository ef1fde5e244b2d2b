// Package config loads the two configuration surfaces of the report engine:
// the credentials file holding named admin-platform profiles, and the
// application settings file.
package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"
)

// Profile is a named set of admin API credentials.
type Profile struct {
	Name  string
	Host  string
	Token string
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (*Profile, error)
}

type credentialsRegistry struct {
	cfg *ini.File
}

// NewRegistry reads the credentials file. Each section is a profile with
// `host` and `token` keys.
func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &credentialsRegistry{cfg: cfg}, nil
}

func (cr *credentialsRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *credentialsRegistry) GetProfile(_ context.Context, name string) (*Profile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", name)
	}

	host := section.Key("host").String()
	token := section.Key("token").String()
	if host == "" {
		return nil, fmt.Errorf("profile %s has no host", name)
	}

	return &Profile{
		Name:  name,
		Host:  host,
		Token: token,
	}, nil
}
