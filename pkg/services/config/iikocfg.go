package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/store/iiko"
	"gopkg.in/ini.v1"
)

const DefaultProfilesFile = ".iikocfg"

// Registry reads iiko credentials from an ini file with one section per profile.
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetCredentials(ctx context.Context, profile string) (iiko.Credentials, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

// DefaultProfilesPath returns ~/.iikocfg.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfilesFile
	}
	return filepath.Join(home, DefaultProfilesFile)
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

// GetCredentials returns the profile credentials. A plain "password" key is hashed;
// "pass_sha1" is used as-is and wins when both are set.
func (cr *cfgRegistry) GetCredentials(_ context.Context, profile string) (iiko.Credentials, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil {
		return iiko.Credentials{}, fmt.Errorf("profile %s not found", profile)
	}

	creds := iiko.Credentials{
		Host:     strings.TrimRight(section.Key("host").String(), "/"),
		Login:    section.Key("login").String(),
		PassSHA1: strings.ToLower(section.Key("pass_sha1").String()),
	}
	if creds.PassSHA1 == "" {
		if password := section.Key("password").String(); password != "" {
			creds.PassSHA1 = iiko.HashPassword(password)
		}
	}

	if creds.Host == "" || creds.Login == "" || creds.PassSHA1 == "" {
		return iiko.Credentials{}, fmt.Errorf("profile %s: host, login and password are required", profile)
	}
	return creds, nil
}
