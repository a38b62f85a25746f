// Package config resolves every credential and endpoint the tool needs
// into explicit values at startup. Nothing below the CLI layer reads
// ambient process state.
package config

import (
	"github.com/spf13/viper"
)

// GerritConfig holds Gerrit REST credentials.
type GerritConfig struct {
	Username string
	Password string
}

// LFIDConfig holds the identity API endpoint and OAuth client settings.
type LFIDConfig struct {
	URL          string
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// GitHubConfig holds the GitHub API token.
type GitHubConfig struct {
	Token string
}

// JenkinsConfig holds default build-system endpoints used by cluster
// cleanup when none are given on the command line.
type JenkinsConfig struct {
	URLs []string
}

// Config is the resolved tool configuration.
type Config struct {
	Gerrit  GerritConfig
	LFID    LFIDConfig
	GitHub  GitHubConfig
	Jenkins JenkinsConfig
}

// FromViper maps the loaded viper state into an explicit Config value.
// Commands receive this value at construction time.
func FromViper(v *viper.Viper) Config {
	return Config{
		Gerrit: GerritConfig{
			Username: v.GetString("gerrit.username"),
			Password: v.GetString("gerrit.password"),
		},
		LFID: LFIDConfig{
			URL:          v.GetString("lfid.url"),
			TokenURL:     v.GetString("lfid.token_url"),
			ClientID:     v.GetString("lfid.client_id"),
			ClientSecret: v.GetString("lfid.client_secret"),
		},
		GitHub: GitHubConfig{
			Token: v.GetString("github.token"),
		},
		Jenkins: JenkinsConfig{
			URLs: v.GetStringSlice("jenkins.urls"),
		},
	}
}
