package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"lfreleng/internal/errors"
)

// CloudAuth is the auth section of one cloud in clouds.yaml.
type CloudAuth struct {
	AuthURL           string `yaml:"auth_url"`
	Username          string `yaml:"username"`
	Password          string `yaml:"password"`
	ProjectName       string `yaml:"project_name"`
	ProjectID         string `yaml:"project_id"`
	UserDomainName    string `yaml:"user_domain_name"`
	ProjectDomainName string `yaml:"project_domain_name"`
}

// Cloud is one entry in clouds.yaml.
type Cloud struct {
	Name       string    `yaml:"-"`
	Auth       CloudAuth `yaml:"auth"`
	RegionName string    `yaml:"region_name"`
	Interface  string    `yaml:"interface"`
}

type cloudsFile struct {
	Clouds map[string]Cloud `yaml:"clouds"`
}

// CloudsPath returns the clouds.yaml path: an explicit override, then
// $OS_CLIENT_CONFIG_FILE, then the standard user and system locations.
func CloudsPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if env := os.Getenv("OS_CLIENT_CONFIG_FILE"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err == nil {
		user := filepath.Join(home, ".config", "openstack", "clouds.yaml")
		if _, statErr := os.Stat(user); statErr == nil {
			return user, nil
		}
	}
	system := filepath.Join("/etc", "openstack", "clouds.yaml")
	if _, statErr := os.Stat(system); statErr == nil {
		return system, nil
	}
	return "", errors.NewConfigurationError("clouds", "no clouds.yaml found", nil)
}

// LoadCloud reads one named cloud from clouds.yaml.
func LoadCloud(path, name string) (Cloud, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Cloud{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file cloudsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Cloud{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cloud, ok := file.Clouds[name]
	if !ok {
		return Cloud{}, errors.NewConfigurationError("clouds",
			fmt.Sprintf("cloud %q not defined in %s", name, path), nil)
	}
	cloud.Name = name

	if cloud.Auth.AuthURL == "" {
		return Cloud{}, errors.NewConfigurationError("clouds",
			fmt.Sprintf("cloud %q has no auth_url", name), nil)
	}
	if cloud.Auth.UserDomainName == "" {
		cloud.Auth.UserDomainName = "Default"
	}
	if cloud.Auth.ProjectDomainName == "" {
		cloud.Auth.ProjectDomainName = "Default"
	}
	if cloud.Interface == "" {
		cloud.Interface = "public"
	}
	return cloud, nil
}
