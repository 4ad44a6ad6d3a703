package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
)

// writeDefaultConfig writes the initial ini config with the core
// section a fresh repository carries.
func writeDefaultConfig(path string) error {
	cfg := ini.Empty()
	core := cfg.Section("core")
	core.Key("repositoryformatversion").SetValue("0")
	core.Key("filemode").SetValue("false")
	core.Key("bare").SetValue("false")
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (r *Repo) configPath() string {
	return filepath.Join(r.GritDir, "config")
}

// ConfigGet looks up "section.key" in the repository's ini config,
// returning ("", false) when the file or the key is absent.
func (r *Repo) ConfigGet(name string) (string, bool, error) {
	section, key, ok := strings.Cut(name, ".")
	if !ok {
		return "", false, fmt.Errorf("config get %q: want section.key", name)
	}

	cfg, err := ini.Load(r.configPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("config get %q: %w", name, err)
	}

	sec, err := cfg.GetSection(section)
	if err != nil {
		return "", false, nil
	}
	if !sec.HasKey(key) {
		return "", false, nil
	}
	return sec.Key(key).String(), true, nil
}

// ConfigSet writes "section.key" in the repository's ini config.
func (r *Repo) ConfigSet(name, value string) error {
	section, key, ok := strings.Cut(name, ".")
	if !ok {
		return fmt.Errorf("config set %q: want section.key", name)
	}

	cfg, err := ini.LooseLoad(r.configPath())
	if err != nil {
		return fmt.Errorf("config set %q: %w", name, err)
	}
	cfg.Section(section).Key(key).SetValue(value)
	if err := cfg.SaveTo(r.configPath()); err != nil {
		return fmt.Errorf("config set %q: %w", name, err)
	}
	return nil
}

// UserConfig is the user-level identity file,
// $XDG_CONFIG_HOME/grit/config.toml.
type UserConfig struct {
	User struct {
		Name  string `toml:"name"`
		Email string `toml:"email"`
	} `toml:"user"`
}

// EnvLookup resolves an environment variable. Passing the environment
// explicitly keeps identity resolution a pure function of its inputs.
type EnvLookup func(key string) (string, bool)

// OSEnv is the process-environment EnvLookup.
func OSEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// AuthorIdent resolves the author identity as "Name <email>".
//
// Precedence: GRIT_AUTHOR_NAME / GRIT_AUTHOR_EMAIL, then the repository
// config user section, then the user config file.
func (r *Repo) AuthorIdent(env EnvLookup) (string, error) {
	if env == nil {
		env = OSEnv
	}

	name, _ := env("GRIT_AUTHOR_NAME")
	email, _ := env("GRIT_AUTHOR_EMAIL")

	if name == "" {
		if v, ok, err := r.ConfigGet("user.name"); err == nil && ok {
			name = v
		}
	}
	if email == "" {
		if v, ok, err := r.ConfigGet("user.email"); err == nil && ok {
			email = v
		}
	}

	if name == "" || email == "" {
		if uc, err := loadUserConfig(env); err == nil {
			if name == "" {
				name = uc.User.Name
			}
			if email == "" {
				email = uc.User.Email
			}
		}
	}

	if name == "" {
		return "", fmt.Errorf("author identity: user.name is not configured")
	}
	if email == "" {
		email = "unknown"
	}
	return fmt.Sprintf("%s <%s>", name, email), nil
}

func loadUserConfig(env EnvLookup) (*UserConfig, error) {
	dir, ok := env("XDG_CONFIG_HOME")
	if !ok || dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("user config: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}

	path := filepath.Join(dir, "grit", "config.toml")
	var uc UserConfig
	if _, err := toml.DecodeFile(path, &uc); err != nil {
		return nil, fmt.Errorf("user config %s: %w", path, err)
	}
	return &uc, nil
}
