// Copyright 2025 The argon Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads argon's optional YAML tuning file: connection
// limits the endpoint layer otherwise defaults, and the logger sink
// options, unpacked through go-ucfg.
package config

import (
	"fmt"

	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"

	"github.com/ssorj/argon/common"
	"github.com/ssorj/argon/logger"
)

// Config wraps a ucfg.Config with a handful of convenience accessors.
type Config struct {
	conf *ucfg.Config
}

func New(conf *ucfg.Config) *Config {
	return &Config{conf: conf}
}

func (c *Config) Has(s string) bool {
	ok, err := c.conf.Has(s, -1)
	if err != nil {
		return false
	}
	return ok
}

func (c *Config) Child(s string) (*Config, error) {
	content, err := c.conf.Child(s, -1)
	if err != nil {
		return nil, err
	}
	return &Config{conf: content}, nil
}

func (c *Config) MustChild(s string) *Config {
	child, err := c.Child(s)
	if err != nil {
		panic(err)
	}
	return child
}

func (c *Config) Unpack(to any) error {
	return c.conf.Unpack(to)
}

func (c *Config) Disabled(s string) bool {
	ok, err := c.conf.Bool(fmt.Sprintf("%s.disabled", s), -1)
	if err != nil {
		return false
	}
	return ok
}

func (c *Config) Enabled(s string) bool {
	ok, err := c.conf.Bool(fmt.Sprintf("%s.enabled", s), -1)
	if err != nil {
		return false
	}
	return ok
}

func (c *Config) UnpackChild(s string, to any) error {
	content, err := c.conf.Child(s, -1)
	if err != nil {
		return err
	}
	return content.Unpack(to)
}

func LoadConfigPath(path string) (*Config, error) {
	config, err := yaml.NewConfigWithFile(path, ucfg.PathSep("."))
	if err != nil {
		return nil, err
	}

	return New(config), err
}

func LoadContent(b []byte) (*Config, error) {
	config, err := yaml.NewConfig(b)
	if err != nil {
		return nil, err
	}
	return New(config), err
}

// Settings are the tunables a YAML config file may override. Zero values
// mean "use the common.Default* constant".
type Settings struct {
	MaxFrameSize uint32         `config:"maxFrameSize"`
	PollQuantum  int            `config:"pollQuantum"` // milliseconds
	Logger       logger.Options `config:"logger"`
}

// Defaults returns the Settings argon runs with when no --config is given.
func Defaults() Settings {
	return Settings{
		MaxFrameSize: common.DefaultMaxFrameSize,
		PollQuantum:  common.DefaultPollQuantum,
		Logger:       logger.Options{Stdout: true, Level: "info"},
	}
}

// LoadSettings loads and unpacks a YAML file at path into a Settings,
// seeded with Defaults() so a partial file only overrides what it names.
func LoadSettings(path string) (Settings, error) {
	settings := Defaults()

	cfg, err := LoadConfigPath(path)
	if err != nil {
		return settings, err
	}
	if err := cfg.Unpack(&settings); err != nil {
		return settings, err
	}

	if settings.MaxFrameSize == 0 {
		settings.MaxFrameSize = common.DefaultMaxFrameSize
	}
	if settings.PollQuantum == 0 {
		settings.PollQuantum = common.DefaultPollQuantum
	}
	return settings, nil
}
