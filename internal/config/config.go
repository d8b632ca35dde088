package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultBatchSize  = 5
	DefaultBatchDelay = 500 * time.Millisecond

	ModeOccasion = "occasion"
	ModeProduct  = "product"
	ModeRandom   = "random"
)

// Create new config instance
func NewConfig() *Config {
	return &Config{}
}

// Load configuration file in json format
func (c *Config) Read(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", file, err)
	}
	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.Source.Mode == "" {
		c.Source.Mode = ModeOccasion
	}
	if c.Source.BatchSize == 0 {
		c.Source.BatchSize = DefaultBatchSize
	}
	if c.Source.BatchDelay == 0 {
		c.Source.BatchDelay = DefaultBatchDelay
	}
}

// Validate checks the loaded config against the struct tags. Credential
// and store settings are bootstrap requirements: a failure here is
// fatal for the run.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
