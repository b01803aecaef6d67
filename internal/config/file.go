package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wagiedev/editor-mcp-go/internal/mcp"
	"github.com/wagiedev/editor-mcp-go/internal/queue"
)

// File is the YAML configuration file layout. Zero values leave the
// corresponding option untouched.
type File struct {
	Name            string         `yaml:"name"`
	Version         string         `yaml:"version"`
	Addr            string         `yaml:"addr"`
	Endpoints       []mcp.Endpoint `yaml:"endpoints,omitempty"`
	Queue           QueueFile      `yaml:"queue"`
	MutationTimeout time.Duration  `yaml:"mutation_timeout"`
	RateLimit       RateLimitFile  `yaml:"rate_limit"`
}

// QueueFile configures the mutation queue.
type QueueFile struct {
	// Order is "fifo" or "lifo".
	Order      string `yaml:"order"`
	MaxPending int    `yaml:"max_pending"`
}

// RateLimitFile configures admission control for mutating tools.
type RateLimitFile struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	f, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Parse decodes a YAML configuration document. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &f, nil
}

// Apply overlays the file's settings onto o.
func (f *File) Apply(o *Options) error {
	if f.Name != "" {
		o.Name = f.Name
	}

	if f.Version != "" {
		o.Version = f.Version
	}

	if f.Addr != "" {
		o.Addr = f.Addr
	}

	if len(f.Endpoints) > 0 {
		o.Endpoints = append([]mcp.Endpoint(nil), f.Endpoints...)
	}

	if f.Queue.Order != "" {
		order, err := queue.ParseOrder(f.Queue.Order)
		if err != nil {
			return err
		}

		o.QueueOrder = order
	}

	if f.Queue.MaxPending != 0 {
		o.MaxPending = f.Queue.MaxPending
	}

	if f.MutationTimeout != 0 {
		o.MutationTimeout = f.MutationTimeout
	}

	if f.RateLimit.PerSecond != 0 {
		o.RateLimit = f.RateLimit.PerSecond
	}

	if f.RateLimit.Burst != 0 {
		o.RateBurst = f.RateLimit.Burst
	}

	return nil
}
