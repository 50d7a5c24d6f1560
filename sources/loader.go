package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/* Loader manages channel configuration from sources.yaml
 * Provides in-memory lookup for fast access
 */

// Config represents the structure of sources.yaml
type Config struct {
	Sources []SourceConfig `yaml:"sources"`
}

// SourceConfig represents a single channel in the YAML file
type SourceConfig struct {
	Name            string `yaml:"name"`
	SignatureHeader string `yaml:"signature_header"` // Default: X-Hub-Signature-256
	Secret          string `yaml:"secret,omitempty"`
	SecretEnv       string `yaml:"secret_env,omitempty"` // Env var to read the secret from (preferred over secret)
}

// Loader holds the loaded sources
type Loader struct {
	sources map[string]*Source
}

// NewLoader creates a new source loader
func NewLoader() *Loader {
	return &Loader{
		sources: make(map[string]*Source),
	}
}

// Load reads and parses the sources.yaml file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading sources file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing sources YAML: %w", err)
	}

	// Convert and validate sources
	for _, sc := range config.Sources {
		header := sc.SignatureHeader
		if header == "" {
			header = DefaultSignatureHeader
		}

		secret := sc.Secret
		if secret == "" && sc.SecretEnv != "" {
			secret = os.Getenv(sc.SecretEnv)
		}

		source := &Source{
			Name:            sc.Name,
			SignatureHeader: header,
			Secret:          secret,
		}

		if err := source.Validate(); err != nil {
			return fmt.Errorf("validating source: %w", err)
		}

		l.sources[source.Name] = source
	}

	return nil
}

// Register adds a channel programmatically; used for the github
// channel configured from the GITHUB_SECRET environment variable.
func (l *Loader) Register(name, signatureHeader, secret string) error {
	if signatureHeader == "" {
		signatureHeader = DefaultSignatureHeader
	}
	source := &Source{
		Name:            name,
		SignatureHeader: signatureHeader,
		Secret:          secret,
	}
	if err := source.Validate(); err != nil {
		return fmt.Errorf("validating source: %w", err)
	}
	l.sources[name] = source
	return nil
}

// Get retrieves a source by its name
func (l *Loader) Get(name string) (*Source, error) {
	source, exists := l.sources[name]
	if !exists {
		return nil, fmt.Errorf("source not found: %s", name)
	}
	return source, nil
}

// List returns all loaded sources
func (l *Loader) List() []*Source {
	sources := make([]*Source, 0, len(l.sources))
	for _, source := range l.sources {
		sources = append(sources, source)
	}
	return sources
}

// Exists checks if a source name is configured
func (l *Loader) Exists(name string) bool {
	_, exists := l.sources[name]
	return exists
}

// Signing implements webhook.ChannelSecrets: it reports the signature
// header and secret for a source, or ok=false when the source is
// unknown or carries no secret.
func (l *Loader) Signing(name string) (header, secret string, ok bool) {
	source, exists := l.sources[name]
	if !exists || source.Secret == "" {
		return "", "", false
	}
	return source.SignatureHeader, source.Secret, true
}
