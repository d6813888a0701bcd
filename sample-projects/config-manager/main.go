package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	jsonkit "github.com/reoring/jsonkit"
	"github.com/reoring/jsonkit/assure"
	"github.com/reoring/jsonkit/codec"
	"github.com/reoring/jsonkit/query"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `json:"app"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Logging  LoggingConfig  `json:"logging"`
	Features FeaturesConfig `json:"features"`
}

type AppConfig struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Environment string            `json:"environment"`
	Port        int               `json:"port"`
	Host        string            `json:"host"`
	TLS         TLSConfig         `json:"tls"`
	Cors        CorsConfig        `json:"cors"`
	Metadata    map[string]string `json:"metadata"`
}

type TLSConfig struct {
	Enabled  bool   `json:"enabled"`
	CertFile string `json:"certFile"`
	KeyFile  string `json:"keyFile"`
}

type CorsConfig struct {
	Enabled bool     `json:"enabled"`
	Origins []string `json:"origins"`
}

type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	Database     string `json:"database"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	MaxConns     int    `json:"maxConns"`
	MaxIdleConns int    `json:"maxIdleConns"`
	SSLMode      string `json:"sslMode"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database int    `json:"database"`
	Password string `json:"password"`
	PoolSize int    `json:"poolSize"`
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	Output string `json:"output"`
}

type FeaturesConfig struct {
	Analytics bool `json:"analytics"`
	Debugging bool `json:"debugging"`
}

// defaults fills every section member the files leave out.
const defaults = `
app:
  environment: development
  port: 8080
  host: 0.0.0.0
  tls: {enabled: false, certFile: "", keyFile: ""}
  cors: {enabled: true, origins: ["*"]}
  metadata: {}
database: {port: 5432, password: "", maxConns: 10, maxIdleConns: 5, sslMode: prefer}
redis: {host: localhost, port: 6379, database: 0, password: "", poolSize: 10}
logging: {level: info, format: json, output: stdout}
features: {analytics: true, debugging: false}
`

// ConfigManager loads layered YAML configuration: base.yaml, then
// <env>.yaml applied as a JSON merge patch, then defaults.
type ConfigManager struct {
	codec    *codec.Codec
	defaults *jsonkit.Node
	checks   []*query.Predicate
}

func NewConfigManager() *ConfigManager {
	c := codec.New(codec.WithDuplicateKeys(codec.Error))
	return &ConfigManager{
		codec:    c,
		defaults: must(c.DecodeYAML([]byte(defaults))),
		checks: []*query.Predicate{
			query.MustCompile(`app.port >= 1 && app.port <= 65535`),
			query.MustCompile(`!app.tls.enabled || (app.tls.certFile != "" && app.tls.keyFile != "")`),
			query.MustCompile(`logging.level in ["debug", "info", "warn", "error"]`),
		},
	}
}

func must(n *jsonkit.Node, err error) *jsonkit.Node {
	if err != nil {
		panic(err)
	}
	return n
}

// LoadTree returns the merged configuration tree for env.
func (cm *ConfigManager) LoadTree(env string) (*jsonkit.Node, error) {
	base, err := cm.loadYAML("base.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to load base config: %w", err)
	}

	envFile := fmt.Sprintf("%s.yaml", env)
	if cm.fileExists(envFile) {
		override, err := cm.loadYAML(envFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", env, err)
		}
		// env config overrides base; null removes a member
		if base, err = cm.codec.MergePatch(base, override); err != nil {
			return nil, fmt.Errorf("failed to merge %s config: %w", env, err)
		}
	}

	for section, values := range cm.defaults.Fields() {
		current := base.Get(section)
		if current.IsMissing() {
			base.Set(section, values.Clone())
			continue
		}
		if _, err := jsonkit.MergeAbsent(current, values.Clone()); err != nil {
			return nil, fmt.Errorf("section %s: %w", section, err)
		}
	}
	return base, nil
}

func (cm *ConfigManager) LoadConfig(env string) (Config, error) {
	tree, err := cm.LoadTree(env)
	if err != nil {
		return Config{}, err
	}
	if err := assure.Fields(tree, "app", "database"); err != nil {
		return Config{}, err
	}
	if err := assure.NonEmptyStrings(tree.Get("app"), "name", "version"); err != nil {
		return Config{}, err
	}
	if err := assure.NonEmptyStrings(tree.Get("database"), "host", "database", "username"); err != nil {
		return Config{}, err
	}
	return codec.DecodeInto[Config](cm.codec, tree)
}

func (cm *ConfigManager) ValidateConfig(env string) error {
	tree, err := cm.LoadTree(env)
	if err != nil {
		return err
	}
	if _, err := cm.LoadConfig(env); err != nil {
		return err
	}
	for _, check := range cm.checks {
		ok, err := check.Match(tree)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("check failed: %s", check)
		}
	}

	fmt.Printf("Configuration for environment '%s' is valid\n", env)
	return nil
}

func (cm *ConfigManager) ShowConfig(env string, maskSecrets bool) error {
	tree, err := cm.LoadTree(env)
	if err != nil {
		return err
	}
	if maskSecrets {
		cm.maskSecrets(tree)
	}

	out, err := cm.codec.ToYAML(tree)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	fmt.Printf("Configuration for environment: %s\n", env)
	fmt.Println("=" + strings.Repeat("=", len(env)+30))
	fmt.Print(out)
	return nil
}

func (cm *ConfigManager) maskSecrets(tree *jsonkit.Node) {
	secrets := []struct{ parent, key string }{
		{"/database", "password"},
		{"/redis", "password"},
		{"/app/tls", "keyFile"},
	}
	for _, s := range secrets {
		parent, err := tree.AtString(s.parent)
		if err != nil || !parent.IsObject() {
			continue
		}
		if parent.Get(s.key).Text() != "" {
			parent.Set(s.key, jsonkit.String("***masked***"))
		}
	}
}

func (cm *ConfigManager) GenerateTemplate() error {
	templates := map[string]string{
		"base.yaml": `# Base configuration (common settings)
app:
  name: "MyWebApp"
  version: "1.0.0"
  metadata:
    author: "Your Name"
    description: "Web application"

database:
  host: "localhost"
  database: "myapp"
  username: "postgres"
`,
		"development.yaml": `# Development environment overrides (JSON merge patch)
app:
  port: 3000

database:
  password: "${DB_PASSWORD:-dev_password}"
  sslMode: "disable"

logging:
  level: "debug"

features:
  debugging: true
`,
		"production.yaml": `# Production environment overrides (JSON merge patch)
app:
  environment: "production"
  port: 80
  tls:
    enabled: true
    certFile: "${TLS_CERT_FILE}"
    keyFile: "${TLS_KEY_FILE}"
  cors:
    origins: ["https://example.com", "https://app.example.com"]

database:
  host: "${DB_HOST}"
  password: "${DB_PASSWORD}"
  maxConns: 50
  sslMode: "require"

logging:
  level: "warn"
  output: "${LOG_OUTPUT:-stdout}"
`,
	}

	for filename, content := range templates {
		if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filename, err)
		}
		fmt.Printf("Generated %s\n", filename)
	}
	fmt.Println("Next: go run . validate --env=development")
	return nil
}

func (cm *ConfigManager) loadYAML(filename string) (*jsonkit.Node, error) {
	if !cm.fileExists(filename) {
		return nil, fmt.Errorf("file %s does not exist", filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	n, err := cm.codec.DecodeYAML(expandEnvVars(data))
	if err != nil {
		return nil, err
	}
	if err := assure.Object(n); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return n, nil
}

func (cm *ConfigManager) fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

var envVar = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default}.
func expandEnvVars(data []byte) []byte {
	return envVar.ReplaceAllFunc(data, func(match []byte) []byte {
		name, def, hasDefault := strings.Cut(string(match[2:len(match)-1]), ":-")
		if v := os.Getenv(name); v != "" || !hasDefault {
			return []byte(v)
		}
		return []byte(def)
	})
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cm := NewConfigManager()
	switch os.Args[1] {
	case "validate":
		if err := cm.ValidateConfig(getEnvFlag()); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(1)
		}
	case "show":
		if err := cm.ShowConfig(getEnvFlag(), !getBoolFlag("--no-mask")); err != nil {
			fmt.Fprintf(os.Stderr, "Show failed: %v\n", err)
			os.Exit(1)
		}
	case "generate":
		if err := cm.GenerateTemplate(); err != nil {
			fmt.Fprintf(os.Stderr, "Generate failed: %v\n", err)
			os.Exit(1)
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`jsonkit Config Manager Sample

Usage: %s <command> [flags...]

Commands:
  validate [--env=<env>]             Validate configuration for environment
  show [--env=<env>] [--no-mask]     Show configuration (default: mask secrets)
  generate                           Generate template configuration files
`, os.Args[0])
}

func getEnvFlag() string {
	for _, arg := range os.Args[2:] {
		if v, ok := strings.CutPrefix(arg, "--env="); ok {
			return v
		}
	}
	return "development"
}

func getBoolFlag(flag string) bool {
	for _, arg := range os.Args[2:] {
		if arg == flag {
			return true
		}
	}
	return false
}
