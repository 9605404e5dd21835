package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDatabasePassword = "PAYSLIP_DB_PASSWORD"
	EnvSMTPPassword     = "PAYSLIP_SMTP_PASSWORD"
)

const (
	DocumentFormatPDF  = "pdf"
	DocumentFormatXLSX = "xlsx"
)

const (
	SMTPTLSStartTLS = "starttls"
	SMTPTLSImplicit = "ssl"
	SMTPTLSNone     = "none"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Document DocumentConfig `yaml:"document"`
	SMTP     SMTPConfig     `yaml:"smtp"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DocumentConfig は帳票生成に関する設定です。
type DocumentConfig struct {
	Format      string   `yaml:"format"`
	OutputDir   string   `yaml:"output_dir"`
	Label       string   `yaml:"label"`
	Title       string   `yaml:"title"`
	FontRegular string   `yaml:"font_regular"`
	FontBold    string   `yaml:"font_bold"`
	FooterLines []string `yaml:"footer_lines"`
	Signature   string   `yaml:"signature"`
}

// SMTPConfig はメール送信に関する設定です。host が空の場合、送信は無効です。
type SMTPConfig struct {
	Host       string        `yaml:"host"`
	Port       int           `yaml:"port"`
	Username   string        `yaml:"username"`
	Password   string        `yaml:"password"`
	From       string        `yaml:"from"`
	TLS        string        `yaml:"tls"`
	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout"`
}

// Enabled は SMTP 送信が設定されているかを返します。
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// Load は指定されたパスから設定ファイルを読み込みます。
// パスワードは環境変数が設定されていればそちらを優先します。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDatabasePassword); ok && v != "" {
		c.Database.Password = v
	}
	if v, ok := lookup(EnvSMTPPassword); ok && v != "" {
		c.SMTP.Password = v
	}
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Log.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Document.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.SMTP.validateAndNormalize(); err != nil {
		return err
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (l *LogConfig) validateAndNormalize() error {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	if l.Level == "" {
		l.Level = "info"
	}
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is not supported", l.Level)
	}

	l.Format = strings.ToLower(strings.TrimSpace(l.Format))
	if l.Format == "" {
		l.Format = "json"
	}
	if l.Format != "json" && l.Format != "console" {
		return fmt.Errorf("config: log.format %q is not supported", l.Format)
	}
	return nil
}

func (d *DocumentConfig) validateAndNormalize() error {
	d.Format = strings.ToLower(strings.TrimSpace(d.Format))
	if d.Format == "" {
		d.Format = DocumentFormatPDF
	}
	if d.Format != DocumentFormatPDF && d.Format != DocumentFormatXLSX {
		return fmt.Errorf("config: document.format %q is not supported", d.Format)
	}

	if d.OutputDir == "" {
		d.OutputDir = "payslips"
	}
	if d.Label == "" {
		d.Label = "Зарплата"
	}
	if d.Title == "" {
		d.Title = "Расчёт заработной платы"
	}
	if d.Format == DocumentFormatPDF && (d.FontRegular == "" || d.FontBold == "") {
		return fmt.Errorf("config: document.font_regular and document.font_bold must be set for pdf")
	}
	return nil
}

func (s *SMTPConfig) validateAndNormalize() error {
	timeout, err := parseDurationAllowEmpty(s.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: smtp.timeout: %w", err)
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	s.Timeout = timeout

	if !s.Enabled() {
		return nil
	}

	s.TLS = strings.ToLower(strings.TrimSpace(s.TLS))
	if s.TLS == "" {
		s.TLS = SMTPTLSStartTLS
	}
	switch s.TLS {
	case SMTPTLSStartTLS, SMTPTLSImplicit, SMTPTLSNone:
	default:
		return fmt.Errorf("config: smtp.tls %q is not supported", s.TLS)
	}

	if s.Port == 0 {
		switch s.TLS {
		case SMTPTLSImplicit:
			s.Port = 465
		default:
			s.Port = 587
		}
	}
	if s.From == "" {
		s.From = s.Username
	}
	if !strings.Contains(s.From, "@") {
		return fmt.Errorf("config: smtp.from must be an e-mail address")
	}
	return nil
}

// Addr は host:port 形式のアドレスを返します。
func (s SMTPConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。認証情報は URL エスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
