package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/ogurasousui/payslip-service/internal/core/payroll"
	"github.com/ogurasousui/payslip-service/internal/platform/config"
)

const (
	StageCompose = "compose"
	StageSession = "session"
	StageSend    = "send"
)

// Guidance は送信失敗時に利用者へ示す確認事項です。
const Guidance = "check the recipient address, SMTP credentials and app-password settings"

// ErrMailDisabled は SMTP が設定されていない場合のエラーです。
var ErrMailDisabled = errors.New("delivery: smtp is not configured")

// MailerConfig は SMTP 接続設定です。
type MailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	TLS      string
	Timeout  time.Duration
}

// StageError は SMTP 送信のどの段階で失敗したかを保持します。
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("smtp %s: %v (%s)", e.Stage, e.Err, Guidance)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type smtpClient interface {
	DialWithContext(ctx context.Context) error
	Send(messages ...*mail.Msg) error
	Close() error
}

// Mailer は go-mail で帳票添付メールを 1 通送信します。再送やキューイングは行いません。
type Mailer struct {
	cfg       MailerConfig
	logger    *zap.Logger
	newClient func(MailerConfig) (smtpClient, error)
}

// NewMailer は Mailer を生成します。
func NewMailer(cfg MailerConfig, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{cfg: cfg, logger: logger.Named("mailer"), newClient: newGoMailClient}
}

// Send は宛先を検証し、SMTP セッションを確立して送信します。
func (m *Mailer) Send(ctx context.Context, msg *payroll.Message) error {
	const op = "send"

	if msg == nil || !payroll.IsRecipientAddress(msg.To) {
		to := ""
		if msg != nil {
			to = msg.To
		}
		return payroll.Validation(op, fmt.Errorf("%w: %q", payroll.ErrInvalidRecipient, to))
	}
	if m.cfg.Host == "" {
		return payroll.Delivery(op, &StageError{Stage: StageSession, Err: ErrMailDisabled})
	}

	out, err := m.compose(msg)
	if err != nil {
		return payroll.Delivery(op, &StageError{Stage: StageCompose, Err: err})
	}

	client, err := m.newClient(m.cfg)
	if err != nil {
		return payroll.Delivery(op, &StageError{Stage: StageSession, Err: err})
	}

	if err := client.DialWithContext(ctx); err != nil {
		m.logger.Warn("smtp session failed", zap.String("host", m.cfg.Host), zap.Error(err))
		return payroll.Delivery(op, &StageError{Stage: StageSession, Err: err})
	}
	defer func() {
		if err := client.Close(); err != nil {
			m.logger.Debug("smtp close failed", zap.Error(err))
		}
	}()

	if err := client.Send(out); err != nil {
		m.logger.Warn("smtp send failed", zap.String("to", msg.To), zap.Error(err))
		return payroll.Delivery(op, &StageError{Stage: StageSend, Err: err})
	}
	return nil
}

func (m *Mailer) compose(msg *payroll.Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("from %q: %w", m.cfg.From, err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("to %q: %w", msg.To, err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Body)

	if a := msg.Attachment; a != nil {
		var opts []mail.FileOption
		if a.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}
		if err := out.AttachReader(a.Name, bytes.NewReader(a.Content), opts...); err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Name, err)
		}
	}
	return out, nil
}

func newGoMailClient(cfg MailerConfig) (smtpClient, error) {
	var opts []mail.Option
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	switch cfg.TLS {
	case config.SMTPTLSImplicit:
		opts = append(opts, mail.WithSSL())
	case config.SMTPTLSNone:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}
