package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	// FromAddress defaults to Username.
	FromAddress string
}

// SMTPTransport delivers HTML email through an authenticated SMTP relay.
type SMTPTransport struct {
	config        SMTPConfig
	socketTimeout time.Duration
}

// NewSMTPTransport applies the shorter of the verify and send step timeouts
// in steps to each network operation of the SMTP client.
func NewSMTPTransport(config SMTPConfig, steps AdapterConfig) *SMTPTransport {
	config.Host = strings.TrimSpace(config.Host)
	config.Username = strings.TrimSpace(config.Username)
	if config.Port == 0 {
		config.Port = 587
	}
	if config.FromAddress == "" {
		config.FromAddress = config.Username
	}
	steps = steps.withDefaults()
	return &SMTPTransport{config: config, socketTimeout: min(steps.VerifyTimeout, steps.SendTimeout)}
}

// SocketTimeout is the per-operation deadline applied to the connection.
func (transport *SMTPTransport) SocketTimeout() time.Duration {
	return transport.socketTimeout
}

func (transport *SMTPTransport) Name() string {
	return "smtp"
}

func (transport *SMTPTransport) Ready() error {
	if transport.config.Host == "" {
		return fmt.Errorf("smtp host is empty: %w", ErrNotConfigured)
	}
	if transport.config.Username == "" || transport.config.Password == "" {
		return fmt.Errorf("smtp credentials are empty: %w", ErrNotConfigured)
	}
	return nil
}

func (transport *SMTPTransport) options(conn *smtpConn) []mail.Option {
	options := []mail.Option{
		mail.WithPort(transport.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(transport.config.Username),
		mail.WithPassword(transport.config.Password),
		mail.WithTimeout(transport.socketTimeout),
		mail.WithDialContextFunc(transport.dial(conn)),
	}
	if transport.config.Port == 465 {
		return append(options, mail.WithSSL())
	}
	return append(options, mail.WithTLSPolicy(mail.TLSMandatory))
}

// dial opens the raw connection and records it in conn. Implicit TLS on
// port 465 is done here since a custom dialer replaces the client's own.
func (transport *SMTPTransport) dial(conn *smtpConn) mail.DialContextFunc {
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		dialer := &net.Dialer{}
		var raw net.Conn
		var err error
		if transport.config.Port == 465 {
			tlsDialer := &tls.Dialer{
				NetDialer: dialer,
				Config:    &tls.Config{ServerName: transport.config.Host, MinVersion: tls.VersionTLS12},
			}
			raw, err = tlsDialer.DialContext(ctx, network, address)
		} else {
			raw, err = dialer.DialContext(ctx, network, address)
		}
		if err != nil {
			return nil, err
		}
		conn.set(raw)
		return raw, nil
	}
}

// Open connects, upgrades to TLS and authenticates.
func (transport *SMTPTransport) Open(ctx context.Context) (Session, error) {
	conn := &smtpConn{}
	client, err := mail.NewClient(transport.config.Host, transport.options(conn)...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return nil, fmt.Errorf("dial smtp %s:%d: %w", transport.config.Host, transport.config.Port, err)
	}
	return &smtpSession{client: client, conn: conn, config: transport.config}, nil
}

// smtpConn holds the connection under a session so it can be cut while a
// send is blocked on it.
type smtpConn struct {
	mu   sync.Mutex
	conn net.Conn
}

func (holder *smtpConn) set(conn net.Conn) {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	holder.conn = conn
}

func (holder *smtpConn) close() error {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	if holder.conn == nil {
		return nil
	}
	return holder.conn.Close()
}

type smtpSession struct {
	client *mail.Client
	conn   *smtpConn
	config SMTPConfig
}

func (session *smtpSession) Send(ctx context.Context, envelope Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := mail.NewMsg()
	if err := message.FromFormat(session.config.FromName, session.config.FromAddress); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := message.To(envelope.Recipient); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	if replyTo := envelope.Meta(MetaReplyTo); replyTo != "" {
		if err := message.ReplyTo(replyTo); err != nil {
			return fmt.Errorf("set reply-to: %w", err)
		}
	}
	message.Subject(envelope.Subject)
	message.SetDate()
	message.SetBodyString(mail.TypeTextHTML, envelope.Body)

	if err := session.client.Send(message); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// Abort closes the connection under an in-flight Send so the message is
// never completed after its deadline.
func (session *smtpSession) Abort() error {
	return session.conn.close()
}

func (session *smtpSession) Close() error {
	return session.client.Close()
}
