package filter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/bayes-spam-filter/internal/core"
	"github.com/mikey/bayes-spam-filter/internal/ports"
	"github.com/mikey/bayes-spam-filter/internal/utils"
	"github.com/mikey/bayes-spam-filter/internal/whitelist"
	"go.uber.org/zap"
)

const defaultSubjectPrefix = "[**SPAM**] "

// PostfixOptions configures the content filter
type PostfixOptions struct {
	ListenAddr    string
	Threshold     float64
	BlockSpam     bool
	SpamHeader    string
	ScoreHeader   string
	ReasonHeader  string
	RelayEnabled  bool
	RelayAddr     string
	RelayPort     int
	SubjectPrefix string
	ModifySubject bool
	MaxBodySize   int
}

// PostfixFilter is an SMTP content filter. It receives mail from Postfix,
// scores it, adds X-Spam headers and relays it back to Postfix.
type PostfixFilter struct {
	analyzer      ports.MessageAnalyzer
	whitelist     *whitelist.Checker
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	opts          PostfixOptions
	server        *smtp.Server
}

// NewPostfixFilter creates a new Postfix content filter
func NewPostfixFilter(
	analyzer ports.MessageAnalyzer,
	checker *whitelist.Checker,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	opts PostfixOptions,
) *PostfixFilter {
	if opts.SubjectPrefix == "" && opts.ModifySubject {
		opts.SubjectPrefix = defaultSubjectPrefix
	}

	return &PostfixFilter{
		analyzer:      analyzer,
		whitelist:     checker,
		textProcessor: textProcessor,
		logger:        logger,
		opts:          opts,
	}
}

// Start starts the SMTP listener in the background
func (f *PostfixFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})
	f.server.Addr = f.opts.ListenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024
	f.server.MaxRecipients = 50

	f.logger.Info("Postfix filter starting", zap.String("address", f.opts.ListenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the SMTP listener
func (f *PostfixFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessMessage scores a message, honouring the sender whitelist
func (f *PostfixFilter) ProcessMessage(ctx context.Context, msg *core.Message) (*core.SpamAnalysisResult, error) {
	if f.whitelist != nil && f.whitelist.IsWhitelisted(msg.From) {
		return &core.SpamAnalysisResult{
			IsSpam:      false,
			Score:       0,
			Explanation: "Sender is whitelisted",
			AnalyzedAt:  time.Now(),
			ModelUsed:   "whitelist",
		}, nil
	}

	if f.textProcessor != nil {
		msg.Body = f.textProcessor.ProcessText(msg.Body, f.opts.MaxBodySize)
	}
	return f.analyzer.Analyze(ctx, msg, f.opts.Threshold), nil
}

// rewrite prepends the verdict headers to raw and optionally tags the subject.
// The original body is kept byte for byte.
func (f *PostfixFilter) rewrite(raw []byte, header mail.Header, result *core.SpamAnalysisResult) []byte {
	var out bytes.Buffer

	fmt.Fprintf(&out, "%s: %t\r\n", f.opts.SpamHeader, result.IsSpam)
	fmt.Fprintf(&out, "%s: %.4f\r\n", f.opts.ScoreHeader, result.Score)
	fmt.Fprintf(&out, "%s: %s\r\n", f.opts.ReasonHeader, result.Explanation)

	replaceSubject := false
	if result.IsSpam && f.opts.ModifySubject && f.opts.SubjectPrefix != "" {
		original := header.Get("Subject")
		subject, err := decodeEncodedHeader(original)
		if err != nil {
			subject = original
		}
		if !strings.HasPrefix(subject, f.opts.SubjectPrefix) {
			fmt.Fprintf(&out, "Subject: %s\r\n", f.opts.SubjectPrefix+subject)
			replaceSubject = true
		}
	}

	for key, values := range header {
		if replaceSubject && strings.EqualFold(key, "Subject") {
			continue
		}
		for _, value := range values {
			fmt.Fprintf(&out, "%s: %s\r\n", key, value)
		}
	}
	out.WriteString("\r\n")
	out.Write(messageBody(raw))

	return out.Bytes()
}

// messageBody returns everything after the header block of raw
func messageBody(raw []byte) []byte {
	if i := bytes.Index(raw, []byte("\r\n\r\n")); i >= 0 {
		return raw[i+4:]
	}
	if i := bytes.Index(raw, []byte("\n\n")); i >= 0 {
		return raw[i+2:]
	}
	return nil
}

// relay sends the processed message back to Postfix
func (f *PostfixFilter) relay(sender string, recipients []string, data []byte) error {
	addr := net.JoinHostPort(f.opts.RelayAddr, fmt.Sprint(f.opts.RelayPort))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	accepted := 0
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			continue
		}
		accepted++
	}
	if accepted == 0 {
		return errors.New("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// the message is already queued
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *PostfixFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{filter: b.filter}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *PostfixFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data scores the message and either rejects it or relays it with headers added
func (s *smtpSession) Data(r io.Reader) error {
	logger := s.filter.logger

	raw, err := io.ReadAll(r)
	if err != nil {
		logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		logger.Error("Failed to parse message", zap.Error(err))
		return err
	}

	body, err := extractTextFromMessage(parsed)
	if err != nil {
		logger.Error("Failed to extract text content", zap.Error(err))
		return err
	}

	subject, err := decodeEncodedHeader(parsed.Header.Get("Subject"))
	if err != nil {
		subject = parsed.Header.Get("Subject")
	}

	msg := &core.Message{
		From:    s.sender,
		To:      append([]string(nil), s.recipients...),
		Subject: subject,
		Body:    body,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.filter.ProcessMessage(ctx, msg)
	if err != nil {
		return err
	}

	if result.IsSpam && s.filter.opts.BlockSpam {
		logger.Info("Rejecting spam message",
			zap.String("from", msg.From),
			zap.String("processing_id", result.ProcessingID),
			zap.Float64("score", result.Score))
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("Rejected as spam (score: %.2f)", result.Score),
		}
	}

	data := s.filter.rewrite(raw, parsed.Header, result)

	if s.filter.opts.RelayEnabled {
		if err := s.filter.relay(s.sender, s.recipients, data); err != nil {
			logger.Error("Failed to relay message to Postfix",
				zap.Error(err),
				zap.String("sender", msg.From))
			return err
		}
	} else {
		logger.Warn("Relay disabled, processed message is discarded")
	}

	logger.Info("Processed message",
		zap.String("from", msg.From),
		zap.String("processing_id", result.ProcessingID),
		zap.Bool("is_spam", result.IsSpam),
		zap.Float64("score", result.Score),
		zap.String("model", result.ModelUsed))

	return nil
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}
