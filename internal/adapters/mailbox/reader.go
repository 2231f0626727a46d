package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"sort"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/mikey/recruitflow-ingest/internal/logging"
	"go.uber.org/zap"
)

// session is the subset of the IMAP client the reader drives
type session interface {
	Login(username, password string) error
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	Fetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	Logout() error
	Terminate() error
}

// Options configure the IMAP reader
type Options struct {
	Address string
	Mailbox string
	Timeout time.Duration
}

// IMAPReader reads recent messages from a user's mailbox over IMAPS
type IMAPReader struct {
	opts      Options
	extractor core.DocumentExtractor
	logger    *zap.Logger
	dial      func(ctx context.Context) (session, error)
}

// NewIMAPReader creates a mailbox reader
func NewIMAPReader(opts Options, extractor core.DocumentExtractor, logger *zap.Logger) *IMAPReader {
	if opts.Mailbox == "" {
		opts.Mailbox = "INBOX"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &IMAPReader{
		opts:      opts,
		extractor: extractor,
		logger:    logger,
	}
	r.dial = r.dialTLS
	return r
}

func (r *IMAPReader) dialTLS(ctx context.Context) (session, error) {
	host, _, err := net.SplitHostPort(r.opts.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid IMAP address %q: %w", r.opts.Address, err)
	}

	dialer := &net.Dialer{Timeout: r.opts.Timeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}
	c, err := client.DialWithDialerTLS(dialer, r.opts.Address, &tls.Config{ServerName: host})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", r.opts.Address, err)
	}
	c.Timeout = r.opts.Timeout
	return c, nil
}

// FetchRecent returns at most limit messages, newest first. Connection and
// protocol failures are returned; the pipeline treats them as an empty
// mailbox for this user only.
func (r *IMAPReader) FetchRecent(ctx context.Context, address, credential string, limit int) ([]core.Message, error) {
	log := logging.WithFields(r.logger, zap.String(logging.FieldUser, address))
	if limit <= 0 {
		return nil, nil
	}

	c, err := r.dial(ctx)
	if err != nil {
		return nil, err
	}
	// go-imap v1 has no context support; tear the connection down instead
	stop := context.AfterFunc(ctx, func() { c.Terminate() })
	defer stop()
	defer c.Logout()

	if err := c.Login(address, credential); err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	status, err := c.Select(r.opts.Mailbox, true)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", r.opts.Mailbox, err)
	}
	if status.Messages == 0 {
		return nil, nil
	}

	from := uint32(1)
	if status.Messages > uint32(limit) {
		from = status.Messages - uint32(limit) + 1
	}
	seqset := new(imap.SeqSet)
	seqset.AddRange(from, status.Messages)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchInternalDate, section.FetchItem()}

	ch := make(chan *imap.Message, 16)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, ch)
	}()

	var fetched []*imap.Message
	for m := range ch {
		fetched = append(fetched, m)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(fetched, func(i, j int) bool { return fetched[i].SeqNum > fetched[j].SeqNum })

	messages := make([]core.Message, 0, len(fetched))
	for _, m := range fetched {
		raw := bodyOf(m)
		if raw == nil {
			log.Debug("Message without body", zap.Uint32("seq", m.SeqNum))
			continue
		}
		msg, err := ParseMessage(raw, m.InternalDate, r.extractor, log)
		if err != nil {
			log.Warn("Skipping unparsable message", zap.Uint32("seq", m.SeqNum), zap.Error(err))
			continue
		}
		messages = append(messages, *msg)
	}

	log.Debug("Fetched messages", zap.Int("count", len(messages)))
	return messages, nil
}

// bodyOf returns the single body section requested by FetchRecent
func bodyOf(m *imap.Message) []byte {
	for _, literal := range m.Body {
		if literal == nil {
			continue
		}
		raw, err := io.ReadAll(literal)
		if err != nil {
			return nil
		}
		return raw
	}
	return nil
}
