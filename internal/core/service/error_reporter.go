package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/xivapi/common-backend/internal/api/metrics"
	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

const (
	noExceptionMessage = "(no-exception-message)"
	reportDateLayout   = "2006-01-02 15:04:05"
)

// Deduper remembers which error hashes were already forwarded.
type Deduper interface {
	// FirstSeen records hash and reports whether it was new.
	FirstSeen(ctx context.Context, hash string) (bool, error)
}

// ReporterConfig controls report contents and suppression.
type ReporterConfig struct {
	ProductName   string
	Env           string
	DeployRoot    string
	LocalMarker   string
	Channel       string
	SuppressCodes []int
}

// ErrorReporter builds structured error reports and forwards each distinct
// message once to the error channel.
type ErrorReporter struct {
	cfg      ReporterConfig
	dedup    Deduper
	notifier ports.Notifier
	log      zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewErrorReporter(cfg ReporterConfig, dedup Deduper, notifier ports.Notifier, log zerolog.Logger) *ErrorReporter {
	return &ErrorReporter{
		cfg:      cfg,
		dedup:    dedup,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		newID:    func() string { return ksuid.New().String() },
	}
}

// Report builds the client report for ec and decides whether to notify. The
// report is returned whatever the notification outcome.
func (r *ErrorReporter) Report(ctx context.Context, ec ports.ErrorContext) (*domain.ErrorReport, domain.ReportOutcome) {
	report := r.build(ec)
	outcome := r.notify(ctx, report)

	metrics.ErrorReportsTotal.WithLabelValues(string(outcome), strconv.Itoa(report.Debug.Code)).Inc()
	return report, outcome
}

func (r *ErrorReporter) build(ec ports.ErrorContext) *domain.ErrorReport {
	message := ec.Message
	if message == "" {
		message = errorMessage(ec.Err)
	}
	sum := sha1.Sum([]byte(message))

	return &domain.ErrorReport{
		Error:   true,
		Subject: r.cfg.ProductName + " Service Error",
		Message: message,
		Hash:    hex.EncodeToString(sum[:]),
		Ex:      originType(ec.Err),
		URL:     ec.URL,
		Debug: domain.ReportDebug{
			ID:     r.newID(),
			File:   r.location(ec.Err),
			Method: ec.Method,
			Path:   ec.Path,
			Action: ec.Action,
			Code:   ec.Code,
			Date:   r.now().Format(reportDateLayout),
			Env:    r.cfg.Env,
		},
	}
}

func (r *ErrorReporter) notify(ctx context.Context, report *domain.ErrorReport) domain.ReportOutcome {
	if r.suppressed(report) {
		return domain.ReportSuppressed
	}

	first, err := r.dedup.FirstSeen(ctx, report.Hash)
	if err != nil {
		r.log.Warn().Err(err).Str("hash", report.Hash).Msg("error dedup check failed, notifying anyway")
	} else if !first {
		return domain.ReportDuplicate
	}

	body, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		r.log.Warn().Err(err).Str("hash", report.Hash).Msg("failed to encode error report")
		return domain.ReportFailed
	}

	if err := r.notifier.SendMessage(ctx, r.cfg.Channel, "```"+string(body)+"```"); err != nil {
		r.log.Warn().Err(err).Str("hash", report.Hash).Msg("failed to send error notification")
		return domain.ReportFailed
	}
	return domain.ReportNotified
}

func (r *ErrorReporter) suppressed(report *domain.ErrorReport) bool {
	if r.notifier == nil || r.cfg.Channel == "" {
		return true
	}
	if slices.Contains(r.cfg.SuppressCodes, report.Debug.Code) {
		return true
	}
	marker := strings.ToLower(r.cfg.LocalMarker)
	return marker != "" && strings.Contains(strings.ToLower(report.Debug.File), marker)
}

// location renders "#<line> <file>" with the deploy root removed.
func (r *ErrorReporter) location(err error) string {
	var de *domain.Error
	if !errors.As(err, &de) || de.File == "" {
		return "#0 (unknown)"
	}
	return fmt.Sprintf("#%d %s", de.Line, removeFold(de.File, r.cfg.DeployRoot))
}

func errorMessage(err error) string {
	if err == nil {
		return noExceptionMessage
	}
	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return noExceptionMessage
}

// originType names the error kind, or the Go type of the innermost cause.
func originType(err error) string {
	if err == nil {
		return "<nil>"
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Kind.Name
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}

// removeFold deletes every case-insensitive occurrence of sub from s.
func removeFold(s, sub string) string {
	if sub == "" {
		return s
	}
	lowerSub := strings.ToLower(sub)
	var b strings.Builder
	for {
		i := strings.Index(strings.ToLower(s), lowerSub)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		s = s[i+len(sub):]
	}
}
