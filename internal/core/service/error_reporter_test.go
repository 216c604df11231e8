package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

func newTestReporter(dedup Deduper, notifier ports.Notifier) *ErrorReporter {
	r := NewErrorReporter(ReporterConfig{
		ProductName:   "XIVAPI",
		Env:           "prod",
		DeployRoot:    "/home/dalamud/",
		LocalMarker:   "vagrant",
		Channel:       "errors-channel",
		SuppressCodes: []int{404},
	}, dedup, notifier, zerolog.Nop())
	r.now = func() time.Time { return time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC) }
	r.newID = func() string { return "ID1" }
	return r
}

func errorContext(err error, code int) ports.ErrorContext {
	return ports.ErrorContext{
		Err:    err,
		Code:   code,
		Method: "GET",
		Path:   "/account",
		URL:    "https://example.com/account",
		Action: "/account",
	}
}

func TestErrorReporter_DuplicateMessageNotifiesOnce(t *testing.T) {
	dedup := newStubDeduper()
	notifier := &stubNotifier{}
	r := newTestReporter(dedup, notifier)

	first, out1 := r.Report(context.Background(), errorContext(errors.New("DB timeout"), 500))
	second, out2 := r.Report(context.Background(), errorContext(errors.New("DB timeout"), 500))

	if out1 != domain.ReportNotified || out2 != domain.ReportDuplicate {
		t.Fatalf("expected notified then duplicate, got %s and %s", out1, out2)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(notifier.sent))
	}
	if first.Hash != second.Hash || first.Message != second.Message {
		t.Fatalf("expected identical reports, got %+v and %+v", first, second)
	}

	sum := sha1.Sum([]byte("DB timeout"))
	if first.Hash != hex.EncodeToString(sum[:]) {
		t.Fatalf("expected sha1 hash, got %s", first.Hash)
	}
	if !dedup.seen[first.Hash] {
		t.Fatalf("expected dedup key to be recorded")
	}
}

func TestErrorReporter_NotificationBody(t *testing.T) {
	notifier := &stubNotifier{}
	r := newTestReporter(newStubDeduper(), notifier)

	report, _ := r.Report(context.Background(), errorContext(errors.New("boom"), 500))

	if len(notifier.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.sent))
	}
	msg := notifier.sent[0]
	if msg.channel != "errors-channel" {
		t.Fatalf("unexpected channel %s", msg.channel)
	}
	if !strings.HasPrefix(msg.text, "```") || !strings.HasSuffix(msg.text, "```") {
		t.Fatalf("expected code fence, got %q", msg.text)
	}

	var decoded domain.ErrorReport
	if err := json.Unmarshal([]byte(strings.Trim(msg.text, "`")), &decoded); err != nil {
		t.Fatalf("invalid json in notification: %v", err)
	}
	if decoded.Hash != report.Hash || decoded.Subject != "XIVAPI Service Error" || !decoded.Error {
		t.Fatalf("unexpected decoded report: %+v", decoded)
	}
	if decoded.Debug.Date != "2024-05-01 13:04:05" || decoded.Debug.Env != "prod" || decoded.Debug.ID != "ID1" {
		t.Fatalf("unexpected debug block: %+v", decoded.Debug)
	}
}

func TestErrorReporter_404NeverNotifies(t *testing.T) {
	dedup := newStubDeduper()
	notifier := &stubNotifier{}
	r := newTestReporter(dedup, notifier)

	report, outcome := r.Report(context.Background(), errorContext(domain.KindNotFound.New("", 0), 404))

	if outcome != domain.ReportSuppressed || len(notifier.sent) != 0 {
		t.Fatalf("expected suppressed without notification, got %s / %d", outcome, len(notifier.sent))
	}
	if len(dedup.seen) != 0 {
		t.Fatalf("suppressed reports must not touch the dedup store")
	}
	if report.Debug.Code != 404 || report.Ex != "NotFound" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestErrorReporter_LocalMarkerSuppresses(t *testing.T) {
	notifier := &stubNotifier{}
	r := newTestReporter(newStubDeduper(), notifier)

	err := domain.KindGenericJSONFailure.New("", 0)
	err.File = "/home/VAGRANT/app/handler.go"
	err.Line = 12

	_, outcome := r.Report(context.Background(), errorContext(err, 500))
	if outcome != domain.ReportSuppressed || len(notifier.sent) != 0 {
		t.Fatalf("expected suppression for local files, got %s", outcome)
	}
}

func TestErrorReporter_LocationStripsDeployRoot(t *testing.T) {
	r := newTestReporter(newStubDeduper(), &stubNotifier{})

	err := domain.KindInvalidServerParameter.New("", 0)
	err.File = "/home/dalamud/app/internal/handler.go"
	err.Line = 42

	report, _ := r.Report(context.Background(), errorContext(err, err.Code))
	if report.Debug.File != "#42 app/internal/handler.go" {
		t.Fatalf("unexpected file: %s", report.Debug.File)
	}
	if report.Ex != "InvalidServerParameter" || report.Message != "Invalid server provided for request." {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestErrorReporter_EmptyMessage(t *testing.T) {
	r := newTestReporter(newStubDeduper(), &stubNotifier{})

	report, _ := r.Report(context.Background(), errorContext(errors.New(""), 500))
	if report.Message != noExceptionMessage {
		t.Fatalf("expected placeholder message, got %q", report.Message)
	}
}

func TestErrorReporter_MessageOverride(t *testing.T) {
	r := newTestReporter(newStubDeduper(), &stubNotifier{})

	ec := errorContext(errors.New("code=405, message=Method Not Allowed"), 405)
	ec.Message = "Method Not Allowed"
	report, _ := r.Report(context.Background(), ec)
	if report.Message != "Method Not Allowed" {
		t.Fatalf("expected override, got %q", report.Message)
	}
}

func TestErrorReporter_DedupFailureStillNotifies(t *testing.T) {
	dedup := &stubDeduper{err: errors.New("redis down")}
	notifier := &stubNotifier{}
	r := newTestReporter(dedup, notifier)

	_, outcome := r.Report(context.Background(), errorContext(errors.New("boom"), 500))
	if outcome != domain.ReportNotified || len(notifier.sent) != 1 {
		t.Fatalf("expected notification despite dedup failure, got %s", outcome)
	}
}

func TestErrorReporter_NotifierFailureIsContained(t *testing.T) {
	notifier := &stubNotifier{err: errors.New("discord down")}
	r := newTestReporter(newStubDeduper(), notifier)

	report, outcome := r.Report(context.Background(), errorContext(errors.New("boom"), 500))
	if outcome != domain.ReportFailed {
		t.Fatalf("expected notify_failed, got %s", outcome)
	}
	if report == nil || report.Message != "boom" {
		t.Fatalf("expected report to be returned, got %+v", report)
	}
}

func TestErrorReporter_OriginTypeOfWrappedError(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"))
	if got := originType(wrapped); got == "" {
		t.Fatalf("expected a type name")
	}

	type customErr struct{ error }
	base := customErr{errors.New("inner")}
	if got := originType(base); got != "service.customErr" {
		t.Fatalf("expected service.customErr, got %s", got)
	}
}
