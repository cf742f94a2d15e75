package connector

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"time"

	"github.com/jobsift/jobsift/internal/fetch"
)

func testClient(srv *httptest.Server) *fetch.Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fetch.NewClient(srv.Client(), nil, logger)
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}
