package service

import (
	"context"
	"net/url"

	"github.com/kinkando/score-admin/pkg/google"
	"github.com/kinkando/score-admin/pkg/logger"
)

// ReportLinker turns the report path stored on a score into a link the
// operator can open.
type ReportLinker interface {
	Link(ctx context.Context, reportPath string) string
}

type reportLinker struct {
	baseURL string
	storage google.Storage
}

// NewReportLinker signs report paths through storage when it is given and
// joins them onto baseURL otherwise.
func NewReportLinker(baseURL string, storage google.Storage) ReportLinker {
	return &reportLinker{
		baseURL: baseURL,
		storage: storage,
	}
}

func (l *reportLinker) Link(ctx context.Context, reportPath string) string {
	if reportPath == "" {
		return ""
	}
	if u, err := url.Parse(reportPath); err == nil && u.IsAbs() {
		return reportPath
	}

	if l.storage != nil {
		signedURL, err := l.storage.SignedURL(reportPath)
		if err != nil {
			logger.Context(ctx).Error(err)
			return l.storage.PublicURL(reportPath)
		}
		return signedURL
	}

	if l.baseURL == "" {
		return reportPath
	}
	link, err := url.JoinPath(l.baseURL, reportPath)
	if err != nil {
		logger.Context(ctx).Error(err)
		return reportPath
	}
	return link
}
