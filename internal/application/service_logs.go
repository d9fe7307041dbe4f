package application

import (
	"context"
	"strings"

	"github.com/wblproducoes/mvc08/internal/domain"
	"github.com/wblproducoes/mvc08/internal/ports"
)

// ListAccessLogs returns one page of audit rows for the review screens.
func (s *Service) ListAccessLogs(ctx context.Context, params ListAccessLogsParams) (AccessLogList, error) {
	page := params.Page.clamp()
	entries, total, err := s.accessLogs.List(ctx, ports.AccessLogFilter{
		Search:    strings.TrimSpace(params.Search),
		EventType: params.EventType,
		Success:   params.Success,
	}, page.Limit, page.Offset)
	if err != nil {
		return AccessLogList{}, err
	}
	return AccessLogList{Entries: entries, Total: total}, nil
}

// GetAccessLog returns one audit row.
func (s *Service) GetAccessLog(ctx context.Context, id int64) (domain.AccessLogEntry, error) {
	return s.accessLogs.GetByID(ctx, id)
}
