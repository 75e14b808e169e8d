package ui

import (
	"github.com/ozgurozkan01/pyLog/internal/model"
)

// Data fetched messages. Seq is the request sequence number the view
// state handed out when the fetch started.
type LogsLoadedMsg struct {
	Seq  uint64
	Page model.LogsPage
	Err  error
}

type DashboardLoadedMsg struct {
	Seq    uint64
	Data   model.DashboardData
	Recent []model.LogRecord
	Err    error
}

type StatusMsg struct {
	Text string
}
