package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

func query(expr, legend string) *prometheus.DataqueryBuilder {
	return prometheus.NewDataqueryBuilder().Expr(expr).LegendFormat(legend)
}

func main() {
	builder := dashboard.NewDashboardBuilder("Portfolio API").
		Uid("portfolio-api").
		Tags([]string{"portfolio", "notifications", "prometheus"}).
		Refresh("1m").
		Time("now-6h", "now").
		Timezone(common.TimeZoneBrowser)

	builder = builder.WithRow(dashboard.NewRowBuilder("Notifications"))
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Deliveries by channel").
			WithTarget(query(`sum by (channel) (rate(portfolio_notify_deliveries_total{outcome="success"}[5m]))`, "{{channel}} delivered")).
			WithTarget(query(`sum by (channel) (rate(portfolio_notify_exhausted_total[5m]))`, "{{channel}} exhausted")).
			WithTarget(query(`sum by (channel) (rate(portfolio_notify_not_configured_total[5m]))`, "{{channel}} not configured")),
	)
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Attempts").
			WithTarget(query(`sum by (channel, outcome) (rate(portfolio_notify_attempts_total[5m]))`, "{{channel}} {{outcome}}")),
	)
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Attempt duration avg").
			WithTarget(query(`sum by (channel) (rate(portfolio_notify_attempt_duration_seconds_sum[5m])) / sum by (channel) (rate(portfolio_notify_attempt_duration_seconds_count[5m]))`, "{{channel}}")),
	)
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Recipient states").
			WithTarget(query(`sum by (state) (rate(portfolio_notify_transitions_total[5m]))`, "{{state}}")),
	)
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Fan-out recipients").
			WithTarget(query(`sum by (outcome) (rate(portfolio_notify_fanout_recipients_total[5m]))`, "{{outcome}}")),
	)

	builder = builder.WithRow(dashboard.NewRowBuilder("Background runner"))
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Tasks accepted / dropped").
			WithTarget(query(`sum by (task) (rate(portfolio_runner_tasks_total[5m]))`, "{{task}}")).
			WithTarget(query(`sum by (reason) (rate(portfolio_runner_dropped_total[5m]))`, "dropped {{reason}}")).
			WithTarget(query(`sum(rate(portfolio_runner_panics_total[5m]))`, "panics")),
	)
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Queue depth").
			WithTarget(query(`max(portfolio_runner_queue_depth)`, "depth")),
	)

	builder = builder.WithRow(dashboard.NewRowBuilder("HTTP"))
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Requests by status").
			WithTarget(query(`sum by (status) (rate(portfolio_http_requests_total[5m]))`, "{{status}}")),
	)
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Request duration avg").
			WithTarget(query(`sum by (route) (rate(portfolio_http_request_duration_seconds_sum[5m])) / sum by (route) (rate(portfolio_http_request_duration_seconds_count[5m]))`, "{{route}}")),
	)
	builder = builder.WithPanel(
		timeseries.NewPanelBuilder().
			Title("Rate limited").
			WithTarget(query(`sum by (scope) (rate(portfolio_ratelimit_rejected_total[5m]))`, "{{scope}}")),
	)

	dashboardJSON, err := builder.Build()
	if err != nil {
		panic(err)
	}

	outputPath := os.Getenv("DASHBOARD_OUT")
	if outputPath == "" {
		outputPath = "dashboard.json"
	}

	payload, err := json.MarshalIndent(dashboardJSON, "", "  ")
	if err != nil {
		panic(err)
	}

	if err := os.WriteFile(outputPath, payload, 0o600); err != nil {
		panic(err)
	}

	fmt.Printf("dashboard written to %s\n", outputPath)
}
