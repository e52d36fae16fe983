// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

/*
Package metrics provides Prometheus instrumentation for analysis runs.

orbitstats is a batch tool, so metrics are not scraped. Instead each run
gathers the registry at the end and stores the result next to its analysis
output (performance_metrics/), and optionally writes a Prometheus textfile
for the node_exporter textfile collector.

# Available Metrics

Loading:
  - orbitstats_records_loaded_total{dataset}
  - orbitstats_records_skipped_total{dataset, reason}

Analysis:
  - orbitstats_component_duration_seconds{component}
  - orbitstats_component_errors_total{component}
  - orbitstats_analysis_runs_total{status}
  - orbitstats_last_run_timestamp_seconds

Categorization:
  - orbitstats_llm_requests_total{status}
  - orbitstats_llm_tokens_total{kind}
  - orbitstats_llm_batch_duration_seconds
  - orbitstats_ideas_categorized_total{source}
  - orbitstats_circuit_breaker_state{name}

Export:
  - orbitstats_export_query_duration_seconds{operation, table}
  - orbitstats_export_rows_total{table}
*/
package metrics
