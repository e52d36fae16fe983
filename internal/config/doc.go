// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

/*
Package config loads orbitstats configuration with Koanf v2.

Sources are layered, later sources winning:

 1. Built-in defaults (defaultConfig)
 2. YAML config file (--config flag, CONFIG_PATH, ./config.yaml, /etc/orbitstats/config.yaml)
 3. Environment variables

Environment variables keep the AI_THESIS_* names used by the earlier analysis
scripts, for example:

	AI_THESIS_DATA_DIR=./data
	AI_THESIS_OUTPUT_DIR=./output
	AI_THESIS_BATCH_SIZE=1000
	AI_THESIS_COMPONENTS=user,activity
	GEMINI_API_KEY=...

Example config.yaml:

	data:
	  dir: ./data
	  categorized_ideas_file: categorized_ideas_latest.json
	analysis:
	  reference_date: "2025-02-04"
	  cohorts:
	    - name: fall_2024
	      start: "2024-09-01"
	      end: "2024-12-31"
	      tool_version: v2
	      sections: 1
	categorize:
	  model: gemini-2.5-flash
	  max_workers: 4
*/
package config
