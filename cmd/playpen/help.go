// ABOUTME: Help display for the playpen CLI with grouped flags, examples, and environment status.
// ABOUTME: Provides printHelp for usage output and envStatus for configuration variable detection.
package main

import (
	"fmt"
	"io"
	"os"
)

// printHelp writes a formatted help message to w.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "playpen %s: runnable code blocks for documentation pages\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  playpen <Main.java>                 Run a file once and print the report")
	fmt.Fprintln(w, "  playpen -tui [Main.java]            Edit and run a file in the terminal")
	fmt.Fprintln(w, "  playpen -server [-addr :8080]       Serve the docs site with live editors")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -endpoint <url>       Execution endpoint (POST sourceCode=..., JSON {\"output\": ...})")
	fmt.Fprintln(w, "  -config <file>        YAML config (default: $XDG_CONFIG_HOME/playpen/config.yaml)")
	fmt.Fprintln(w, "  -docs <dir>           Markdown pages served by -server (default: docs)")
	fmt.Fprintln(w, "  -addr <addr>          Server listen address (default: 127.0.0.1:8080)")
	fmt.Fprintln(w, "  -ledger <path>        SQLite run ledger; \"default\" uses the data directory")
	fmt.Fprintln(w, "  -verbose              Debug logging")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  playpen -endpoint http://localhost:9000/run Main.java")
	fmt.Fprintln(w, "  playpen -server -docs ./lessons -ledger default")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  PLAYPEN_RUNNER_ENDPOINT   %s\n", envStatus("PLAYPEN_RUNNER_ENDPOINT"))
	fmt.Fprintf(w, "  PLAYPEN_SERVER_ADDR       %s\n", envStatus("PLAYPEN_SERVER_ADDR"))
	fmt.Fprintf(w, "  PLAYPEN_LOG_LEVEL         %s\n", envStatus("PLAYPEN_LOG_LEVEL"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Any config key can be set as PLAYPEN_<SECTION>_<KEY>, e.g. PLAYPEN_PLAYPEN_MAX_LENGTH.")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
