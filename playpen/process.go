// ABOUTME: Runs the full output pipeline: truncation, optional diagnostic mapping, and formatting.
// ABOUTME: Produces the Report handed back to the editor front-end after every completed run.
package playpen

// TransportFailureMessage is shown when the execution endpoint could not be reached.
const TransportFailureMessage = "The server encountered an error while running the program."

// EmptyOutputMessage is shown when a run printed nothing.
const EmptyOutputMessage = "No output"

// Banner names the alert style the front-end uses for a report.
const (
	BannerSuccess = "success"
	BannerWarning = "warning"
	BannerDanger  = "danger"
)

// Options controls how Process turns a RunResult into a Report.
type Options struct {
	// MaxLength bounds the displayed output; zero or less disables truncation.
	MaxLength int
	Dialect   Dialect
	// Annotate maps failing output to error ranges and strips compiler boilerplate.
	Annotate bool
	// AnnotateWarnings maps warning references in successful output and strips
	// the same boilerplate as Annotate when any are found.
	AnnotateWarnings bool
}

// DefaultOptions returns the options the playground ships with.
func DefaultOptions() Options {
	return Options{
		MaxLength: DefaultMaxLength,
		Dialect:   JavaDialect,
		Annotate:  true,
	}
}

// Report is the display-ready outcome of one run.
type Report struct {
	Status    Status         `json:"status"`
	Message   DisplayMessage `json:"message"`
	Ranges    DiagnosticSet  `json:"ranges"`
	Kind      ProblemKind    `json:"kind,omitempty"`
	Banner    string         `json:"banner"`
	Truncated bool           `json:"truncated"`
}

// Process formats result for display. Truncation happens before escaping so
// the shortened marker is escaped exactly once along with the output.
func Process(result RunResult, opts Options) Report {
	switch result.Status {
	case StatusTransportFailure:
		return Report{
			Status:  result.Status,
			Message: DisplayMessage(EscapeHTML(TransportFailureMessage)),
			Banner:  BannerDanger,
		}
	case StatusEmpty:
		return Report{
			Status:  result.Status,
			Message: DisplayMessage(EmptyOutputMessage),
			Banner:  BannerWarning,
		}
	}

	text, truncated := Truncate(result.RawText, opts.MaxLength)
	report := Report{Status: result.Status, Truncated: truncated}

	switch result.Status {
	case StatusError:
		report.Banner = BannerDanger
		if opts.Annotate {
			lines, ranges := opts.Dialect.MapDiagnostics(text, KindError)
			if len(lines) == 0 {
				lines = SplitLines(text)
			}
			report.Message = Format(lines)
			report.Ranges = ranges
			report.Kind = KindError
			return report
		}
		report.Message = Format(SplitLines(text))
	default:
		report.Banner = BannerSuccess
		if opts.AnnotateWarnings {
			lines, ranges := opts.Dialect.MapDiagnostics(text, KindWarning)
			if len(ranges) > 0 {
				if len(lines) == 0 {
					lines = SplitLines(text)
				}
				report.Message = Format(lines)
				report.Ranges = ranges
				report.Kind = KindWarning
				return report
			}
		}
		report.Message = Format(SplitLines(text))
	}
	return report
}
