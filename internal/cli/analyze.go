package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmcortes/harmonia/internal/analysis"
	"github.com/jmcortes/harmonia/internal/catalog"
	"github.com/jmcortes/harmonia/internal/harness"
	"github.com/jmcortes/harmonia/internal/rules"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	RulesFile    string   // custom rule catalogue, CUE
	DisableRules []string // rule names to switch off
}

// AnalysisReport is the analyze command's output payload.
type AnalysisReport struct {
	Key        string              `json:"key"`
	Analyses   []analysis.Analysis `json:"analyses"`
	Violations []ViolationReport   `json:"violations"`
	Errors     []string            `json:"errors,omitempty"`
}

// ViolationReport positions a violation in score terms. Chords are read
// as quarter notes in common time, four to the measure.
type ViolationReport struct {
	ID         string `json:"id"`
	Rule       string `json:"rule"`
	Tier       int    `json:"tier"`
	Color      string `json:"color"`
	Measure    int    `json:"measure"`
	Beat       int    `json:"beat"`
	Voices     string `json:"voices,omitempty"`
	ShortMsg   string `json:"short_msg"`
	FullMsg    string `json:"full_msg,omitempty"`
	Confidence int    `json:"confidence"`
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze <progression.yaml>",
		Short: "Label a progression and check its voice leading",
		Long: `Analyze a four-voice progression in a given key.

Each chord gets a roman-numeral label with inversion cipher and harmonic
function, then every adjacent pair is checked against the voice-leading
rule catalogue.

Exit codes:
  0 - Analysis completed (violations may still be reported)
  2 - Command error (missing file, malformed progression, bad catalogue)

Examples:
  harmonia analyze progression.yaml
  harmonia analyze progression.yaml --disable-rule parallel_fifths
  harmonia analyze progression.yaml --rules house-rules.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RulesFile, "rules", "", "custom rule catalogue (CUE file)")
	cmd.Flags().StringArrayVar(&opts.DisableRules, "disable-rule", nil, "rule to disable (repeatable)")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	prog, err := LoadProgression(path)
	if err != nil {
		formatter.Error(ErrCodeParseFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading progression", err)
	}
	formatter.VerboseLog("loaded %d chords from %s", len(prog.Chords), path)

	k, err := keyContext(prog.Key)
	if err != nil {
		formatter.Error(ErrCodeParseFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "building key context", err)
	}

	snapshots, err := chordSnapshots(prog.Chords)
	if err != nil {
		formatter.Error(ErrCodeParseFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parsing chords", err)
	}

	defs, err := loadCatalog(opts.RulesFile)
	if err != nil {
		formatter.Error(ErrCodeBadCatalog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading rule catalogue", err)
	}

	logger := commandLogger(opts.Verbose, cmd.ErrOrStderr())
	engine, err := rules.NewEngine(defs, logger)
	if err != nil {
		formatter.Error(ErrCodeBadCatalog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "building rule engine", err)
	}
	if len(opts.DisableRules) > 0 {
		engine = engine.WithRulesDisabled(opts.DisableRules...)
		formatter.VerboseLog("disabled rules: %s", strings.Join(opts.DisableRules, ", "))
	}

	analyzer := analysis.NewAnalyzer(k, logger)
	analyses := analyzer.AnalyzeProgression(snapshots)
	violations, evalErrs := engine.ValidateProgression(k, analyses)

	report := AnalysisReport{
		Key:        k.String(),
		Analyses:   analyses,
		Violations: make([]ViolationReport, 0, len(violations)),
	}
	for i, v := range violations {
		report.Violations = append(report.Violations, violationReport(i, v))
	}
	for _, ee := range evalErrs {
		report.Errors = append(report.Errors, ee.Error())
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	return writeAnalysisText(formatter, prog, report)
}

// loadCatalog compiles either the embedded catalogue or a user override.
func loadCatalog(path string) ([]rules.Definition, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

func violationReport(index int, v rules.Violation) ViolationReport {
	voices := make([]string, len(v.Voices))
	for i, voice := range v.Voices {
		voices[i] = string(voice)
	}
	return ViolationReport{
		ID:         fmt.Sprintf("err-%d", index),
		Rule:       v.Rule,
		Tier:       int(v.Tier),
		Color:      v.Color,
		Measure:    v.ChordIndex/4 + 1,
		Beat:       v.ChordIndex%4 + 1,
		Voices:     strings.Join(voices, "-"),
		ShortMsg:   v.ShortMsg,
		FullMsg:    v.FullMsg,
		Confidence: v.Confidence,
	}
}

func writeAnalysisText(formatter *OutputFormatter, prog *Progression, report AnalysisReport) error {
	w := formatter.Writer

	fmt.Fprintf(w, "Key: %s\n\n", report.Key)
	for i, a := range report.Analyses {
		fmt.Fprintf(w, "  %d.%d  %-14s %-8s %s\n",
			i/4+1, i%4+1, voicingLabel(prog.Chords[i]), a.Text, a.Function)
	}

	if len(report.Violations) == 0 {
		fmt.Fprintln(w, "\nNo violations.")
	} else {
		fmt.Fprintf(w, "\nViolations (%d):\n", len(report.Violations))
		for _, v := range report.Violations {
			loc := fmt.Sprintf("m%d b%d", v.Measure, v.Beat)
			line := fmt.Sprintf("  %-7s %-24s %-6s", v.ID, v.Rule, loc)
			if v.Voices != "" {
				line += fmt.Sprintf(" %-8s", v.Voices)
			}
			fmt.Fprintf(w, "%s %s (confidence %d)\n", line, v.ShortMsg, v.Confidence)
		}
	}

	for _, e := range report.Errors {
		fmt.Fprintf(w, "\nWarning: %s\n", e)
	}
	return nil
}

// voicingLabel joins the sounding voices bass to soprano.
func voicingLabel(spec harness.ChordSpec) string {
	parts := make([]string, 0, 4)
	for _, note := range []string{spec.B, spec.T, spec.A, spec.S} {
		if note != "" {
			parts = append(parts, note)
		}
	}
	return strings.Join(parts, "-")
}
