package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmcortes/harmonia/internal/rules"
)

// RulesOptions holds flags for the rules command.
type RulesOptions struct {
	*RootOptions
	RulesFile string // custom rule catalogue, CUE
}

// RuleListing is one catalogue entry in the rules command's output.
type RuleListing struct {
	Name       string   `json:"name"`
	Tier       int      `json:"tier"`
	TierLabel  string   `json:"tier_label"`
	Color      string   `json:"color"`
	ShortMsg   string   `json:"short_msg"`
	FullMsg    string   `json:"full_msg,omitempty"`
	Exceptions []string `json:"exceptions,omitempty"`
	Enabled    bool     `json:"enabled"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RulesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the voice-leading rule catalogue",
		Long: `List every rule in the catalogue with its tier, display color and
the exception kinds that may pardon it.

Examples:
  harmonia rules
  harmonia rules --rules house-rules.cue
  harmonia rules --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RulesFile, "rules", "", "custom rule catalogue (CUE file)")

	return cmd
}

func runRules(opts *RulesOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	defs, err := loadCatalog(opts.RulesFile)
	if err != nil {
		formatter.Error(ErrCodeBadCatalog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading rule catalogue", err)
	}

	listings := make([]RuleListing, 0, len(defs))
	for _, d := range defs {
		listings = append(listings, ruleListing(d))
	}

	if opts.Format == "json" {
		return formatter.Success(listings)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%d rules\n\n", len(listings))
	for _, l := range listings {
		status := " "
		if !l.Enabled {
			status = "off"
		}
		fmt.Fprintf(w, "  %-26s %-9s %-7s %3s  %s\n",
			l.Name, l.TierLabel, l.Color, status, l.ShortMsg)
		if opts.Verbose {
			if l.FullMsg != "" {
				fmt.Fprintf(w, "    %s\n", l.FullMsg)
			}
			if len(l.Exceptions) > 0 {
				fmt.Fprintf(w, "    exceptions: %s\n", strings.Join(l.Exceptions, ", "))
			}
		}
	}
	return nil
}

func ruleListing(d rules.Definition) RuleListing {
	exceptions := make([]string, len(d.Exceptions))
	for i, e := range d.Exceptions {
		exceptions[i] = string(e)
	}
	return RuleListing{
		Name:       d.Name,
		Tier:       int(d.Tier),
		TierLabel:  tierLabel(d.Tier),
		Color:      d.Color,
		ShortMsg:   d.ShortMsg,
		FullMsg:    d.FullMsg,
		Exceptions: exceptions,
		Enabled:    d.Enabled,
	}
}

func tierLabel(t rules.Tier) string {
	switch t {
	case rules.TierCritical:
		return "critical"
	case rules.TierImportant:
		return "important"
	case rules.TierAdvanced:
		return "advanced"
	}
	return fmt.Sprintf("tier-%d", t)
}
