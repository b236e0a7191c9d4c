package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark/text"

	"github.com/Munckenh/obsidian-relative-dates/internal/dates"
	"github.com/Munckenh/obsidian-relative-dates/internal/mdtask"
	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

type scanMatch struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Offset   int    `json:"offset"`
	Length   int    `json:"length"`
	Raw      string `json:"raw"`
	RawDate  string `json:"rawDate"`
	RawTime  string `json:"rawTime,omitempty"`
	// ListItem is false for tokens in code spans, even inside a list item.
	ListItem bool   `json:"listItem"`
	Struck   bool   `json:"struck"`
	Valid    bool   `json:"valid"`

	Label  string       `json:"label,omitempty"`
	Bucket model.Bucket `json:"bucket,omitempty"`
	When   string       `json:"when,omitempty"`
}

type scanSummary struct {
	Total   int                  `json:"total"`
	Invalid int                  `json:"invalid"`
	Buckets map[model.Bucket]int `json:"buckets"`
}

func newScanCmd(app *App) *cobra.Command {
	var listsOnly bool

	cmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "List date tokens with their labels and buckets",
		Long: strings.TrimSpace(`
Scan a markdown file (or stdin) for date tokens and print each one with its
position, relative label and urgency bucket. Tokens that are not real dates are
reported with valid=false.
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			src, name, err := readInput(cmd, path)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.settings()
			if err != nil {
				return writeErr(cmd, err)
			}
			now := app.now()
			matches := scanSource(string(src), s, now, listsOnly)

			sum := scanSummary{Buckets: map[model.Bucket]int{}}
			for _, m := range matches {
				sum.Total++
				if !m.Valid {
					sum.Invalid++
					continue
				}
				sum.Buckets[m.Bucket]++
			}
			return writeOut(cmd, app, map[string]any{
				"data": matches,
				"meta": map[string]any{
					"file":    name,
					"now":     now.Format(time.RFC3339),
					"pattern": dates.Compile(s).String(),
					"summary": sum,
				},
			})
		},
	}
	cmd.Flags().BoolVar(&listsOnly, "lists-only", false, "Only report tokens inside list items")
	return cmd
}

// scanSource reports every token in src. Tokens inside list items carry the
// item's strikethrough state.
func scanSource(src string, s model.Settings, now time.Time, listsOnly bool) []scanMatch {
	p := dates.Compile(s)
	out := []scanMatch{}
	if !p.Contains(src) {
		return out
	}

	b := []byte(src)
	regions := mdtask.Regions(mdtask.New().Parser().Parse(text.NewReader(b)), b)
	regionAt := func(off int) (mdtask.Region, bool) {
		for _, r := range regions {
			if off >= r.From && off < r.To {
				return r, true
			}
		}
		return mdtask.Region{}, false
	}

	for tok := range p.Tokens(src, now) {
		m := tok.Match
		r, inItem := regionAt(m.Offset)
		if listsOnly && !inItem {
			continue
		}
		line := strings.Count(src[:m.Offset], "\n")
		col := m.Offset - (strings.LastIndexByte(src[:m.Offset], '\n') + 1)
		sm := scanMatch{
			Line:     line + 1,
			Column:   col + 1,
			Offset:   m.Offset,
			Length:   m.Length,
			Raw:      m.Raw,
			RawDate:  m.RawDate,
			RawTime:  m.RawTime,
			ListItem: inItem,
			Valid:    tok.OK,
		}
		if inItem {
			sm.Struck = mdtask.StruckThrough(r.Item)
		}
		if tok.OK {
			sm.Label = tok.Classification.Label
			sm.Bucket = tok.Classification.Bucket
			sm.When = tok.Classification.When.Format(time.RFC3339)
		}
		out = append(out, sm)
	}
	return out
}
