package report

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"github.com/Zarux/tdtictactoe/pkg/td"
	"github.com/Zarux/tdtictactoe/pkg/tictactoe"
)

type Entry struct {
	Key   td.StateKey
	Value float64
}

// Ranked returns the table entries sorted by value, highest first. Equal
// values are ordered by key so the output is stable.
func Ranked(table *td.ValueTable) []Entry {
	entries := make([]Entry, 0, table.Len())
	for _, k := range table.Keys() {
		entries = append(entries, Entry{Key: k, Value: table.Value(k)})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(b.Value, a.Value)
	})

	return entries
}

var inspectSymbols = map[tictactoe.Player]string{
	tictactoe.Empty: ".",
	tictactoe.P1:    "X",
	tictactoe.P2:    "O",
}

// WriteInspection writes every state of table as a small board drawing with
// its value, best states first.
func WriteInspection(w io.Writer, table *td.ValueTable) error {
	var s strings.Builder
	fmt.Fprintf(&s, "Total States: %d\n", table.Len())
	s.WriteString("========================================\n\n")

	for _, e := range Ranked(table) {
		b, err := td.Decode(e.Key)
		if err != nil {
			fmt.Fprintf(&s, "Error parsing state: %s\nValue: %v\nError: %v\n\n", e.Key, e.Value, err)
			continue
		}

		fmt.Fprintf(&s, "Value: %.4f\n", e.Value)
		for r := range tictactoe.N {
			s.WriteString(" ")
			for c := range tictactoe.N {
				s.WriteString(inspectSymbols[b.Get(tictactoe.Move{Row: r, Col: c})])
				s.WriteString(" ")
			}
			s.WriteString("\n")
		}
		s.WriteString("\n----------------------------------------\n")
	}

	_, err := io.WriteString(w, s.String())
	return err
}

func WriteInspectionFile(path string, table *td.ValueTable) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create inspection file")
	}
	defer f.Close()

	return errors.Wrap(WriteInspection(f, table), "write inspection")
}

// Summary prints a colored overview of the best and worst states.
func Summary(w io.Writer, table *td.ValueTable, top int) {
	ranked := Ranked(table)
	fmt.Fprintf(w, "Loaded policy with %d states.\n", aurora.Bold(len(ranked)))
	if len(ranked) == 0 {
		return
	}

	top = max(0, min(top, len(ranked)))

	fmt.Fprintln(w, aurora.Green("best afterstates"))
	for _, e := range ranked[:top] {
		fmt.Fprintf(w, "  %s %s\n", e.Key, aurora.Green(fmt.Sprintf("%.4f", e.Value)))
	}

	fmt.Fprintln(w, aurora.Red("worst afterstates"))
	for _, e := range ranked[len(ranked)-top:] {
		fmt.Fprintf(w, "  %s %s\n", e.Key, aurora.Red(fmt.Sprintf("%.4f", e.Value)))
	}
}
