package handlers

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/fairdice/internal/frontend/telnet"
	"github.com/cory-johannsen/fairdice/internal/game/dice"
	"github.com/cory-johannsen/fairdice/internal/game/probability"
)

// RenderProbabilityTable renders the pairwise win-probability matrix for a
// dice set as an aligned text table. Cell [i][j] is the probability that
// the row die beats the column die; the diagonal is a die against itself.
func RenderProbabilityTable(set []dice.Die) string {
	matrix := probability.Matrix(set)

	headers := make([]string, 0, len(set)+1)
	headers = append(headers, "User dice v")
	for _, d := range set {
		headers = append(headers, d.String())
	}

	rows := make([][]string, 0, len(set))
	for i, d := range set {
		row := make([]string, 0, len(set)+1)
		row = append(row, telnet.Colorize(telnet.Cyan, d.String()))
		for j := range set {
			cell := fmt.Sprintf("%.4f", matrix[i][j])
			if i == j {
				cell = telnet.Colorize(telnet.Dim, "- ("+cell+")")
			} else if matrix[i][j] > 0.5 {
				cell = telnet.Colorize(telnet.Green, cell)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	return renderTable(headers, rows)
}

// renderTable lays out a header row and body rows with ANSI-aware column
// widths.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(telnet.StripANSI(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := len(telnet.StripANSI(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			pad := widths[i] - len(telnet.StripANSI(cell))
			b.WriteString("| " + cell + strings.Repeat(" ", pad) + " ")
		}
		b.WriteString("|\n")
	}
	separator := func() {
		for _, w := range widths {
			b.WriteString("+" + strings.Repeat("-", w+2))
		}
		b.WriteString("+\n")
	}

	separator()
	writeRow(headers)
	separator()
	for _, row := range rows {
		writeRow(row)
	}
	separator()
	return strings.TrimRight(b.String(), "\n")
}

// RenderHelp renders the help text: game rules, the fairness explanation,
// and the probability table for the active set.
func RenderHelp(set []dice.Die) string {
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.Bold, "How the game works") + "\n")
	b.WriteString("Each player picks a dice, both roll once, highest face wins.\n")
	b.WriteString("Every chance event is resolved fairly: I pick a secret number and\n")
	b.WriteString("show you its HMAC-SHA3-256 first, you add your number, and the sum\n")
	b.WriteString("modulo the range decides the outcome. After each exchange I reveal\n")
	b.WriteString("my number and key so you can recompute the HMAC and check I never\n")
	b.WriteString("changed my pick.\n\n")
	b.WriteString("Probability of the win for the user:\n")
	b.WriteString(RenderProbabilityTable(set))
	return b.String()
}

// RenderScore renders the running session score.
func RenderScore(wins, losses, draws int) string {
	return fmt.Sprintf("Score: you %d, me %d, draws %d", wins, losses, draws)
}
