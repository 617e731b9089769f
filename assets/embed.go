// Package assets embeds the default equation list so the solver runs without
// any files configured.
package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed equations.txt
var FS embed.FS

// DefaultCorpusName is the embedded file holding every valid 8-character equation.
const DefaultCorpusName = "equations.txt"

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// EquationList returns the embedded default equations in file order.
func EquationList() ([]string, error) {
	return readLines(DefaultCorpusName)
}
