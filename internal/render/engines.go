package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/johndauphine/db-volumetry/internal/driver"
)

// Engines writes the registered engines with their aliases and default ports.
func Engines(w io.Writer) {
	table := newTable(w, []string{"Name", "Engine", "Aliases", "Default Port"})
	for _, kind := range driver.Kinds() {
		d, err := driver.Get(kind)
		if err != nil {
			continue
		}
		port := "-"
		if p := d.Defaults().Port; p > 0 {
			port = strconv.Itoa(p)
		}
		table.Append([]string{kind.String(), kind.Label(), strings.Join(d.Aliases(), ", "), port})
	}
	table.Render()
}
