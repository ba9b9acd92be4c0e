package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/scala-steward/diesel-core/marker"
)

func printMarker(m marker.Marker) {
	line := fmt.Sprintf("%s %v: %s", m.Kind, m.Span, m.Message)
	switch m.Severity {
	case marker.SeverityError:
		pterm.Error.Println(line)
	case marker.SeverityWarning:
		pterm.Warning.Println(line)
	default:
		pterm.Info.Println(line)
	}
}
