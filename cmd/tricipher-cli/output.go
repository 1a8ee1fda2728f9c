package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	tricipher "github.com/BackendStack21/tricipher-go"
	"github.com/BackendStack21/tricipher-go/internal/config"
)

// printer writes text output and remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) ints(label string, values []int) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	p.line("  %-12s [%s]", label+":", strings.Join(parts, " "))
}

// trace prints the stage values in the order they were computed.
func (p *printer) trace(tr *tricipher.Trace, decode bool) {
	p.line("Input: %s", tr.Input)
	p.line("Stages:")
	if decode {
		p.ints("letters", tr.Digits)
		p.ints("untransposed", tr.Transposed)
		p.ints("hill", tr.Product)
		p.ints("plain", tr.Substituted)
		return
	}
	p.line("  %-12s %s", "normalized:", tr.Normalized)
	p.ints("digits", tr.Digits)
	p.ints("substituted", tr.Substituted)
	p.ints("hill", tr.Product)
	p.ints("transposed", tr.Transposed)
}

// print renders v as indented JSON or hands a printer to text.
func (a *app) print(v any, text func(p *printer)) error {
	if a.cfg.OutputFormat == config.FormatJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	p := &printer{w: a.out}
	text(p)
	return p.err
}
