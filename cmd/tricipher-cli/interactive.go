package main

import (
	"bufio"
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/BackendStack21/tricipher-go/cipher"
	"github.com/BackendStack21/tricipher-go/key"
)

const separator = "-----------------------------------------------------------------------------------"

func interactiveCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:    "interactive",
		Aliases: []string{"i"},
		Usage:   "Run the encode/decode menu on standard input",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.runInteractive(ctx)
		},
	}
}

// runInteractive loops over the menu until the user quits, input ends, or
// ctx is cancelled. Operation errors are reported and the menu is shown again.
func (a *app) runInteractive(ctx context.Context) error {
	sc := bufio.NewScanner(a.in)
	sc.Buffer(make([]byte, 0, 64*1024), 4<<20)
	p := &printer{w: a.out}

	prompt := func(text string) (string, bool) {
		_, _ = a.out.Write([]byte(text))
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	for ctx.Err() == nil {
		choice, ok := prompt("Do you want to:\n(1)Encode\n(2)Decode\n(3)Quit\nEnter Selection: ")
		if !ok {
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(choice))
		if err != nil {
			p.line("Error: Only enter a number corresponding to the operation you want done")
			continue
		}

		switch n {
		case 1:
			p.line("Encoding Option Selected")
			text, ok := prompt("Enter Text you want to encode: ")
			if !ok {
				return sc.Err()
			}
			a.interactiveEncode(p, text)
		case 2:
			p.line("Decoding Operation Selected")
			ct, ok := prompt("Enter the ciphertext you wish to decode: ")
			if !ok {
				return sc.Err()
			}
			ks, ok := prompt("Ciphertext saved\nNow enter the key to decode it: ")
			if !ok {
				return sc.Err()
			}
			a.interactiveDecode(p, ct, ks)
		case 3:
			p.line("Quit operation detected, now closing application...")
			return p.err
		default:
			p.line("Error: Unknown selection\nTry again...")
		}
		if p.err != nil {
			return p.err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return ctx.Err()
}

func (a *app) interactiveEncode(p *printer, text string) {
	n, err := cipher.CleanLength(text)
	if err != nil {
		p.line("Error: %v", err)
		return
	}
	k, err := key.Generate(n)
	if err != nil {
		p.line("Error: %v", err)
		return
	}
	defer k.Destroy()
	a.logger.Debug("key generated", slog.Int("length", n), slog.String("fingerprint", k.ShortID()))

	p.line(separator)
	p.line("Key Generated: %s\n", k.String())
	ct, err := cipher.Encode(text, k)
	if err != nil {
		p.line("Error: %v", err)
		return
	}
	p.line("Resulting Cipher: %s", ct)
	p.line(separator)
}

func (a *app) interactiveDecode(p *printer, ciphertext, keyStr string) {
	k, err := key.Parse(strings.Trim(strings.TrimSpace(keyStr), "[]"))
	if err != nil {
		p.line("Error: %v", err)
		return
	}
	defer k.Destroy()

	pt, err := cipher.Decode(ciphertext, k)
	if err != nil {
		p.line("Error: %v", err)
		return
	}
	p.line(separator)
	p.line("Decoded Cipher: %s", pt)
	p.line(separator)
}
