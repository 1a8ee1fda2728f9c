package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	tricipher "github.com/BackendStack21/tricipher-go"
	"github.com/BackendStack21/tricipher-go/cipher"
	"github.com/BackendStack21/tricipher-go/key"
	"github.com/BackendStack21/tricipher-go/keyring"
	"github.com/BackendStack21/tricipher-go/utils"
)

// KeyExport is the JSON form of a generated or stored key.
type KeyExport struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Key         string `json:"key"`
	Fingerprint string `json:"fingerprint"`
	Capacity    int    `json:"capacity"`
	CreatedAt   string `json:"created_at,omitempty"`
	Seed        string `json:"seed,omitempty"`
}

// EncodeExport is the JSON form of an encode result.
type EncodeExport struct {
	Ciphertext string           `json:"ciphertext"`
	Key        KeyExport        `json:"key"`
	Trace      *tricipher.Trace `json:"trace,omitempty"`
}

// DecodeExport is the JSON form of a decode result.
type DecodeExport struct {
	Plaintext string           `json:"plaintext"`
	Trace     *tricipher.Trace `json:"trace,omitempty"`
}

var (
	errKeySource  = errors.New("exactly one of --key or --key-ref is required")
	errKeygenSize = errors.New("one of --length or --message is required")
	errSeedSource = errors.New("--seed and --new-seed are mutually exclusive")
)

const newSeedSize = 32

func exportKey(k *key.Key) KeyExport {
	return KeyExport{
		Key:         k.String(),
		Fingerprint: hex.EncodeToString(k.Fingerprint()),
		Capacity:    k.MessageCapacity(),
	}
}

func exportRecord(rec *keyring.Record, k *key.Key) KeyExport {
	e := exportKey(k)
	e.ID = rec.ID
	e.Name = rec.Name
	e.CreatedAt = rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	return e
}

func seedFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "seed",
		Usage: "Hex seed (at least 32 bytes) for deterministic key generation",
	}
}

func saveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "save",
			Usage: "Store the generated key in the keyring",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "Name for the stored key",
		},
	}
}

func keySourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "key",
			Aliases: []string{"k"},
			Usage:   "Comma-separated master key",
		},
		&cli.StringFlag{
			Name:    "key-ref",
			Aliases: []string{"r"},
			Usage:   "Keyring ID, name, or fingerprint prefix",
		},
	}
}

func traceFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "trace",
		Aliases: []string{"t"},
		Usage:   "Show the values produced by each stage",
	}
}

// ============================================================================
// keygen
// ============================================================================

func keygenCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "Generate a master key for a message length",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "length",
				Aliases: []string{"n"},
				Value:   -1,
				Usage:   "Message length (letters, whitespace excluded)",
			},
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "Size the key for this message",
			},
			seedFlag(),
			&cli.BoolFlag{
				Name:  "new-seed",
				Usage: "Derive the key from a fresh random seed and print the seed",
			},
		}, saveFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			length := int(cmd.Int("length"))
			if msg := cmd.String("message"); msg != "" {
				n, err := cipher.CleanLength(msg)
				if err != nil {
					return err
				}
				length = n
			}
			if length < 0 {
				return errKeygenSize
			}
			seedHex, printSeed := cmd.String("seed"), cmd.Bool("new-seed")
			if printSeed {
				if seedHex != "" {
					return errSeedSource
				}
				seed, err := utils.SecureRandomBytes(newSeedSize)
				if err != nil {
					return fmt.Errorf("draw seed: %w", err)
				}
				seedHex = hex.EncodeToString(seed)
			}
			return a.runKeygen(length, seedHex, printSeed, cmd.Bool("save"), cmd.String("name"))
		},
	}
}

func (a *app) generateKey(length int, seedHex string) (*key.Key, error) {
	if seedHex == "" {
		return key.Generate(length)
	}
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("invalid seed hex: %w", err)
	}
	return key.GenerateFromSeed(seed, length)
}

func (a *app) runKeygen(length int, seedHex string, printSeed, save bool, name string) error {
	k, err := a.generateKey(length, seedHex)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	defer k.Destroy()
	a.logger.Info("key generated",
		slog.Int("length", length),
		slog.Int("capacity", k.MessageCapacity()),
		slog.String("fingerprint", k.ShortID()),
	)

	export := exportKey(k)
	if save || a.cfg.AutoSave {
		rec, err := a.saveKey(name, k)
		if err != nil {
			return err
		}
		export = exportRecord(rec, k)
	}
	if printSeed {
		export.Seed = seedHex
	}
	return a.print(export, func(p *printer) {
		p.line("Key Generated: %s", export.Key)
		p.line("Fingerprint: %s", export.Fingerprint)
		if export.ID != "" {
			p.line("Key ID: %s", export.ID)
		}
		if export.Seed != "" {
			p.line("Seed: %s", export.Seed)
		}
	})
}

// ============================================================================
// encode / decode
// ============================================================================

func encodeCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:    "encode",
		Aliases: []string{"enc"},
		Usage:   "Encode a message; a key is generated when none is given",
		Flags: append(append([]cli.Flag{
			&cli.StringFlag{
				Name:     "message",
				Aliases:  []string{"m"},
				Required: true,
				Usage:    "Plaintext to encode",
			},
			seedFlag(),
			traceFlag(),
		}, keySourceFlags()...), saveFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.runEncode(encodeRequest{
				message: cmd.String("message"),
				keyStr:  cmd.String("key"),
				keyRef:  cmd.String("key-ref"),
				seed:    cmd.String("seed"),
				trace:   cmd.Bool("trace"),
				save:    cmd.Bool("save"),
				name:    cmd.String("name"),
			})
		},
	}
}

type encodeRequest struct {
	message, keyStr, keyRef, seed, name string
	trace, save                         bool
}

func (a *app) runEncode(req encodeRequest) error {
	var (
		k      *key.Key
		export KeyExport
		err    error
	)
	switch {
	case req.keyStr != "" && req.keyRef != "":
		return errKeySource
	case req.keyStr != "" || req.keyRef != "":
		k, export, err = a.loadKey(req.keyStr, req.keyRef)
		if err != nil {
			return err
		}
	default:
		n, err := cipher.CleanLength(req.message)
		if err != nil {
			return err
		}
		k, err = a.generateKey(n, req.seed)
		if err != nil {
			return fmt.Errorf("generate key: %w", err)
		}
		a.logger.Info("key generated", slog.Int("length", n), slog.String("fingerprint", k.ShortID()))
		export = exportKey(k)
		if req.save || a.cfg.AutoSave {
			rec, err := a.saveKey(req.name, k)
			if err != nil {
				return err
			}
			export = exportRecord(rec, k)
		}
	}

	defer k.Destroy()

	tr, err := cipher.EncodeTrace(req.message, k)
	if err != nil {
		return err
	}
	result := EncodeExport{Ciphertext: tr.Output, Key: export}
	if req.trace {
		result.Trace = tr
	}
	return a.print(result, func(p *printer) {
		p.line("Key: %s", export.Key)
		if export.ID != "" {
			p.line("Key ID: %s", export.ID)
		}
		if req.trace {
			p.trace(tr, false)
		}
		p.line("Resulting Cipher: %s", tr.Output)
	})
}

func decodeCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:    "decode",
		Aliases: []string{"dec"},
		Usage:   "Decode a ciphertext with a supplied or stored key",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "ciphertext",
				Aliases:  []string{"c"},
				Required: true,
				Usage:    "Ciphertext to decode",
			},
			traceFlag(),
		}, keySourceFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.runDecode(cmd.String("ciphertext"), cmd.String("key"), cmd.String("key-ref"), cmd.Bool("trace"))
		},
	}
}

func (a *app) runDecode(ciphertext, keyStr, keyRef string, trace bool) error {
	if (keyStr == "") == (keyRef == "") {
		return errKeySource
	}
	k, _, err := a.loadKey(keyStr, keyRef)
	if err != nil {
		return err
	}
	defer k.Destroy()

	tr, err := cipher.DecodeTrace(ciphertext, k)
	if err != nil {
		return err
	}
	result := DecodeExport{Plaintext: tr.Output}
	if trace {
		result.Trace = tr
	}
	return a.print(result, func(p *printer) {
		if trace {
			p.trace(tr, true)
		}
		p.line("Decoded Cipher: %s", tr.Output)
	})
}

// loadKey parses an inline key or resolves one from the keyring.
func (a *app) loadKey(keyStr, keyRef string) (*key.Key, KeyExport, error) {
	if keyStr != "" {
		k, err := key.Parse(keyStr)
		if err != nil {
			return nil, KeyExport{}, err
		}
		return k, exportKey(k), nil
	}

	store, err := keyring.Open(a.cfg.KeyringPath)
	if err != nil {
		return nil, KeyExport{}, err
	}
	defer a.closeStore(store)

	rec, err := store.Resolve(keyRef)
	if err != nil {
		return nil, KeyExport{}, err
	}
	k, err := rec.Key()
	if err != nil {
		return nil, KeyExport{}, err
	}
	a.logger.Debug("key loaded from keyring",
		slog.String("key_id", rec.ID),
		slog.String("keyring", store.Path()),
	)
	return k, exportRecord(rec, k), nil
}

func (a *app) saveKey(name string, k *key.Key) (*keyring.Record, error) {
	store, err := keyring.Open(a.cfg.KeyringPath)
	if err != nil {
		return nil, err
	}
	defer a.closeStore(store)

	rec, err := store.Put(name, k)
	if err != nil {
		return nil, err
	}
	a.logger.Info("key saved",
		slog.String("key_id", rec.ID),
		slog.String("name", rec.Name),
		slog.String("fingerprint", k.ShortID()),
	)
	return rec, nil
}

func (a *app) closeStore(store *keyring.Store) {
	if err := store.Close(); err != nil {
		a.logger.Error("failed to close keyring", slog.Any("error", err))
	}
}
