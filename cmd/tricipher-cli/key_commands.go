package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/BackendStack21/tricipher-go/key"
	"github.com/BackendStack21/tricipher-go/keyring"
)

func keyCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "key",
		Usage: "Manage keys stored in the keyring",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored keys",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.runKeyList()
				},
			},
			{
				Name:      "show",
				Usage:     "Show a stored key",
				ArgsUsage: "<id|name|prefix>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.runKeyShow(cmd.Args().First())
				},
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a stored key",
				ArgsUsage: "<id|name|prefix>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.runKeyDelete(cmd.Args().First())
				},
			},
			{
				Name:  "validate",
				Usage: "Check that a key has well-formed components",
				Flags: keySourceFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.runKeyValidate(cmd.String("key"), cmd.String("key-ref"))
				},
			},
		},
	}
}

func (a *app) withStore(fn func(*keyring.Store) error) error {
	store, err := keyring.Open(a.cfg.KeyringPath)
	if err != nil {
		return err
	}
	defer a.closeStore(store)
	return fn(store)
}

func (a *app) runKeyList() error {
	var exports []KeyExport
	err := a.withStore(func(store *keyring.Store) error {
		records, err := store.List()
		if err != nil {
			return err
		}
		exports = make([]KeyExport, 0, len(records))
		for i := range records {
			k, err := records[i].Key()
			if err != nil {
				return err
			}
			exports = append(exports, exportRecord(&records[i], k))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return a.print(exports, func(p *printer) {
		if len(exports) == 0 {
			p.line("No keys stored in %s", a.cfg.KeyringPath)
			return
		}
		for _, e := range exports {
			name := e.Name
			if name == "" {
				name = "-"
			}
			p.line("%s  %-16s  %s  capacity=%d", e.ID, name, e.Fingerprint[:16], e.Capacity)
		}
	})
}

func (a *app) runKeyShow(ref string) error {
	if ref == "" {
		return errors.New("a key reference is required")
	}
	_, export, err := a.loadKey("", ref)
	if err != nil {
		return err
	}
	return a.print(export, func(p *printer) {
		p.line("ID: %s", export.ID)
		if export.Name != "" {
			p.line("Name: %s", export.Name)
		}
		p.line("Fingerprint: %s", export.Fingerprint)
		p.line("Capacity: %d", export.Capacity)
		p.line("Created: %s", export.CreatedAt)
		p.line("Key: %s", export.Key)
	})
}

func (a *app) runKeyDelete(ref string) error {
	if ref == "" {
		return errors.New("a key reference is required")
	}
	var id string
	err := a.withStore(func(store *keyring.Store) error {
		rec, err := store.Resolve(ref)
		if err != nil {
			return err
		}
		id = rec.ID
		return store.Delete(id)
	})
	if err != nil {
		return err
	}
	a.logger.Info("key deleted", slog.String("key_id", id))
	return a.print(map[string]string{"deleted": id}, func(p *printer) {
		p.line("Deleted key %s", id)
	})
}

// ValidationExport reports the outcome of key validate.
type ValidationExport struct {
	Valid    bool   `json:"valid"`
	Length   int    `json:"length"`
	Capacity int    `json:"capacity"`
	Error    string `json:"error,omitempty"`
}

func (a *app) runKeyValidate(keyStr, keyRef string) error {
	if (keyStr == "") == (keyRef == "") {
		return errKeySource
	}
	var (
		k   *key.Key
		err error
	)
	if keyStr != "" {
		k, err = key.Parse(keyStr)
	} else {
		k, _, err = a.loadKey("", keyRef)
	}
	if err != nil {
		return err
	}
	defer k.Destroy()

	res := ValidationExport{Valid: true, Length: k.Len(), Capacity: k.MessageCapacity()}
	verr := k.Validate()
	if verr != nil {
		res.Valid = false
		res.Error = verr.Error()
	}
	if perr := a.print(res, func(p *printer) {
		if res.Valid {
			p.line("Key is valid (length %d, capacity %d)", res.Length, res.Capacity)
			return
		}
		p.line("Key is invalid:")
		p.line("%s", res.Error)
	}); perr != nil {
		return perr
	}
	if verr != nil {
		return fmt.Errorf("key validation failed: %w", verr)
	}
	return nil
}
