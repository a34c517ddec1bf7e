package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manthysbr/tripplanner/internal/config"
)

// EncryptSecretCmd prints an "enc:" value to paste in the config file.
// The passphrase comes from TRIP_SECRET_KEY.
type EncryptSecretCmd struct {
	Args struct {
		Value string `positional-arg-name:"value" required:"yes"`
	} `positional-args:"yes"`

	out io.Writer
}

func (e *EncryptSecretCmd) Execute(_ []string) error {
	if e.Args.Value == "" {
		return errors.New("value is required")
	}
	enc, err := config.SealCredential(os.Getenv("TRIP_SECRET_KEY"), e.Args.Value)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	out := e.out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, enc)
	return nil
}
