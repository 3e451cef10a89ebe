package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

func (cli *commandLine) importClubs(r io.Reader) error {
	clubs, err := cli.clubSvc.Import(context.Background(), r)
	if err != nil {
		return errors.Wrap(err, "importing clubs")
	}
	fmt.Printf("%d clubs imported\n", len(clubs))
	return nil
}
