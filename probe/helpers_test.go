package probe

import "github.com/pkg/errors"

func stackErr(msg string) error {
	return errors.New(msg)
}
