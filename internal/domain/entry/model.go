package entry

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidNickname = errors.New("invalid nickname")

// Entry is a user's participation slot. A user may own several.
type Entry struct {
	ID         string
	OwnerEmail string
	Nickname   string
	Verified   bool
	CreatedAt  time.Time
}

func NormalizeNickname(nickname string) (string, error) {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return "", ErrInvalidNickname
	}
	return trimmed, nil
}

func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("entry id is required")
	}
	if e.OwnerEmail == "" {
		return fmt.Errorf("entry owner email is required")
	}
	if _, err := NormalizeNickname(e.Nickname); err != nil {
		return err
	}

	return nil
}
