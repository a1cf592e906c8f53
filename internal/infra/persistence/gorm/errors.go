package gormpersistence

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"lobby-backend/internal/repository"
)

const mysqlDuplicateEntry = 1062

// translateDuplicate maps a MySQL duplicate-key error onto the repository
// sentinel for the violated index, or the generic ErrDuplicateEntry when the
// index is not one we recognize. Non-duplicate errors pass through unchanged.
func translateDuplicate(err error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) || myErr.Number != mysqlDuplicateEntry {
		return err
	}
	switch {
	case strings.Contains(myErr.Message, "idx_room_title"):
		return repository.ErrTitleTaken
	case strings.Contains(myErr.Message, "idx_username"):
		return repository.ErrUsernameTaken
	case strings.Contains(myErr.Message, "idx_email"):
		return repository.ErrEmailTaken
	}
	return repository.ErrDuplicateEntry
}
