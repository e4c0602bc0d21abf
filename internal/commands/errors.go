package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/onevibe0405/Ferry/internal/notifier"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindForbidden
	KindPermission
	KindHierarchy
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindPermission:
		return "permission"
	case KindHierarchy:
		return "hierarchy"
	default:
		return "unknown"
	}
}

// UserError is an expected failure shown to the invoking user as is.
type UserError struct {
	Kind    ErrorKind
	Title   string
	Message string
}

func (e *UserError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

func (e *UserError) Embed() *discordgo.MessageEmbed {
	return notifier.Failure(e.Title, e.Message)
}

func newUserError(kind ErrorKind, title, format string, args ...interface{}) error {
	return &UserError{Kind: kind, Title: title, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) error {
	return newUserError(KindValidation, "Invalid Input", format, args...)
}

func notFoundError(title, format string, args ...interface{}) error {
	return newUserError(KindNotFound, title, format, args...)
}

func forbiddenError(format string, args ...interface{}) error {
	return newUserError(KindForbidden, "Missing Permissions", format, args...)
}

func permissionError(format string, args ...interface{}) error {
	return newUserError(KindPermission, "Permission Error", format, args...)
}

func hierarchyError(format string, args ...interface{}) error {
	return newUserError(KindHierarchy, "Hierarchy Error", format, args...)
}
